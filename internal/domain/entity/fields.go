package entity

// Fields 挿入順を保持するフィールドストア
// ワイヤフォーマット上の1つのJSONオブジェクトを表す。同じ名前への再設定は後勝ちで、
// キーの位置は最初に設定された位置のまま保たれる。
type Fields struct {
	keys   []string
	values map[string]Value
}

// NewFields 空のFieldsを作成
func NewFields() *Fields {
	return &Fields{
		values: make(map[string]Value),
	}
}

// Len フィールド数を返す
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys フィールド名を挿入順で返す
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Has フィールドが存在するかどうかを返す（値がnullでも存在すればtrue）
func (f *Fields) Has(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.values[name]
	return ok
}

// Get フィールド値を返す。存在しない場合はnull値とfalseを返す
func (f *Fields) Get(name string) (Value, bool) {
	if f == nil {
		return NullValue(), false
	}
	v, ok := f.values[name]
	return v, ok
}

// Set フィールド値を設定
func (f *Fields) Set(name string, v Value) {
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, ok := f.values[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.values[name] = v
}

// Delete フィールドを削除
func (f *Fields) Delete(name string) {
	if f == nil {
		return
	}
	if _, ok := f.values[name]; !ok {
		return
	}
	delete(f.values, name)
	for i, key := range f.keys {
		if key == name {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// Range 挿入順に全フィールドを走査する。fnがfalseを返すと中断する
func (f *Fields) Range(fn func(name string, v Value) bool) {
	if f == nil {
		return
	}
	for _, key := range f.keys {
		if !fn(key, f.values[key]) {
			return
		}
	}
}

// Clone 深いコピーを返す
func (f *Fields) Clone() *Fields {
	c := NewFields()
	if f == nil {
		return c
	}
	c.keys = make([]string, len(f.keys))
	copy(c.keys, f.keys)
	for key, v := range f.values {
		c.values[key] = v.clone()
	}
	return c
}

// MarshalJSON 挿入順を保ったJSONにエンコード
func (f *Fields) MarshalJSON() ([]byte, error) {
	return Encode(f)
}

// UnmarshalJSON JSONオブジェクトをデコード
func (f *Fields) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeObject(data)
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}

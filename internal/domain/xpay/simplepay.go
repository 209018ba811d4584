package xpay

import (
	"xpay-gateway/internal/domain/entity"
)

// SimplePayRequest ホスト型決済ページへ送信する支払いリクエスト
// 文字列フィールドは空文字を設定すると削除される
type SimplePayRequest struct {
	entity.Base
}

// NewSimplePayRequest 空のSimplePayRequestを作成
func NewSimplePayRequest() *SimplePayRequest {
	return &SimplePayRequest{Base: entity.NewBase(nil)}
}

// Importo セント単位の金額
func (r *SimplePayRequest) Importo() (*int64, error) {
	return r.GetInt("importo", false)
}

// SetImporto セント単位の金額を設定
func (r *SimplePayRequest) SetImporto(cents int64) {
	r.SetInt("importo", &cents)
}

// UnsetImporto 金額を削除
func (r *SimplePayRequest) UnsetImporto() {
	r.Unset("importo")
}

// ImportoAsDecimal 小数点付きの金額（"50.00"）。未設定なら空文字
func (r *SimplePayRequest) ImportoAsDecimal() (string, error) {
	cents, err := r.Importo()
	if err != nil || cents == nil {
		return "", err
	}
	return FormatAmount(*cents), nil
}

// SetImportoAsDecimal 小数点付きの金額を設定。数値でなければ金額を削除
func (r *SimplePayRequest) SetImportoAsDecimal(v string) {
	cents, err := ParseAmount(v)
	if err != nil {
		r.UnsetImporto()
		return
	}
	r.SetImporto(cents)
}

// Divisa 通貨コード（EURのみ）
func (r *SimplePayRequest) Divisa() (string, error) { return r.GetString("divisa", false) }

// SetDivisa 通貨コードを設定
func (r *SimplePayRequest) SetDivisa(v string) { r.SetString("divisa", v) }

// CodTrans 加盟店側の取引コード（2〜30文字、# ' " は使用不可）
func (r *SimplePayRequest) CodTrans() (string, error) { return r.GetString("codTrans", false) }

// SetCodTrans 取引コードを設定
func (r *SimplePayRequest) SetCodTrans(v string) { r.SetString("codTrans", v) }

// URL 決済後に顧客を戻すURL
func (r *SimplePayRequest) URL() (string, error) { return r.GetString("url", false) }

// SetURL 決済後に顧客を戻すURLを設定
func (r *SimplePayRequest) SetURL(v string) { r.SetString("url", v) }

// URLBack 顧客がキャンセルした場合に戻すURL
func (r *SimplePayRequest) URLBack() (string, error) { return r.GetString("url_back", false) }

// SetURLBack キャンセル時のURLを設定
func (r *SimplePayRequest) SetURLBack(v string) { r.SetString("url_back", v) }

// URLPost サーバ間通知の送信先URL
func (r *SimplePayRequest) URLPost() (string, error) { return r.GetString("urlpost", false) }

// SetURLPost サーバ間通知の送信先URLを設定
func (r *SimplePayRequest) SetURLPost(v string) { r.SetString("urlpost", v) }

// Mail 決済結果を送る購入者のメールアドレス
func (r *SimplePayRequest) Mail() (string, error) { return r.GetString("mail", false) }

// SetMail 購入者のメールアドレスを設定
func (r *SimplePayRequest) SetMail(v string) { r.SetString("mail", v) }

// LanguageID 決済ページの言語
func (r *SimplePayRequest) LanguageID() (string, error) { return r.GetString("languageId", false) }

// SetLanguageID 決済ページの言語を設定
func (r *SimplePayRequest) SetLanguageID(v string) { r.SetString("languageId", v) }

// Descrizione 取引の説明
func (r *SimplePayRequest) Descrizione() (string, error) { return r.GetString("descrizione", false) }

// SetDescrizione 取引の説明を設定
func (r *SimplePayRequest) SetDescrizione(v string) { r.SetString("descrizione", v) }

// Note1 任意のメモ1
func (r *SimplePayRequest) Note1() (string, error) { return r.GetString("Note1", false) }

// SetNote1 任意のメモ1を設定
func (r *SimplePayRequest) SetNote1(v string) { r.SetString("Note1", v) }

// Note2 任意のメモ2
func (r *SimplePayRequest) Note2() (string, error) { return r.GetString("Note2", false) }

// SetNote2 任意のメモ2を設定
func (r *SimplePayRequest) SetNote2(v string) { r.SetString("Note2", v) }

// Note3 任意のメモ3
func (r *SimplePayRequest) Note3() (string, error) { return r.GetString("Note3", false) }

// SetNote3 任意のメモ3を設定
func (r *SimplePayRequest) SetNote3(v string) { r.SetString("Note3", v) }

// OptionCF 利用者の納税者番号（Codice Fiscale）
func (r *SimplePayRequest) OptionCF() (string, error) { return r.GetString("OPTION_CF", false) }

// SetOptionCF 納税者番号を設定
func (r *SimplePayRequest) SetOptionCF(v string) { r.SetString("OPTION_CF", v) }

// Selectedcard 事前選択する決済手段
func (r *SimplePayRequest) Selectedcard() (string, error) {
	return r.GetString("selectedcard", false)
}

// SetSelectedcard 事前選択する決済手段を設定
func (r *SimplePayRequest) SetSelectedcard(v string) { r.SetString("selectedcard", v) }

// TCONTAB 売上計上方式（"C" 即時 / "D" 後日）
func (r *SimplePayRequest) TCONTAB() (string, error) { return r.GetString("TCONTAB", false) }

// SetTCONTAB 売上計上方式を設定
func (r *SimplePayRequest) SetTCONTAB(v string) { r.SetString("TCONTAB", v) }

// Infoc 加盟店への追加情報
func (r *SimplePayRequest) Infoc() (string, error) { return r.GetString("infoc", false) }

// SetInfoc 加盟店への追加情報を設定
func (r *SimplePayRequest) SetInfoc(v string) { r.SetString("infoc", v) }

// Infob カード発行会社への追加情報
func (r *SimplePayRequest) Infob() (string, error) { return r.GetString("infob", false) }

// SetInfob カード発行会社への追加情報を設定
func (r *SimplePayRequest) SetInfob(v string) { r.SetString("infob", v) }

// TipoRichiesta リクエスト種別
func (r *SimplePayRequest) TipoRichiesta() (string, error) {
	return r.GetString("tipo_richiesta", false)
}

// SetTipoRichiesta リクエスト種別を設定
func (r *SimplePayRequest) SetTipoRichiesta(v string) { r.SetString("tipo_richiesta", v) }

// XpayTimeout 決済ページのタイムアウト（秒）
func (r *SimplePayRequest) XpayTimeout() (*int64, error) { return r.GetInt("xpayTimeout", false) }

// SetXpayTimeout タイムアウトを設定。nilで削除
func (r *SimplePayRequest) SetXpayTimeout(v *int64) { r.SetInt("xpayTimeout", v) }

// Nome 支払者の名
func (r *SimplePayRequest) Nome() (string, error) { return r.GetString("nome", false) }

// SetNome 支払者の名を設定
func (r *SimplePayRequest) SetNome(v string) { r.SetString("nome", v) }

// Cognome 支払者の姓
func (r *SimplePayRequest) Cognome() (string, error) { return r.GetString("cognome", false) }

// SetCognome 支払者の姓を設定
func (r *SimplePayRequest) SetCognome(v string) { r.SetString("cognome", v) }

// ThreeDSDinamico 動的3Dセキュア（"SCA" / "EXEMPT"）
func (r *SimplePayRequest) ThreeDSDinamico() (string, error) {
	return r.GetString("3dsDinamico", false)
}

// SetThreeDSDinamico 動的3Dセキュアを設定
func (r *SimplePayRequest) SetThreeDSDinamico(v string) { r.SetString("3dsDinamico", v) }

// RequiredFields 必須フィールド
func (r *SimplePayRequest) RequiredFields() []string {
	return []string{"importo", "divisa", "codTrans", "url", "url_back"}
}

// AliasFieldName 署名時に加盟店エイリアスを設定するフィールド
func (r *SimplePayRequest) AliasFieldName() string {
	return "alias"
}

// MacFieldName MACフィールド名
func (r *SimplePayRequest) MacFieldName() string {
	return entity.DefaultMacFieldName
}

// MacFields MAC入力
func (r *SimplePayRequest) MacFields(entity.Credentials) ([]entity.MacField, error) {
	return collectMacFields(
		func() (entity.MacField, error) { return macString(&r.Base, "codTrans") },
		func() (entity.MacField, error) { return macString(&r.Base, "divisa") },
		func() (entity.MacField, error) { return macInt(&r.Base, "importo", "importo") },
	)
}

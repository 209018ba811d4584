package xpay

import (
	"net/url"

	"xpay-gateway/internal/domain/entity"
)

// CallbackData 決済結果の通知
// 顧客のリダイレクト（クエリ文字列）とサーバ間通知（フォーム）の両方で同じ内容が届く
type CallbackData struct {
	Response
}

// NewCallbackData フィールドストアからCallbackDataを作成
func NewCallbackData(f *entity.Fields) *CallbackData {
	return &CallbackData{Response: newResponse(f, "codiceEsito", "importo")}
}

// CallbackDataFromParams 受信したパラメータからCallbackDataを作成
func CallbackDataFromParams(params url.Values) *CallbackData {
	return NewCallbackData(fieldsFromParams(params))
}

// CodiceEsito 結果コード（カード決済では常に返る）
func (d *CallbackData) CodiceEsito() (*int64, error) { return d.GetInt("codiceEsito", false) }

// Messaggio 結果メッセージ
func (d *CallbackData) Messaggio() (string, error) { return d.GetString("messaggio", true) }

// CodAut 承認番号
func (d *CallbackData) CodAut() (string, error) { return d.GetString("codAut", false) }

// Alias 加盟店エイリアス
func (d *CallbackData) Alias() (string, error) { return d.GetString("alias", true) }

// Importo セント単位の金額
func (d *CallbackData) Importo() (int64, error) {
	i, err := d.GetInt("importo", true)
	if err != nil {
		return 0, err
	}
	return *i, nil
}

// ImportoAsDecimal 小数点付きの金額
func (d *CallbackData) ImportoAsDecimal() (string, error) {
	cents, err := d.Importo()
	if err != nil {
		return "", err
	}
	return FormatAmount(cents), nil
}

// Divisa 通貨コード
func (d *CallbackData) Divisa() (string, error) { return d.GetString("divisa", true) }

// CodTrans 加盟店側の取引コード
func (d *CallbackData) CodTrans() (string, error) { return d.GetString("codTrans", true) }

// Data 取引日（yyyymmdd）
func (d *CallbackData) Data() (string, error) { return d.GetString("data", true) }

// Orario 取引時刻（hhmmss）
func (d *CallbackData) Orario() (string, error) { return d.GetString("orario", true) }

// Pan マスクされたカード番号
func (d *CallbackData) Pan() (string, error) { return d.GetString("pan", false) }

// ScadenzaPan カード有効期限（yyyymm）
func (d *CallbackData) ScadenzaPan() (string, error) { return d.GetString("scadenza_pan", false) }

// Brand カードブランド・決済手段
func (d *CallbackData) Brand() (string, error) { return d.GetString("brand", true) }

// Nazionalita カード発行国（ISO 3166-1 alpha-3）
func (d *CallbackData) Nazionalita() (string, error) { return d.GetString("nazionalita", false) }

// LanguageID 決済ページの言語
func (d *CallbackData) LanguageID() (string, error) { return d.GetString("languageId", false) }

// TipoTransazione 取引種別（3Dセキュアの有無など）
func (d *CallbackData) TipoTransazione() (string, error) {
	return d.GetString("tipoTransazione", false)
}

// Regione カード発行地域
func (d *CallbackData) Regione() (string, error) { return d.GetString("regione", false) }

// Descrizione 取引の説明
func (d *CallbackData) Descrizione() (string, error) { return d.GetString("descrizione", false) }

// TipoProdotto カード種別
func (d *CallbackData) TipoProdotto() (string, error) { return d.GetString("tipoProdotto", false) }

// Nome 支払者の名
func (d *CallbackData) Nome() (string, error) { return d.GetString("nome", false) }

// Cognome 支払者の姓
func (d *CallbackData) Cognome() (string, error) { return d.GetString("cognome", false) }

// Mail 支払者のメールアドレス
func (d *CallbackData) Mail() (string, error) { return d.GetString("mail", false) }

// Hash カード番号のハッシュ
func (d *CallbackData) Hash() (string, error) { return d.GetString("hash", false) }

// Infoc 加盟店への追加情報
func (d *CallbackData) Infoc() (string, error) { return d.GetString("infoc", false) }

// Infob カード発行会社への追加情報
func (d *CallbackData) Infob() (string, error) { return d.GetString("infob", false) }

// CodiceConvenzione 加盟店契約コード
func (d *CallbackData) CodiceConvenzione() (string, error) {
	return d.GetString("codiceConvenzione", false)
}

// IDTransazioneBPay BANCOMAT Payの取引ID
func (d *CallbackData) IDTransazioneBPay() (string, error) {
	return d.GetString("IdTransazioneBPay", false)
}

// EsitoInformazioniSicurezza セキュリティチェックの結果
func (d *CallbackData) EsitoInformazioniSicurezza() (string, error) {
	return d.GetString("esito_informazioniSicurezza", false)
}

// RequiredFields 必須フィールド
func (d *CallbackData) RequiredFields() []string {
	return append(d.Response.RequiredFields(),
		"messaggio", "alias", "importo", "divisa", "codTrans",
		"data", "orario", "brand", "nazionalita", "languageId")
}

// AliasFieldName 通知にはエイリアスを補完しない
func (d *CallbackData) AliasFieldName() string {
	return ""
}

// MacFieldName MACフィールド名
func (d *CallbackData) MacFieldName() string {
	return entity.DefaultMacFieldName
}

// MacFields MAC入力
func (d *CallbackData) MacFields(entity.Credentials) ([]entity.MacField, error) {
	return collectMacFields(
		func() (entity.MacField, error) { return macString(&d.Base, "codTrans") },
		func() (entity.MacField, error) { return macString(&d.Base, "esito") },
		func() (entity.MacField, error) { return macInt(&d.Base, "importo", "importo") },
		func() (entity.MacField, error) { return macString(&d.Base, "divisa") },
		func() (entity.MacField, error) { return macString(&d.Base, "data") },
		func() (entity.MacField, error) { return macString(&d.Base, "orario") },
		func() (entity.MacField, error) { return macString(&d.Base, "codAut") },
	)
}

// CustomerCancel 顧客が決済ページでキャンセルした際の戻りパラメータ
// MACは含まれない
type CustomerCancel struct {
	Response
}

// NewCustomerCancel フィールドストアからCustomerCancelを作成
func NewCustomerCancel(f *entity.Fields) *CustomerCancel {
	return &CustomerCancel{Response: newResponse(f, "importo")}
}

// CustomerCancelFromParams 受信したパラメータからCustomerCancelを作成
func CustomerCancelFromParams(params url.Values) *CustomerCancel {
	return NewCustomerCancel(fieldsFromParams(params))
}

// Alias 加盟店エイリアス
func (c *CustomerCancel) Alias() (string, error) { return c.GetString("alias", false) }

// CodTrans 加盟店側の取引コード
func (c *CustomerCancel) CodTrans() (string, error) { return c.GetString("codTrans", false) }

// Importo セント単位の金額
func (c *CustomerCancel) Importo() (*int64, error) { return c.GetInt("importo", false) }

// ImportoAsDecimal 小数点付きの金額。未設定なら空文字
func (c *CustomerCancel) ImportoAsDecimal() (string, error) {
	cents, err := c.Importo()
	if err != nil || cents == nil {
		return "", err
	}
	return FormatAmount(*cents), nil
}

// Divisa 通貨コード
func (c *CustomerCancel) Divisa() (string, error) { return c.GetString("divisa", false) }

// RequiredFields 必須フィールド
func (c *CustomerCancel) RequiredFields() []string {
	return []string{"codTrans", "importo", "esito"}
}

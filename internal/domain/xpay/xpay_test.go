package xpay

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/url"
	"testing"

	"xpay-gateway/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct{}

func (credentials) Alias() string  { return "A" }
func (credentials) MacKey() string { return "k" }

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func mustDecode(t *testing.T, s string) *entity.Fields {
	t.Helper()
	f, err := entity.DecodeObject([]byte(s))
	require.NoError(t, err)
	return f
}

func validSimplePay() *SimplePayRequest {
	r := NewSimplePayRequest()
	r.SetImporto(5000)
	r.SetDivisa("EUR")
	r.SetCodTrans("T1")
	r.SetURL("https://shop.example.com/ok")
	r.SetURLBack("https://shop.example.com/back")
	return r
}

func TestSimplePayRequest_Sign(t *testing.T) {
	r := validSimplePay()
	require.NoError(t, entity.CheckRequiredFields(r))

	signed, err := entity.Sign(r, credentials{})
	require.NoError(t, err)

	mac, _ := signed.Get("mac")
	assert.Equal(t, sha1Hex("codTrans=T1divisa=EURimporto=5000k"), mac.String())
	alias, _ := signed.Get("alias")
	assert.Equal(t, "A", alias.String())

	data, err := entity.Encode(signed)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"url":"https://shop.example.com/ok"`)
}

func TestSimplePayRequest_RequiredFields(t *testing.T) {
	for _, field := range []string{"importo", "divisa", "codTrans", "url", "url_back"} {
		t.Run(field, func(t *testing.T) {
			r := validSimplePay()
			r.Unset(field)

			err := entity.CheckRequiredFields(r)
			var missing *entity.MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, field, missing.Field)
		})
	}
}

func TestSimplePayRequest_EmptyStringUnsets(t *testing.T) {
	r := validSimplePay()
	r.SetMail("buyer@example.com")
	r.SetMail("")

	assert.False(t, r.Fields().Has("mail"))
}

func TestSimplePayRequest_ImportoAsDecimal(t *testing.T) {
	r := NewSimplePayRequest()

	got, err := r.ImportoAsDecimal()
	require.NoError(t, err)
	assert.Equal(t, "", got)

	r.SetImportoAsDecimal("12.34")
	got, err = r.ImportoAsDecimal()
	require.NoError(t, err)
	assert.Equal(t, "12.34", got)

	r.SetImportoAsDecimal("oops")
	assert.False(t, r.Fields().Has("importo"))
}

func TestPaymentMethodsRequest_MacUsesConfiguredAlias(t *testing.T) {
	r := NewPaymentMethodsRequest("custom", "0", "0", 1700000000000)
	r.SetString("apiKey", "SOMETHING-ELSE")

	signed, err := entity.Sign(r, credentials{})
	require.NoError(t, err)

	mac, _ := signed.Get("mac")
	assert.Equal(t, sha1Hex("apiKey=AtimeStamp=1700000000000k"), mac.String())
}

func TestPaymentMethodsResponse(t *testing.T) {
	body := `{"esito":"OK","idOperazione":"op1","timeStamp":"1700000000000",
		"urlLogoNexiSmall":"https://logo/s.png","urlLogoNexiLarge":"https://logo/l.png",
		"availableMethods":[
			{"code":"VISA","description":"Visa","selectedcard":"VISA","image":"https://i/v.png","type":"CC","recurring":"Y"},
			{"code":"PAYPAL","description":"PayPal","selectedcard":"PAYPAL","image":"https://i/p.png","type":"APM","recurring":"N"}
		]}`
	r, err := NewPaymentMethodsResponse(mustDecode(t, body))
	require.NoError(t, err)
	require.NoError(t, entity.CheckRequiredFields(r))

	ts, err := r.TimeStamp()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), *ts)

	op, err := r.IDOperazione()
	require.NoError(t, err)
	assert.Equal(t, "op1", op)
	small, err := r.URLLogoNexiSmall()
	require.NoError(t, err)
	assert.Equal(t, "https://logo/s.png", small)
	large, err := r.URLLogoNexiLarge()
	require.NoError(t, err)
	assert.Equal(t, "https://logo/l.png", large)

	methods, err := r.AvailableMethods()
	require.NoError(t, err)
	require.Len(t, methods, 2)
	typ, _ := methods[1].Type()
	assert.Equal(t, MethodTypeAlternative, typ)

	methods[1].Unset("image")
	err = entity.CheckRequiredFields(r)
	var missing *entity.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "availableMethods[1].image", missing.Field)
}

func TestPaymentMethodsResponse_MacRoundTrip(t *testing.T) {
	f := entity.NewFields()
	f.Set("esito", entity.StringValue("OK"))
	f.Set("idOperazione", entity.StringValue("op1"))
	f.Set("timeStamp", entity.IntValue(1))
	f.Set("mac", entity.StringValue(sha1Hex("esito=OKidOperazione=op1timeStamp=1k")))

	r, err := NewPaymentMethodsResponse(f)
	require.NoError(t, err)
	assert.NoError(t, entity.CheckMac(r, credentials{}))

	r.SetString("idOperazione", "op2")
	assert.ErrorIs(t, entity.CheckMac(r, credentials{}), entity.ErrMacMismatch)
}

func TestPaymentMethodsResponse_WrongMethodsType(t *testing.T) {
	_, err := NewPaymentMethodsResponse(mustDecode(t, `{"esito":"OK","availableMethods":["x"]}`))
	assert.ErrorIs(t, err, entity.ErrWrongFieldType)
}

func TestErrorResponse(t *testing.T) {
	r, err := NewErrorResponse(mustDecode(t, `{"esito":"KO","idOperazione":"op","timeStamp":5,"errore":{"codice":1,"messaggio":"x"}}`))
	require.NoError(t, err)
	require.NoError(t, entity.CheckRequiredFields(r))

	assert.Equal(t, int64(1), r.Code())
	assert.Equal(t, "x", r.Message())
	op, err := r.IDOperazione()
	require.NoError(t, err)
	assert.Equal(t, "op", op)

	fields, err := r.MacFields(credentials{})
	require.NoError(t, err)
	assert.Equal(t, sha1Hex("esito=KOidOperazione=optimestamp=5k"), entity.CalculateMac(fields, "k"))

	details, _ := r.Errore()
	details.Unset("messaggio")
	err = entity.CheckRequiredFields(r)
	var missing *entity.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "errore.messaggio", missing.Field)
}

func TestResponse_NumericNormalization(t *testing.T) {
	fromString := NewCallbackData(mustDecode(t, `{"importo":"5000","codiceEsito":"0"}`))
	fromInt := NewCallbackData(mustDecode(t, `{"importo":5000,"codiceEsito":0}`))

	a, err := fromString.Importo()
	require.NoError(t, err)
	b, err := fromInt.Importo()
	require.NoError(t, err)
	assert.Equal(t, int64(5000), a)
	assert.Equal(t, a, b)

	code, err := fromString.CodiceEsito()
	require.NoError(t, err)
	assert.Equal(t, int64(0), *code)
}

func TestResponse_NonNumericStringKept(t *testing.T) {
	r := NewCustomerCancel(mustDecode(t, `{"importo":"abc"}`))

	_, err := r.Importo()
	assert.ErrorIs(t, err, entity.ErrWrongFieldType)
}

func TestResponse_OutOfRangeNumericStringKept(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "異常系: int64を超える整数", value: "99999999999999999999"},
		{name: "異常系: 指数表記の巨大な値", value: "1e30"},
		{name: "異常系: 負の巨大な値", value: "-1e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCustomerCancel(mustDecode(t, `{"importo":"`+tt.value+`"}`))

			v, ok := r.Fields().Get("importo")
			require.True(t, ok)
			assert.Equal(t, entity.KindString, v.Kind())
			assert.Equal(t, tt.value, v.String())

			_, err := r.Importo()
			assert.ErrorIs(t, err, entity.ErrWrongFieldType)
		})
	}

	r := NewCustomerCancel(mustDecode(t, `{"importo":"1e3"}`))
	amount, err := r.Importo()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), *amount)
}

func callbackParams() url.Values {
	params := url.Values{
		"esito":       {"OK"},
		"messaggio":   {"Message OK"},
		"alias":       {"A"},
		"importo":     {"5000"},
		"divisa":      {"EUR"},
		"codTrans":    {"T1"},
		"data":        {"20240101"},
		"orario":      {"120000"},
		"codAut":      {"AUTH1"},
		"brand":       {"VISA"},
		"nazionalita": {"ITA"},
		"languageId":  {"ITA"},
	}
	params.Set("mac", sha1Hex("codTrans=T1esito=OKimporto=5000divisa=EURdata=20240101orario=120000codAut=AUTH1k"))
	return params
}

func TestCallbackData_FromParams(t *testing.T) {
	d := CallbackDataFromParams(callbackParams())

	require.NoError(t, entity.CheckRequiredFields(d))
	require.NoError(t, entity.CheckMac(d, credentials{}))

	esito, err := d.Esito()
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, esito)
	amount, err := d.ImportoAsDecimal()
	require.NoError(t, err)
	assert.Equal(t, "50.00", amount)
}

func TestCallbackData_TamperedAmount(t *testing.T) {
	params := callbackParams()
	params.Set("importo", "1")

	d := CallbackDataFromParams(params)

	assert.ErrorIs(t, entity.CheckMac(d, credentials{}), entity.ErrMacMismatch)
}

func TestCallbackData_LastValueWins(t *testing.T) {
	params := callbackParams()
	params["codTrans"] = []string{"IGNORED", "T1"}

	d := CallbackDataFromParams(params)

	codTrans, err := d.CodTrans()
	require.NoError(t, err)
	assert.Equal(t, "T1", codTrans)
}

func TestCustomerCancel(t *testing.T) {
	c := CustomerCancelFromParams(url.Values{
		"codTrans": {"T1"},
		"importo":  {"5"},
		"esito":    {"ANNULLO"},
		"divisa":   {"EUR"},
	})
	require.NoError(t, entity.CheckRequiredFields(c))

	amount, err := c.ImportoAsDecimal()
	require.NoError(t, err)
	assert.Equal(t, "0.05", amount)

	esito, _ := c.Esito()
	assert.Equal(t, OutcomeCancel, esito)

	c.Unset("esito")
	assert.ErrorIs(t, entity.CheckRequiredFields(c), entity.ErrMissingField)
}

func TestOutcome_IsValid(t *testing.T) {
	for _, o := range []Outcome{OutcomeOK, OutcomeKO, OutcomeCancel, OutcomeError, OutcomePending} {
		assert.True(t, o.IsValid(), o)
	}
	assert.False(t, Outcome("MAYBE").IsValid())
}

package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMoMo(endpoint string) *MoMoClient {
	c := NewMoMoClient(MoMoConfig{
		PartnerCode: "MOMO",
		AccessKey:   "access",
		SecretKey:   "secret",
		Endpoint:    endpoint,
		ReturnURL:   "https://shop.example/return",
		IPNURL:      "https://shop.example/ipn",
	})
	c.newRequestID = func() string { return "req-1" }
	return c
}

func signedMoMoCallback(t *testing.T, resultCode string) []byte {
	t.Helper()
	cb := MoMoCallback{
		PartnerCode: "MOMO",
		AccessKey:   "access",
		RequestID:   "req-1",
		Amount:      "125000",
		OrderID:     "42",
		OrderInfo:   "Order 42",
		OrderType:   "momo_wallet",
		TransID:     "998877",
		ResultCode:  FlexString(resultCode),
		Message:     "ok",
		PayType:     "qr",
	}
	cb.Signature = sign("secret", cb.CanonicalString())
	body, err := json.Marshal(cb)
	require.NoError(t, err)
	return body
}

func TestMoMoVerifyCallback(t *testing.T) {
	client := testMoMo("")

	result, err := client.VerifyCallback(signedMoMoCallback(t, "0"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "42", result.OrderID)
	assert.Equal(t, "998877", result.TransactionID)

	result, err = client.VerifyCallback(signedMoMoCallback(t, "1006"))
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestMoMoVerifyCallbackRejectsTampering(t *testing.T) {
	client := testMoMo("")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(signedMoMoCallback(t, "1006"), &payload))
	payload["resultCode"] = "0"
	tampered, err := json.Marshal(payload)
	require.NoError(t, err)

	_, err = client.VerifyCallback(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	delete(payload, "signature")
	unsigned, err := json.Marshal(payload)
	require.NoError(t, err)
	_, err = client.VerifyCallback(unsigned)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMoMoCallbackAcceptsNumericFields(t *testing.T) {
	client := testMoMo("")
	cb := MoMoCallback{PartnerCode: "MOMO", AccessKey: "access", RequestID: "r", Amount: "5000",
		OrderID: "7", TransID: "123", ResultCode: "0"}
	sig := sign("secret", cb.CanonicalString())

	body := `{"partnerCode":"MOMO","accessKey":"access","requestId":"r","amount":5000,"orderId":"7",` +
		`"transId":123,"resultCode":0,"signature":"` + sig + `"}`
	result, err := client.VerifyCallback([]byte(body))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "123", result.TransactionID)
}

func TestMoMoCreatePaymentSignsRequest(t *testing.T) {
	var got momoCreateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultCode":0,"payUrl":"https://pay.example/42"}`))
	}))
	defer server.Close()

	client := testMoMo(server.URL)
	result, err := client.CreatePayment(context.Background(), CreateRequest{OrderID: 42, Amount: 125000, Info: "Order 42"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/42", result.RedirectURL)

	assert.Equal(t, "captureWallet", got.RequestType)
	assert.Equal(t, "125000", got.Amount)
	expected := sign("secret", "partnerCode=MOMO&accessKey=access&requestId=req-1&amount=125000&orderId=42"+
		"&orderInfo=Order 42&returnUrl=https://shop.example/return&ipnUrl=https://shop.example/ipn&extraData=")
	assert.Equal(t, expected, got.Signature)
}

func TestMoMoCreatePaymentSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testMoMo(server.URL).CreatePayment(context.Background(), CreateRequest{OrderID: 1, Amount: 1})
	assert.Error(t, err)
}

func TestVietcombankRoundTrip(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	var got vcbCreateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"redirectUrl":"https://vcb.example/pay"}`))
	}))
	defer server.Close()

	client := NewVietcombankClient(VietcombankConfig{MerchantID: "M1", APIKey: "key", Endpoint: server.URL})
	client.now = func() time.Time { return now }

	result, err := client.CreatePayment(context.Background(), CreateRequest{OrderID: 9, Amount: 50000})
	require.NoError(t, err)
	assert.Equal(t, "https://vcb.example/pay", result.RedirectURL)
	assert.Equal(t, sign("key", "9"+"50000"+strconv.FormatInt(now.UnixMilli(), 10)), got.Signature)

	callback := `{"orderId":"9","amount":"50000","timestamp":1700000000000,"status":"success",` +
		`"transactionId":"VCB-1","signature":"` + got.Signature + `"}`
	verified, err := client.VerifyCallback([]byte(callback))
	require.NoError(t, err)
	assert.True(t, verified.Success)
	assert.Equal(t, "VCB-1", verified.TransactionID)

	forged := `{"orderId":"9","amount":"1","timestamp":1700000000000,"status":"success","signature":"` + got.Signature + `"}`
	_, err = client.VerifyCallback([]byte(forged))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("MoMo")
	require.NoError(t, err)
	assert.Equal(t, ProviderMoMo, p)

	_, err = ParseProvider("paypal")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

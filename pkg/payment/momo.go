package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	ReturnURL   string
	IPNURL      string
}

type MoMoClient struct {
	Config       MoMoConfig
	HTTPClient   *http.Client
	newRequestID func() string
}

func NewMoMoClient(cfg MoMoConfig) *MoMoClient {
	return &MoMoClient{
		Config:       cfg,
		HTTPClient:   newHTTPClient(),
		newRequestID: uuid.NewString,
	}
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	ReturnURL   string `json:"returnUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
}

// MoMoCallback is the IPN body MoMo posts after a payment attempt.
type MoMoCallback struct {
	PartnerCode string     `json:"partnerCode"`
	AccessKey   string     `json:"accessKey"`
	RequestID   string     `json:"requestId"`
	Amount      FlexString `json:"amount"`
	OrderID     FlexString `json:"orderId"`
	OrderInfo   string     `json:"orderInfo"`
	OrderType   string     `json:"orderType"`
	TransID     FlexString `json:"transId"`
	ResultCode  FlexString `json:"resultCode"`
	Message     string     `json:"message"`
	PayType     string     `json:"payType"`
	Signature   string     `json:"signature"`
}

// CanonicalString is the exact text MoMo signs for a callback.
func (m MoMoCallback) CanonicalString() string {
	return fmt.Sprintf("partnerCode=%s&accessKey=%s&requestId=%s&amount=%s&orderId=%s&orderInfo=%s&orderType=%s&transId=%s&resultCode=%s&message=%s&payType=%s",
		m.PartnerCode, m.AccessKey, m.RequestID, m.Amount, m.OrderID, m.OrderInfo,
		m.OrderType, m.TransID, m.ResultCode, m.Message, m.PayType)
}

func (c *MoMoClient) createSignaturePayload(requestID, amount, orderID, orderInfo, extraData string) string {
	return fmt.Sprintf("partnerCode=%s&accessKey=%s&requestId=%s&amount=%s&orderId=%s&orderInfo=%s&returnUrl=%s&ipnUrl=%s&extraData=%s",
		c.Config.PartnerCode, c.Config.AccessKey, requestID, amount, orderID, orderInfo,
		c.Config.ReturnURL, c.Config.IPNURL, extraData)
}

func (c *MoMoClient) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	requestID := c.newRequestID()
	amount := strconv.FormatInt(req.Amount, 10)
	orderID := strconv.FormatUint(uint64(req.OrderID), 10)

	body := momoCreateRequest{
		PartnerCode: c.Config.PartnerCode,
		AccessKey:   c.Config.AccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     orderID,
		OrderInfo:   req.Info,
		ReturnURL:   c.Config.ReturnURL,
		IPNURL:      c.Config.IPNURL,
		ExtraData:   "",
		RequestType: "captureWallet",
		Signature:   sign(c.Config.SecretKey, c.createSignaturePayload(requestID, amount, orderID, req.Info, "")),
	}

	raw, err := postJSON(ctx, c.HTTPClient, c.Config.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("momo create payment: %w", err)
	}

	redirect := stringField(raw, "payUrl")
	if redirect == "" {
		return nil, fmt.Errorf("momo create payment: no payUrl in response (resultCode %v)", raw["resultCode"])
	}
	return &CreateResult{RedirectURL: redirect, Raw: raw}, nil
}

func (c *MoMoClient) VerifyCallback(body []byte) (*Result, error) {
	var cb MoMoCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("decode momo callback: %w", err)
	}
	if cb.Signature == "" || !signatureMatches(c.Config.SecretKey, cb.CanonicalString(), cb.Signature) {
		return nil, ErrInvalidSignature
	}
	return &Result{
		Provider:      ProviderMoMo,
		OrderID:       string(cb.OrderID),
		TransactionID: string(cb.TransID),
		Success:       cb.ResultCode == "0",
		Message:       cb.Message,
	}, nil
}

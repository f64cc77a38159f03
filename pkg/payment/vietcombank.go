package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type VietcombankConfig struct {
	MerchantID string
	APIKey     string
	Endpoint   string
	ReturnURL  string
	CancelURL  string
}

type VietcombankClient struct {
	Config     VietcombankConfig
	HTTPClient *http.Client
	now        func() time.Time
}

func NewVietcombankClient(cfg VietcombankConfig) *VietcombankClient {
	return &VietcombankClient{
		Config:     cfg,
		HTTPClient: newHTTPClient(),
		now:        time.Now,
	}
}

type vcbCreateRequest struct {
	MerchantID string `json:"merchantId"`
	OrderID    string `json:"orderId"`
	Amount     string `json:"amount"`
	OrderInfo  string `json:"orderInfo"`
	Timestamp  int64  `json:"timestamp"`
	Signature  string `json:"signature"`
	ReturnURL  string `json:"returnUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type VietcombankCallback struct {
	OrderID       FlexString `json:"orderId"`
	Amount        FlexString `json:"amount"`
	Timestamp     FlexString `json:"timestamp"`
	Status        string     `json:"status"`
	TransactionID FlexString `json:"transactionId"`
	Message       string     `json:"message"`
	Signature     string     `json:"signature"`
}

func canonicalVCB(orderID, amount, timestamp string) string {
	return orderID + amount + timestamp
}

func (c *VietcombankClient) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	timestamp := c.now().UnixMilli()
	orderID := strconv.FormatUint(uint64(req.OrderID), 10)
	amount := strconv.FormatInt(req.Amount, 10)

	body := vcbCreateRequest{
		MerchantID: c.Config.MerchantID,
		OrderID:    orderID,
		Amount:     amount,
		OrderInfo:  req.Info,
		Timestamp:  timestamp,
		Signature:  sign(c.Config.APIKey, canonicalVCB(orderID, amount, strconv.FormatInt(timestamp, 10))),
		ReturnURL:  c.Config.ReturnURL,
		CancelURL:  c.Config.CancelURL,
	}

	raw, err := postJSON(ctx, c.HTTPClient, strings.TrimRight(c.Config.Endpoint, "/")+"/create", body)
	if err != nil {
		return nil, fmt.Errorf("vietcombank create payment: %w", err)
	}

	redirect := stringField(raw, "redirectUrl")
	if redirect == "" {
		redirect = stringField(raw, "paymentUrl")
	}
	if redirect == "" {
		return nil, fmt.Errorf("vietcombank create payment: no redirectUrl in response")
	}
	return &CreateResult{RedirectURL: redirect, Raw: raw}, nil
}

func (c *VietcombankClient) VerifyCallback(body []byte) (*Result, error) {
	var cb VietcombankCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("decode vietcombank callback: %w", err)
	}
	payload := canonicalVCB(string(cb.OrderID), string(cb.Amount), string(cb.Timestamp))
	if cb.Signature == "" || !signatureMatches(c.Config.APIKey, payload, cb.Signature) {
		return nil, ErrInvalidSignature
	}
	return &Result{
		Provider:      ProviderVietcombank,
		OrderID:       string(cb.OrderID),
		TransactionID: string(cb.TransactionID),
		Success:       cb.Status == "success",
		Message:       cb.Message,
	}, nil
}

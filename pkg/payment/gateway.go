package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Provider string

const (
	ProviderMoMo        Provider = "momo"
	ProviderVietcombank Provider = "vietcombank"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported payment provider")
	ErrInvalidSignature    = errors.New("invalid callback signature")
)

// CreateRequest describes the payment a customer is sent to complete.
type CreateRequest struct {
	OrderID uint
	Amount  int64
	Info    string
}

// CreateResult is what the provider answered for a create call.
type CreateResult struct {
	RedirectURL string
	Raw         map[string]interface{}
}

// Result is the verified outcome reported by a provider callback.
type Result struct {
	Provider      Provider
	OrderID       string
	TransactionID string
	Success       bool
	Message       string
}

// Gateway dispatches to the configured provider clients. Calls are not
// retried.
type Gateway struct {
	momo *MoMoClient
	vcb  *VietcombankClient
}

func NewGateway(momo *MoMoClient, vcb *VietcombankClient) *Gateway {
	return &Gateway{momo: momo, vcb: vcb}
}

func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderMoMo:
		return ProviderMoMo, nil
	case ProviderVietcombank:
		return ProviderVietcombank, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
}

func (g *Gateway) CreatePayment(ctx context.Context, provider Provider, req CreateRequest) (*CreateResult, error) {
	switch provider {
	case ProviderMoMo:
		return g.momo.CreatePayment(ctx, req)
	case ProviderVietcombank:
		return g.vcb.CreatePayment(ctx, req)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
}

// VerifyCallback checks the signature of a raw callback body and decodes the
// outcome. It returns ErrInvalidSignature when the body was not signed by
// the provider.
func (g *Gateway) VerifyCallback(provider Provider, body []byte) (*Result, error) {
	switch provider {
	case ProviderMoMo:
		return g.momo.VerifyCallback(body)
	case ProviderVietcombank:
		return g.vcb.VerifyCallback(body)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureMatches(secret, payload, signature string) bool {
	expected := sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func postJSON(ctx context.Context, client *http.Client, url string, body interface{}) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider responded HTTP %d", resp.StatusCode)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

// FlexString accepts a JSON string or number. Providers are inconsistent
// about which one they send for ids, amounts and result codes.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

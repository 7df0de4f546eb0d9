package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

const defaultPaystackBaseURL = "https://api.paystack.co"

// ErrGatewayNotConfigured is returned when the Paystack secret key is missing.
var ErrGatewayNotConfigured = errors.New("paystack secret key is not configured")

// PaymentMetadata is the purchase description attached to a charge and echoed
// back by the gateway on verification.
type PaymentMetadata struct {
	UserID          string `json:"user_id,omitempty"`
	GuestEmail      string `json:"guest_email,omitempty"`
	GuestName       string `json:"guest_name,omitempty"`
	ProviderName    string `json:"provider_name"`
	ProviderLogo    string `json:"provider_logo"`
	ProviderColor   string `json:"provider_color"`
	BundleID        string `json:"bundle_id"`
	DataAmount      string `json:"data_amount"`
	Price           string `json:"price"`
	RecipientNumber string `json:"recipient_number"`
	PaymentNetwork  string `json:"payment_network,omitempty"`
}

// VerifyResult is the outcome of a verify-by-reference call.
type VerifyResult struct {
	Status        string
	Reference     string
	AmountSubunit int64
	Currency      string
	PaidAt        string
	Metadata      PaymentMetadata
}

// Success reports whether the gateway settled the charge.
func (r *VerifyResult) Success() bool {
	return r.Status == "success"
}

// PaymentVerifier confirms a payment attempt with the gateway.
type PaymentVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error)
}

// PaystackService calls the Paystack REST API.
type PaystackService struct {
	secretKey string
	baseURL   string
}

// NewPaystackService constructs a PaystackService. An empty baseURL falls back
// to the public Paystack endpoint.
func NewPaystackService(secretKey, baseURL string) *PaystackService {
	if baseURL == "" {
		baseURL = defaultPaystackBaseURL
	}
	return &PaystackService{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string          `json:"status"`
		Reference string          `json:"reference"`
		Amount    int64           `json:"amount"`
		Currency  string          `json:"currency"`
		PaidAt    string          `json:"paid_at"`
		Metadata  PaymentMetadata `json:"metadata"`
	} `json:"data"`
}

// VerifyTransaction confirms a charge by reference via GET /transaction/verify/:reference.
func (s *PaystackService) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	if s.secretKey == "" {
		return nil, ErrGatewayNotConfigured
	}

	url := fmt.Sprintf("%s/transaction/verify/%s", s.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create Paystack verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute Paystack verify request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read Paystack verify response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Paystack verify failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var parsed paystackVerifyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal Paystack verify response: %w", err)
	}

	if !parsed.Status {
		return nil, fmt.Errorf("Paystack verify rejected: %s", parsed.Message)
	}

	return &VerifyResult{
		Status:        parsed.Data.Status,
		Reference:     parsed.Data.Reference,
		AmountSubunit: parsed.Data.Amount,
		Currency:      parsed.Data.Currency,
		PaidAt:        parsed.Data.PaidAt,
		Metadata:      parsed.Data.Metadata,
	}, nil
}

package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TossClient implements Gateway over the Toss Payments REST API.
type TossClient struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	newKey     func() string
}

func NewTossClient(baseURL, secretKey string, timeout time.Duration) *TossClient {
	return &TossClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(secretKey+":")),
		httpClient: &http.Client{Timeout: timeout},
		newKey:     uuid.NewString,
	}
}

type tossPayment struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"totalAmount"`
	ApprovedAt  string `json:"approvedAt"`
}

type tossFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (t *TossClient) Confirm(ctx context.Context, req ConfirmRequest) (*Confirmation, error) {
	var out tossPayment
	if err := t.post(ctx, "/v1/payments/confirm", req, &out); err != nil {
		return nil, err
	}

	confirmation := &Confirmation{
		PaymentKey: out.PaymentKey,
		OrderID:    out.OrderID,
		Method:     out.Method,
		Status:     out.Status,
		Amount:     out.TotalAmount,
		ApprovedAt: time.Now(),
	}
	if out.ApprovedAt != "" {
		if approved, err := time.Parse(time.RFC3339, out.ApprovedAt); err == nil {
			confirmation.ApprovedAt = approved
		} else {
			log.Printf("[PAYMENT] [WARN] unparseable approvedAt %q: %v", out.ApprovedAt, err)
		}
	}
	return confirmation, nil
}

func (t *TossClient) Cancel(ctx context.Context, paymentKey, reason string) error {
	path := "/v1/payments/" + url.PathEscape(paymentKey) + "/cancel"
	return t.post(ctx, path, map[string]string{"cancelReason": reason}, nil)
}

func (t *TossClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", t.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", t.newKey())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("payment gateway %s: read body: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure tossFailure
		_ = json.Unmarshal(raw, &failure)
		log.Printf("[PAYMENT] [ERROR] %s returned %d: %s", path, resp.StatusCode, failure.Code)
		return &GatewayError{StatusCode: resp.StatusCode, Code: failure.Code, Message: failure.Message}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payment gateway %s: decode: %w", path, err)
	}
	return nil
}

// Message returns the gateway's own explanation of err, or "".
func Message(err error) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return ""
}

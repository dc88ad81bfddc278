// Package notify sends customer notices about order progress.
package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Notifier interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// Nop is used when no SMS provider is configured.
type Nop struct{}

func (Nop) SendSMS(_ context.Context, phone, _ string) error {
	log.Printf("[NOTIFY] [INFO] sms disabled, skipped notice to %s", phone)
	return nil
}

// SMSNotifier posts messages to an Africa's Talking compatible
// messaging endpoint.
type SMSNotifier struct {
	apiURL     string
	username   string
	apiKey     string
	httpClient *http.Client
}

func NewSMSNotifier(apiURL, username, apiKey string) *SMSNotifier {
	return &SMSNotifier{
		apiURL:     apiURL,
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SMSNotifier) SendSMS(ctx context.Context, phone, message string) error {
	data := url.Values{}
	data.Set("username", s.username)
	data.Set("to", phone)
	data.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("apiKey", s.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send sms: provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	log.Printf("[NOTIFY] [INFO] sms sent to %s", phone)
	return nil
}

func PaymentConfirmed(recipient string, orderID uint, amount int64) string {
	return fmt.Sprintf("Hi %s, payment of %d KRW for order #%d is confirmed.", recipient, amount, orderID)
}

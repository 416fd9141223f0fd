package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when no gateway URL is set.
var ErrNotConfigured = errors.New("sms gateway not configured")

// Sender delivers one text message. Delivery is not confirmed.
type Sender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// TransportError is a non-2xx answer from the gateway.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sms gateway returned %d: %s", e.StatusCode, e.Body)
}

type sendRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// HTTPSender posts messages to a JSON SMS gateway authenticated by an api_token query parameter.
type HTTPSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHTTPSender paces sends to perSecond messages per second (burst 1).
func NewHTTPSender(endpoint, apiKey string, perSecond float64) *HTTPSender {
	if perSecond <= 0 {
		perSecond = 5
	}
	return &HTTPSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (s *HTTPSender) Send(ctx context.Context, phoneNumber, message string) error {
	if s.endpoint == "" {
		return ErrNotConfigured
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("sms: rate limiter: %w", err)
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return fmt.Errorf("sms: invalid gateway url: %w", err)
	}
	q := u.Query()
	q.Set("api_token", s.apiKey)
	u.RawQuery = q.Encode()

	payload, err := json.Marshal(sendRequest{PhoneNumber: phoneNumber, Message: message})
	if err != nil {
		return fmt.Errorf("sms: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send to %s: %w", phoneNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

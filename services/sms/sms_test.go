package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSenderPostsJSONWithToken(t *testing.T) {
	var got sendRequest
	var token, contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.URL.Query().Get("api_token")
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL+"/api/v1/sms_messages", "secret", 100)
	if err := s.Send(context.Background(), "+639171234567", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token != "secret" {
		t.Errorf("expected api_token=secret, got %q", token)
	}
	if contentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", contentType)
	}
	if got.PhoneNumber != "+639171234567" || got.Message != "hello" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestHTTPSenderReportsGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`invalid number`))
	}))
	defer srv.Close()

	err := NewHTTPSender(srv.URL, "k", 100).Send(context.Background(), "nope", "hello")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusUnprocessableEntity || te.Body != "invalid number" {
		t.Errorf("unexpected error contents %+v", te)
	}
}

func TestHTTPSenderNotConfigured(t *testing.T) {
	err := NewHTTPSender("", "", 1).Send(context.Background(), "1", "x")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

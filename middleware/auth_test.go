package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reminderx/database/repository"
	"reminderx/models"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f[idToken]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &auth.Token{UID: uid}, nil
}

type fakeLookup map[string]string

func (f fakeLookup) GetByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	id, ok := f[uid]
	if !ok {
		return nil, repository.NotFound("user", uid)
	}
	return &models.User{ID: id, FirebaseUID: uid}, nil
}

func serve(allowUnregistered bool, header string) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seen string
	r.Use(FirebaseAuthMiddleware(fakeVerifier{"good": "uid-1", "new": "uid-2"}, fakeLookup{"uid-1": "user-1"}, nil, allowUnregistered))
	r.GET("/", func(c *gin.Context) {
		seen = c.GetString(ContextUserID)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, seen
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	tests := []struct {
		name              string
		header            string
		allowUnregistered bool
		wantStatus        int
		wantUser          string
	}{
		{"missing header", "", false, http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", false, http.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", false, http.StatusUnauthorized, ""},
		{"registered user", "Bearer good", false, http.StatusOK, "user-1"},
		{"unregistered rejected", "Bearer new", false, http.StatusNotFound, ""},
		{"unregistered allowed", "Bearer new", true, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, user := serve(tt.allowUnregistered, tt.header)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if user != tt.wantUser {
				t.Fatalf("expected user %q, got %q", tt.wantUser, user)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRateLimitBucketsDevicesByModel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(1))
	r.GET("/esp32/:model", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(model string) int {
		req := httptest.NewRequest(http.MethodGet, "/esp32/"+model, nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := get("PX-1"); code != http.StatusOK {
		t.Fatalf("first PX-1 request: %d", code)
	}
	if code := get("PX-2"); code != http.StatusOK {
		t.Fatalf("PX-2 behind the same address should have its own bucket, got %d", code)
	}
	if code := get("PX-1"); code != http.StatusTooManyRequests {
		t.Fatalf("second PX-1 request: %d", code)
	}
}

package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"reminderx/database/repository"
	"reminderx/models"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var validToken = strings.Repeat("a", 40) + ":APA91b"

type fakeTransport struct {
	mu      sync.Mutex
	batches [][]*messaging.Message
	failAll error
	failIdx map[int]error
}

func (f *fakeTransport) SendEach(_ context.Context, msgs []*messaging.Message) (*messaging.BatchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, msgs)
	if f.failAll != nil {
		return nil, f.failAll
	}
	resp := &messaging.BatchResponse{}
	for i := range msgs {
		if err, ok := f.failIdx[i]; ok {
			resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: false, Error: err})
			resp.FailureCount++
			continue
		}
		resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: true, MessageID: "m"})
		resp.SuccessCount++
	}
	return resp, nil
}

func (f *fakeTransport) sent() []*messaging.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*messaging.Message
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

type fakeUsers struct {
	tokens  map[string]string
	lookups int
	cleared []string
}

func (f *fakeUsers) GetByIDWithProjection(_ context.Context, id string, _ bson.M) (*models.User, error) {
	f.lookups++
	token, ok := f.tokens[id]
	if !ok {
		return nil, repository.NotFound("user", id)
	}
	return &models.User{ID: id, PushToken: token}, nil
}

func (f *fakeUsers) ClearPushToken(_ context.Context, id, token string) error {
	f.cleared = append(f.cleared, id+"="+token)
	return nil
}

func newTestDispatcher(transport PushTransport, users TokenSource) *Dispatcher {
	return NewDispatcher(transport, users, time.Minute, zap.NewNop())
}

func TestDispatchSkipsMissingAndInvalidTokens(t *testing.T) {
	transport := &fakeTransport{}
	users := &fakeUsers{tokens: map[string]string{
		"ok":      validToken,
		"empty":   "",
		"garbage": "not a token",
	}}
	d := newTestDispatcher(transport, users)

	d.Dispatch(context.Background(), []models.PushMessage{
		{UserID: "ok", Kind: models.PushKindDose, Body: "take it", Screen: models.ScreenEventSchedule},
		{UserID: "empty", Kind: models.PushKindDose, Body: "take it"},
		{UserID: "garbage", Kind: models.PushKindDose, Body: "take it"},
		{UserID: "ghost", Kind: models.PushKindDose, Body: "take it"},
	})

	sent := transport.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	if sent[0].Token != validToken {
		t.Errorf("unexpected token %q", sent[0].Token)
	}
	if sent[0].Data["screen"] != models.ScreenEventSchedule {
		t.Errorf("expected routing tag, got %v", sent[0].Data)
	}
}

func TestDispatchBatchesAtProviderLimit(t *testing.T) {
	transport := &fakeTransport{}
	users := &fakeUsers{tokens: map[string]string{"u": validToken}}
	d := newTestDispatcher(transport, users)

	pushes := make([]models.PushMessage, MaxBatchSize*2+1)
	for i := range pushes {
		pushes[i] = models.PushMessage{UserID: "u", Kind: models.PushKindInventory, Body: "low"}
	}
	d.Dispatch(context.Background(), pushes)

	if len(transport.batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(transport.batches))
	}
	if len(transport.batches[0]) != MaxBatchSize || len(transport.batches[2]) != 1 {
		t.Errorf("unexpected batch sizes %d/%d/%d",
			len(transport.batches[0]), len(transport.batches[1]), len(transport.batches[2]))
	}
	if users.lookups != 1 {
		t.Errorf("expected token to be cached after one lookup, got %d lookups", users.lookups)
	}
}

func TestDispatchSurvivesTransportFailure(t *testing.T) {
	transport := &fakeTransport{failAll: errors.New("fcm unavailable")}
	users := &fakeUsers{tokens: map[string]string{"u": validToken}}
	d := newTestDispatcher(transport, users)

	// Must not panic or block.
	d.Dispatch(context.Background(), []models.PushMessage{{UserID: "u", Kind: models.PushKindDose}})

	if len(transport.batches) != 1 {
		t.Fatalf("expected one attempted batch, got %d", len(transport.batches))
	}
}

func TestDispatchContinuesAfterSingleMessageFailure(t *testing.T) {
	transport := &fakeTransport{failIdx: map[int]error{0: errors.New("quota")}}
	users := &fakeUsers{tokens: map[string]string{"a": validToken, "b": validToken + "b"}}
	d := newTestDispatcher(transport, users)

	d.Dispatch(context.Background(), []models.PushMessage{
		{UserID: "a", Kind: models.PushKindDose},
		{UserID: "b", Kind: models.PushKindDose},
	})

	if got := len(transport.sent()); got != 2 {
		t.Fatalf("expected both messages attempted, got %d", got)
	}
	if len(users.cleared) != 0 {
		t.Errorf("quota errors must not retire tokens, cleared %v", users.cleared)
	}
}

func TestInvalidateForcesLookup(t *testing.T) {
	transport := &fakeTransport{}
	users := &fakeUsers{tokens: map[string]string{"u": ""}}
	d := newTestDispatcher(transport, users)

	d.Dispatch(context.Background(), []models.PushMessage{{UserID: "u"}})
	if len(transport.sent()) != 0 {
		t.Fatalf("expected no send without a token")
	}

	users.tokens["u"] = validToken
	d.Invalidate("u")
	d.Dispatch(context.Background(), []models.PushMessage{{UserID: "u"}})
	if len(transport.sent()) != 1 {
		t.Fatalf("expected send after the token was registered")
	}
}

func TestDoseRetryWordingNamesAttempt(t *testing.T) {
	for attempt := 2; attempt <= 3; attempt++ {
		_, body := DoseRetry("Aspirin", attempt, 3)
		if !strings.Contains(body, "[Attempt ") || !strings.Contains(body, string(rune('0'+attempt))) {
			t.Errorf("attempt %d wording does not name the attempt: %q", attempt, body)
		}
	}
	if _, body := DoseRetry("Aspirin", 3, 3); !strings.Contains(body, "Last Attempt") {
		t.Errorf("final attempt should warn about escalation: %q", body)
	}
}

func TestValidToken(t *testing.T) {
	fcmLike := "dXk3bG9hZHM6" + strings.Repeat("Qx7_-", 26) + ":APA91bHun4MxP5egoKMwt2KZFBaFUH"
	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"registration token", fcmLike, true},
		{"upper bound", strings.Repeat("a", 4096), true},
		{"too long", strings.Repeat("a", 4097), false},
		{"too short", "abc:def", false},
		{"empty", "", false},
		{"whitespace", strings.Repeat("a", 40) + " b", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidToken(tc.token); got != tc.want {
				t.Fatalf("ValidToken(len=%d) = %v, want %v", len(tc.token), got, tc.want)
			}
		})
	}
}

package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reminderx/database/repository"
	"reminderx/models"

	"go.mongodb.org/mongo-driver/bson"
)

type memUsers struct {
	byID map[string]*models.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.NotFound("user", id)
}

func (m *memUsers) GetByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	for _, u := range m.byID {
		if u.FirebaseUID == uid {
			return u, nil
		}
	}
	return nil, repository.NotFound("user", uid)
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	u.ID = "user-" + u.FirebaseUID
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) UpdateSetDocument(_ context.Context, id string, doc bson.M) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.NotFound("user", id)
	}
	if v, ok := doc["pushToken"].(string); ok {
		u.PushToken = v
	}
	if v, ok := doc["name"].(string); ok {
		u.Name = v
	}
	if v, ok := doc["age"].(int); ok {
		u.Age = v
	}
	return nil
}

type invalidations []string

func (i *invalidations) Invalidate(userID string) { *i = append(*i, userID) }

func newService() (*DefaultUserService, *memUsers, *invalidations) {
	users := &memUsers{byID: map[string]*models.User{}}
	inv := &invalidations{}
	return &DefaultUserService{Repo: users, Tokens: inv}, users, inv
}

func TestRegisterOncePerIdentity(t *testing.T) {
	s, _, _ := newService()
	ctx := context.Background()

	u, err := s.Register(ctx, "fb-1", models.User{Name: "Lola", Email: "lola@example.com", PushToken: "smuggled"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.FirebaseUID != "fb-1" || u.PushToken != "" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := s.Register(ctx, "fb-1", models.User{Name: "Lola", Email: "lola@example.com"}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if _, err := s.Register(ctx, "fb-2", models.User{Email: "x@example.com"}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestUpdatePushTokenInvalidatesCache(t *testing.T) {
	s, users, inv := newService()
	ctx := context.Background()
	u, _ := s.Register(ctx, "fb-1", models.User{Name: "Lola", Email: "lola@example.com"})

	if err := s.UpdatePushToken(ctx, u.ID, "short"); !errors.Is(err, ErrInvalidPushToken) {
		t.Fatalf("expected ErrInvalidPushToken, got %v", err)
	}

	token := strings.Repeat("a", 40) + ":APA91b"
	if err := s.UpdatePushToken(ctx, u.ID, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.byID[u.ID].PushToken != token {
		t.Error("token not stored")
	}
	if len(*inv) != 1 || (*inv)[0] != u.ID {
		t.Errorf("expected cache invalidation for %s, got %v", u.ID, *inv)
	}
}

func TestUpdateProfile(t *testing.T) {
	s, _, _ := newService()
	ctx := context.Background()
	u, _ := s.Register(ctx, "fb-1", models.User{Name: "Lola", Email: "lola@example.com"})

	blank, age := " ", 81
	if _, err := s.UpdateProfile(ctx, u.ID, ProfileUpdate{Name: &blank}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	got, err := s.UpdateProfile(ctx, u.ID, ProfileUpdate{Age: &age})
	if err != nil || got.Age != 81 || got.Name != "Lola" {
		t.Fatalf("unexpected result %+v (%v)", got, err)
	}
}

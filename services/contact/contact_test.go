package contact

import (
	"context"
	"errors"
	"testing"

	"reminderx/models"
)

type memRepo struct {
	saved []models.Contact
}

func (m *memRepo) Create(_ context.Context, c *models.Contact) error {
	m.saved = append(m.saved, *c)
	return nil
}
func (m *memRepo) ListByUser(context.Context, string) ([]models.Contact, error) { return m.saved, nil }
func (m *memRepo) Update(_ context.Context, c *models.Contact) error {
	m.saved = append(m.saved, *c)
	return nil
}
func (m *memRepo) Delete(context.Context, string, string) error { return nil }

func TestCreateNormalizesPhone(t *testing.T) {
	repo := &memRepo{}
	s := NewService(repo)

	c := &models.Contact{Name: " Ana ", PhoneNumber: "+63 917-123-4567"}
	if err := s.Create(context.Background(), "u1", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := repo.saved[0]
	if got.Name != "Ana" || got.PhoneNumber != "+639171234567" || got.UserID != "u1" {
		t.Fatalf("unexpected contact %+v", got)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := NewService(&memRepo{})
	for _, c := range []models.Contact{
		{Name: "", PhoneNumber: "+639171234567"},
		{Name: "Ben", PhoneNumber: "call me"},
		{Name: "Ben", PhoneNumber: "123"},
	} {
		c := c
		if err := s.Create(context.Background(), "u1", &c); !errors.Is(err, ErrInvalidContact) {
			t.Errorf("%+v: expected ErrInvalidContact, got %v", c, err)
		}
	}
}

func TestUpdateScopesToCaller(t *testing.T) {
	repo := &memRepo{}
	s := NewService(repo)
	c := &models.Contact{ID: "other", UserID: "u2", Name: "Ana", PhoneNumber: "09171234567"}
	if err := s.Update(context.Background(), "u1", "c1", c); err != nil {
		t.Fatal(err)
	}
	if repo.saved[0].ID != "c1" || repo.saved[0].UserID != "u1" {
		t.Fatalf("expected id and owner from the request path and caller, got %+v", repo.saved[0])
	}
}

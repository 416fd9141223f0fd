package contact

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"reminderx/models"
)

var ErrInvalidContact = errors.New("invalid contact")

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Repo is the contact persistence the service needs.
type Repo interface {
	Create(ctx context.Context, contact *models.Contact) error
	ListByUser(ctx context.Context, userID string) ([]models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id, userID string) error
}

// Service manages the emergency contacts alerted when a dose is missed.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func normalize(c *models.Contact) error {
	c.Name = strings.TrimSpace(c.Name)
	c.PhoneNumber = strings.NewReplacer(" ", "", "-", "").Replace(c.PhoneNumber)
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidContact)
	}
	if !phonePattern.MatchString(c.PhoneNumber) {
		return fmt.Errorf("%w: phone number %q is not valid", ErrInvalidContact, c.PhoneNumber)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, c *models.Contact) error {
	c.ID = ""
	c.UserID = userID
	if err := normalize(c); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Contact, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update replaces the contact id owned by userID.
func (s *Service) Update(ctx context.Context, userID, id string, c *models.Contact) error {
	c.ID = id
	c.UserID = userID
	if err := normalize(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, id, userID)
}

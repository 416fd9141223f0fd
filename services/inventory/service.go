package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reminderx/database/repository"
	"reminderx/models"
)

var ErrInvalidItem = errors.New("invalid inventory item")

// ItemStore is the CRUD persistence behind Service.
type ItemStore interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id string) (*models.InventoryItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id, userID string) error
	DeductStock(ctx context.Context, userID string, compartment, count int) error
}

// DeviceLookup resolves a dispenser model to its paired user.
type DeviceLookup interface {
	GetByModel(ctx context.Context, model string) (*models.Device, error)
}

type Service struct {
	items   ItemStore
	devices DeviceLookup
}

func NewService(items ItemStore, devices DeviceLookup) *Service {
	return &Service{items: items, devices: devices}
}

func validate(item *models.InventoryItem) error {
	switch {
	case strings.TrimSpace(item.MedicineName) == "":
		return fmt.Errorf("%w: medicine name is required", ErrInvalidItem)
	case item.Stock < 0:
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidItem)
	case item.Dosage < 0:
		return fmt.Errorf("%w: dosage cannot be negative", ErrInvalidItem)
	case item.Compartment < 1:
		return fmt.Errorf("%w: compartment must be positive", ErrInvalidItem)
	case item.ExpirationDate.IsZero():
		return fmt.Errorf("%w: expiration date is required", ErrInvalidItem)
	}
	return nil
}

// Create stores a new item owned by userID with both flags clear.
func (s *Service) Create(ctx context.Context, userID string, item *models.InventoryItem) error {
	item.UserID = userID
	item.NotifiedLowStock = false
	item.NotifiedExpiry = false
	if err := validate(item); err != nil {
		return err
	}
	return s.items.Create(ctx, item)
}

func (s *Service) List(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	return s.items.ListByUser(ctx, userID)
}

// Update replaces the editable fields of an item owned by userID. The
// notified flags are owned by the monitor and carried over unchanged.
func (s *Service) Update(ctx context.Context, userID, id string, changes models.InventoryItem) (*models.InventoryItem, error) {
	current, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, repository.NotFound("inventory item", id)
	}

	current.MedicineName = changes.MedicineName
	current.Dosage = changes.Dosage
	current.ExpirationDate = changes.ExpirationDate
	current.Stock = changes.Stock
	current.Compartment = changes.Compartment
	if err := validate(current); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.items.Delete(ctx, id, userID)
}

// ReportUsage applies a dispenser's per-compartment pill counts to the
// inventory of the user paired with model.
func (s *Service) ReportUsage(ctx context.Context, model string, usage []models.CompartmentUsage) error {
	device, err := s.devices.GetByModel(ctx, model)
	if err != nil {
		return err
	}

	var errs []error
	for _, u := range usage {
		if u.PillCount == 0 {
			continue
		}
		if err := s.items.DeductStock(ctx, device.UserID, u.Compartment, u.PillCount); err != nil {
			errs = append(errs, fmt.Errorf("compartment %d: %w", u.Compartment, err))
		}
	}
	return errors.Join(errs...)
}

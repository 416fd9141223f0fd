package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"reminderx/database/repository"
	"reminderx/models"
)

type memItems struct {
	items    map[string]*models.InventoryItem
	deducted map[int]int
}

func (m *memItems) Create(_ context.Context, it *models.InventoryItem) error {
	m.items[it.ID] = it
	return nil
}

func (m *memItems) GetByID(_ context.Context, id string) (*models.InventoryItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, repository.NotFound("inventory item", id)
	}
	cp := *it
	return &cp, nil
}

func (m *memItems) ListByUser(context.Context, string) ([]models.InventoryItem, error) { return nil, nil }

func (m *memItems) Update(_ context.Context, it *models.InventoryItem) error {
	m.items[it.ID] = it
	return nil
}

func (m *memItems) Delete(context.Context, string, string) error { return nil }

func (m *memItems) DeductStock(_ context.Context, userID string, compartment, count int) error {
	if compartment == 9 {
		return repository.NotFound("inventory item", "compartment 9")
	}
	m.deducted[compartment] += count
	return nil
}

type devices map[string]string

func (d devices) GetByModel(_ context.Context, model string) (*models.Device, error) {
	uid, ok := d[model]
	if !ok {
		return nil, repository.NotFound("device", model)
	}
	return &models.Device{Model: model, UserID: uid}, nil
}

func TestCreateValidates(t *testing.T) {
	s := NewService(&memItems{items: map[string]*models.InventoryItem{}}, devices{})
	err := s.Create(context.Background(), "u1", &models.InventoryItem{ID: "x", MedicineName: " ", Compartment: 1, ExpirationDate: time.Now()})
	if !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestUpdateKeepsFlagsAndOwnership(t *testing.T) {
	store := &memItems{items: map[string]*models.InventoryItem{
		"i1": {ID: "i1", UserID: "u1", MedicineName: "A", Stock: 1, Compartment: 1, ExpirationDate: time.Now(), NotifiedLowStock: true},
	}}
	s := NewService(store, devices{})

	if _, err := s.Update(context.Background(), "u2", "i1", models.InventoryItem{}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected NotFound for another user's item, got %v", err)
	}

	got, err := s.Update(context.Background(), "u1", "i1", models.InventoryItem{MedicineName: "A", Stock: 10, Compartment: 1, ExpirationDate: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stock != 10 || !got.NotifiedLowStock {
		t.Errorf("unexpected item %+v", got)
	}
}

func TestReportUsage(t *testing.T) {
	store := &memItems{deducted: map[int]int{}}
	s := NewService(store, devices{"esp-1": "u1"})

	err := s.ReportUsage(context.Background(), "esp-1", []models.CompartmentUsage{
		{Compartment: 1, PillCount: 2},
		{Compartment: 2, PillCount: 0},
		{Compartment: 9, PillCount: 1},
		{Compartment: 3, PillCount: 1},
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected the unknown compartment to be reported, got %v", err)
	}
	if store.deducted[1] != 2 || store.deducted[3] != 1 || store.deducted[2] != 0 {
		t.Errorf("unexpected deductions %v", store.deducted)
	}

	if err := s.ReportUsage(context.Background(), "unknown", nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected NotFound for unpaired model, got %v", err)
	}
}

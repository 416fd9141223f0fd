package inventoryRepo

import (
	"context"

	"reminderx/models"
)

// InventoryRepository defines inventory persistence and the monitor's flag updates.
type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id string) (*models.InventoryItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error)
	ListAll(ctx context.Context) ([]models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id, userID string) error

	// DeductStock subtracts count from the item in a user's compartment, flooring at zero.
	DeductStock(ctx context.Context, userID string, compartment, count int) error

	// SetLowStockNotified flips the low-stock flag to value; it reports false
	// when the flag already had that value.
	SetLowStockNotified(ctx context.Context, id string, value bool) (bool, error)
	// SetExpiryNotified flips the expiry flag to value, like SetLowStockNotified.
	SetExpiryNotified(ctx context.Context, id string, value bool) (bool, error)
	// ResetFlags clears both notified flags on every item.
	ResetFlags(ctx context.Context) (int64, error)
}

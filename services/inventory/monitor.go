package inventory

import (
	"context"
	"fmt"
	"time"

	"reminderx/models"
	"reminderx/services/notification"

	"go.uber.org/zap"
)

// FlagStore is the persistence the monitor needs. The Set methods are
// compare-and-set: they report false when the flag already had the value.
type FlagStore interface {
	ListAll(ctx context.Context) ([]models.InventoryItem, error)
	SetLowStockNotified(ctx context.Context, id string, value bool) (bool, error)
	SetExpiryNotified(ctx context.Context, id string, value bool) (bool, error)
	ResetFlags(ctx context.Context) (int64, error)
}

// Monitor warns users once about low stock and approaching expiry.
type Monitor struct {
	items      FlagStore
	notifier   notification.Notifier
	threshold  int
	expiryWarn time.Duration
	logger     *zap.Logger
}

func NewMonitor(items FlagStore, notifier notification.Notifier, threshold, expiryWarningDays int, logger *zap.Logger) *Monitor {
	return &Monitor{
		items:      items,
		notifier:   notifier,
		threshold:  threshold,
		expiryWarn: time.Duration(expiryWarningDays) * 24 * time.Hour,
		logger:     logger,
	}
}

// Check evaluates every item against now and returns the pushes it dispatched.
func (m *Monitor) Check(ctx context.Context, now time.Time) ([]models.PushMessage, error) {
	items, err := m.items.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	var pushes []models.PushMessage
	for i := range items {
		pushes = append(pushes, m.checkItem(ctx, &items[i], now)...)
	}
	if len(pushes) > 0 {
		m.notifier.Dispatch(ctx, pushes)
	}
	return pushes, nil
}

func (m *Monitor) checkItem(ctx context.Context, item *models.InventoryItem, now time.Time) []models.PushMessage {
	var pushes []models.PushMessage
	log := m.logger.With(zap.String("itemId", item.ID), zap.String("userId", item.UserID))

	switch {
	case item.Stock > m.threshold && item.NotifiedLowStock:
		if _, err := m.items.SetLowStockNotified(ctx, item.ID, false); err != nil {
			log.Error("failed to clear low-stock flag", zap.Error(err))
		} else {
			log.Debug("low-stock flag cleared", zap.Int("stock", item.Stock))
		}
	case item.Stock <= m.threshold && !item.NotifiedLowStock:
		won, err := m.items.SetLowStockNotified(ctx, item.ID, true)
		if err != nil {
			log.Error("failed to set low-stock flag", zap.Error(err))
		} else if won {
			title, body := notification.LowStock(item.MedicineName, item.Stock)
			pushes = append(pushes, m.push(item, title, body))
		}
	}

	if !item.NotifiedExpiry && !item.ExpirationDate.IsZero() && item.ExpirationDate.Sub(now) <= m.expiryWarn {
		won, err := m.items.SetExpiryNotified(ctx, item.ID, true)
		if err != nil {
			log.Error("failed to set expiry flag", zap.Error(err))
		} else if won {
			title, body := notification.Expiring(item.MedicineName, item.ExpirationDate)
			pushes = append(pushes, m.push(item, title, body))
		}
	}
	return pushes
}

func (m *Monitor) push(item *models.InventoryItem, title, body string) models.PushMessage {
	return models.PushMessage{
		UserID: item.UserID,
		Kind:   models.PushKindInventory,
		Title:  title,
		Body:   body,
		Screen: models.ScreenInventory,
		Data:   map[string]string{"inventoryId": item.ID},
	}
}

// ResetDaily clears both flags on every item so persisting conditions are reported again.
func (m *Monitor) ResetDaily(ctx context.Context) error {
	n, err := m.items.ResetFlags(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("inventory flags reset", zap.Int64("items", n))
	return nil
}

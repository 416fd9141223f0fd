package reminder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"reminderx/database/repository"
	"reminderx/models"
	"reminderx/services/schedule"

	"go.uber.org/zap"
)

var (
	ErrInvalidReminder = errors.New("invalid reminder")
	ErrInvalidStatus   = errors.New("status must be 'taken' or 'skipped'")
	// ErrNoDoseToday is returned when a confirmation cannot be attributed to a dose.
	ErrNoDoseToday = errors.New("no dosage scheduled for today")
)

const maxAmount = 999

// defaultChainWindow matches the default 5m/3m/2m retry table.
const defaultChainWindow = 10 * time.Minute

// Store is the reminder persistence the service needs.
type Store interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, id string) (*models.Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reminder, error)
	Delete(ctx context.Context, id, userID string) error
	UpsertHistory(ctx context.Context, id string, entry models.HistoryEntry) error
}

type RecordStore interface {
	Create(ctx context.Context, record models.DoseRecord) (string, error)
}

type DeviceLookup interface {
	GetByModel(ctx context.Context, model string) (*models.Device, error)
}

// Service manages reminders and records dose confirmations. A confirmation is
// what stops an occurrence's retry chain.
type Service struct {
	reminders   Store
	records     RecordStore
	devices     DeviceLookup
	loc         *time.Location
	now         func() time.Time
	chainWindow time.Duration
	logger      *zap.Logger
}

func NewService(reminders Store, records RecordStore, devices DeviceLookup, logger *zap.Logger) *Service {
	return &Service{
		reminders:   reminders,
		records:     records,
		devices:     devices,
		loc:         time.Local,
		now:         time.Now,
		chainWindow: defaultChainWindow,
		logger:      logger,
	}
}

// SetChainWindow sets how long after a dose its retry chain may still run.
// Confirmations without a slot reach back into yesterday by this much.
func (s *Service) SetChainWindow(d time.Duration) {
	s.chainWindow = d
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidReminder, fmt.Sprintf(format, args...))
}

// normalize validates r and fills Times from Dosage when omitted.
func normalize(r *models.Reminder) error {
	r.MedicineName = strings.TrimSpace(r.MedicineName)
	if r.MedicineName == "" {
		return invalid("medicine name is required")
	}

	if len(r.SpecificDays) > 0 {
		for _, d := range r.SpecificDays {
			if !slices.Contains(models.Weekdays, d) {
				return invalid("unknown weekday %q", d)
			}
		}
		r.Frequency = ""
	} else if !slices.Contains(models.Frequencies, r.Frequency) {
		return invalid("frequency or specific days is required")
	}

	if len(r.Dosage) == 0 {
		return invalid("at least one dosage is required")
	}
	for _, d := range r.Dosage {
		if d.Amount < 1 || d.Amount > maxAmount {
			return invalid("dosage amount must be between 1 and %d", maxAmount)
		}
	}
	if len(r.Times) == 0 {
		for _, d := range r.Dosage {
			r.Times = append(r.Times, d.Time)
		}
	}
	if r.Compartment < 1 {
		return invalid("compartment must be positive")
	}

	if err := schedule.Validate(r); err != nil {
		var ie *schedule.IntegrityError
		if errors.As(err, &ie) {
			return invalid("%s", ie.Reason)
		}
		return err
	}
	return nil
}

// Create stores a reminder for userID with an empty ledger and history.
func (s *Service) Create(ctx context.Context, userID string, r *models.Reminder) error {
	r.ID = ""
	r.UserID = userID
	r.NotifiedTimes = nil
	r.History = nil
	if err := normalize(r); err != nil {
		return err
	}
	if err := s.reminders.Create(ctx, r); err != nil {
		return err
	}
	s.logger.Info("reminder created", zap.String("reminderId", r.ID), zap.String("userId", userID))
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Reminder, error) {
	return s.reminders.ListByUser(ctx, userID)
}

// Get returns a reminder owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Reminder, error) {
	r, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, repository.NotFound("reminder", id)
	}
	return r, nil
}

// Delete removes a reminder. A retry chain in flight for it stops on its next step.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.reminders.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("reminder deleted", zap.String("reminderId", id), zap.String("userId", userID))
	return nil
}

// ForDevice lists the reminders of the user paired with a dispenser model.
func (s *Service) ForDevice(ctx context.Context, model string) ([]models.Reminder, error) {
	device, err := s.devices.GetByModel(ctx, model)
	if err != nil {
		return nil, err
	}
	return s.reminders.ListByUser(ctx, device.UserID)
}

// History returns the entries of a reminder recorded for date (YYYY-MM-DD).
func (s *Service) History(ctx context.Context, userID, id, date string) ([]models.HistoryEntry, error) {
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return r.HistoryOn(date), nil
}

package reminder

import (
	"context"
	"time"

	"reminderx/models"
	"reminderx/services/schedule"

	"go.uber.org/zap"
)

// Confirmation is the outcome recorded for one occurrence.
type Confirmation struct {
	Reminder   *models.Reminder
	Occurrence schedule.Occurrence
	Entry      models.HistoryEntry
}

// UpdateHistory records status for an occurrence of a reminder owned by userID.
// forTime names the occurrence key; when empty, the dose scheduled closest to
// timestamp on that day is used. Repeated updates for the same key replace the
// earlier status.
func (s *Service) UpdateHistory(ctx context.Context, userID, id string, timestamp time.Time, status, forTime string) (*Confirmation, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, r, timestamp, status, forTime, false)
}

// ConfirmFromDevice records status reported by a dispenser for the dose of
// today closest to now, and logs it as a dose record.
func (s *Service) ConfirmFromDevice(ctx context.Context, id, status string) (*Confirmation, error) {
	r, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, r, s.now(), status, "", true)
}

func (s *Service) record(ctx context.Context, r *models.Reminder, at time.Time, status, forTime string, withDoseRecord bool) (*Confirmation, error) {
	if !models.IsTerminalStatus(status) {
		return nil, ErrInvalidStatus
	}
	at = at.In(s.loc)

	var (
		occ schedule.Occurrence
		err error
	)
	if forTime != "" {
		occ, err = schedule.FromKey(r, forTime, s.loc)
		if err != nil {
			return nil, invalid("%v", err)
		}
		if _, scheduled := r.DosageAt(occ.ScheduledAt.Format(schedule.ClockLayout)); !scheduled {
			return nil, invalid("no dose scheduled at %s", forTime)
		}
	} else {
		var ok bool
		if occ, ok = schedule.Closest(r, at, s.chainWindow); !ok {
			return nil, ErrNoDoseToday
		}
	}

	entry := models.HistoryEntry{Timestamp: at, Status: status, ForDate: occ.Date, ForTime: occ.Key}
	if err := s.reminders.UpsertHistory(ctx, r.ID, entry); err != nil {
		return nil, err
	}
	s.logger.Info("dose confirmed",
		zap.String("reminderId", r.ID),
		zap.String("slot", occ.Key),
		zap.String("status", status))

	if withDoseRecord {
		if _, err := s.records.Create(ctx, models.DoseRecord{
			MedicineName: r.MedicineName,
			Dosage:       occ.Amount,
			Compartment:  r.Compartment,
			Time:         at,
			Status:       status,
			UserID:       r.UserID,
		}); err != nil {
			s.logger.Error("failed to write dose record", zap.String("reminderId", r.ID), zap.Error(err))
		}
	}

	return &Confirmation{Reminder: r, Occurrence: occ, Entry: entry}, nil
}

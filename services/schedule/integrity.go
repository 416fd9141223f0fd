package schedule

import (
	"fmt"
	"time"

	"reminderx/models"
)

// IntegrityError reports a reminder whose stored schedule is inconsistent.
// The reminder is skipped for the cycle; it never aborts a scan.
type IntegrityError struct {
	ReminderID string
	Reason     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("reminder %s: data integrity: %s", e.ReminderID, e.Reason)
}

// Validate checks that dosage and times are the same length and pairwise equal
// and that every time parses as a time of day.
func Validate(r *models.Reminder) error {
	if len(r.Dosage) == 0 {
		return &IntegrityError{ReminderID: r.ID, Reason: "no dosage scheduled"}
	}
	if len(r.Dosage) != len(r.Times) {
		return &IntegrityError{
			ReminderID: r.ID,
			Reason:     fmt.Sprintf("%d dosages but %d times", len(r.Dosage), len(r.Times)),
		}
	}
	for i, d := range r.Dosage {
		if _, err := time.Parse(ClockLayout, d.Time); err != nil {
			return &IntegrityError{ReminderID: r.ID, Reason: fmt.Sprintf("invalid dosage time %q", d.Time)}
		}
		if d.Time != r.Times[i] {
			return &IntegrityError{
				ReminderID: r.ID,
				Reason:     fmt.Sprintf("dosage %d at %q does not match time %q", i, d.Time, r.Times[i]),
			}
		}
	}
	return nil
}

package schedule

import (
	"fmt"
	"time"

	"reminderx/models"
)

const (
	// ClockLayout is the time-of-day format of Dosage.Time and Reminder.Times.
	ClockLayout = "15:04"
	// DateLayout is the calendar date format of HistoryEntry.ForDate.
	DateLayout = "2006-01-02"
	// KeyLayout is the minute-precision ledger key format.
	KeyLayout = "2006-01-02T15:04"
)

// Occurrence is one dosage event of one reminder on one calendar day.
type Occurrence struct {
	ReminderID   string
	UserID       string
	MedicineName string
	Amount       int
	Compartment  int
	// Key identifies the occurrence inside its reminder's ledger and history.
	Key         string
	Date        string
	ScheduledAt time.Time
}

// ID is unique across reminders; it names the occurrence's retry chain.
func (o Occurrence) ID() string {
	return o.ReminderID + "/" + o.Key
}

// OccurrenceKey truncates t to the minute in its own location and formats the ledger key.
func OccurrenceKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a ledger key in loc.
func ParseKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid occurrence key %q: %w", key, err)
	}
	return t, nil
}

// At builds the occurrence of dose d on the calendar day of day.
func At(r *models.Reminder, d models.Dosage, day time.Time) (Occurrence, error) {
	clock, err := time.Parse(ClockLayout, d.Time)
	if err != nil {
		return Occurrence{}, &IntegrityError{ReminderID: r.ID, Reason: fmt.Sprintf("invalid dosage time %q", d.Time)}
	}
	scheduled := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())

	return Occurrence{
		ReminderID:   r.ID,
		UserID:       r.UserID,
		MedicineName: r.MedicineName,
		Amount:       d.Amount,
		Compartment:  r.Compartment,
		Key:          OccurrenceKey(scheduled),
		Date:         scheduled.Format(DateLayout),
		ScheduledAt:  scheduled,
	}, nil
}

// FromKey rebuilds the occurrence a ledger key refers to.
func FromKey(r *models.Reminder, key string, loc *time.Location) (Occurrence, error) {
	t, err := ParseKey(key, loc)
	if err != nil {
		return Occurrence{}, err
	}
	occ := Occurrence{
		ReminderID:   r.ID,
		UserID:       r.UserID,
		MedicineName: r.MedicineName,
		Compartment:  r.Compartment,
		Key:          key,
		Date:         t.Format(DateLayout),
		ScheduledAt:  t,
	}
	if d, ok := r.DosageAt(t.Format(ClockLayout)); ok {
		occ.Amount = d.Amount
	}
	return occ, nil
}

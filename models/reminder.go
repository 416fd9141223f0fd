// File: reminderx/models/reminder.go
package models

import "time"

// Dose outcomes recorded in history and in the dedup ledger.
const (
	StatusTaken   = "taken"
	StatusSkipped = "skipped"
	// LedgerNotified marks an occurrence that was detected and pushed but not yet resolved.
	LedgerNotified = "notified"
)

// Frequency categories. Unused when SpecificDays is non-empty.
const (
	FrequencyOnceADay   = "Once a day"
	FrequencyTwiceADay  = "Twice a day"
	FrequencyThriceADay = "3 times a day"
	FrequencyEveryXHrs  = "Every X hours"
)

var Frequencies = []string{FrequencyOnceADay, FrequencyTwiceADay, FrequencyThriceADay, FrequencyEveryXHrs}

var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Dosage is one scheduled intake: a local time of day ("15:04") and a pill count.
type Dosage struct {
	Time   string `bson:"time" json:"time"`
	Amount int    `bson:"dosage" json:"dosage"`
}

// HistoryEntry records the confirmed outcome of one occurrence.
// ForTime is the occurrence's ledger key, ForDate its calendar date.
type HistoryEntry struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Status    string    `bson:"status" json:"status"`
	ForDate   string    `bson:"forDate" json:"forDate"`
	ForTime   string    `bson:"forTime" json:"forTime"`
}

type Reminder struct {
	ID           string   `bson:"id" json:"id"`
	MedicineName string   `bson:"medicineName" json:"medicineName"`
	Frequency    string   `bson:"frequency,omitempty" json:"frequency,omitempty"`
	SpecificDays []string `bson:"specificDays" json:"specificDays"`
	Dosage       []Dosage `bson:"dosage" json:"dosage"`
	Times        []string `bson:"times" json:"times"`
	Compartment  int      `bson:"compartment" json:"compartment"`

	// NotifiedTimes is the dedup ledger: occurrence key -> last recorded outcome.
	NotifiedTimes map[string]string `bson:"notifiedTimes" json:"notifiedTimes"`
	History       []HistoryEntry    `bson:"history" json:"history"`

	UserID    string    `bson:"userId" json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HistoryFor returns the history entry recorded for an occurrence key, if any.
func (r *Reminder) HistoryFor(key string) *HistoryEntry {
	for i := range r.History {
		if r.History[i].ForTime == key {
			return &r.History[i]
		}
	}
	return nil
}

// HistoryOn returns every entry recorded for a calendar date (YYYY-MM-DD).
func (r *Reminder) HistoryOn(date string) []HistoryEntry {
	entries := []HistoryEntry{}
	for _, h := range r.History {
		if h.ForDate == date {
			entries = append(entries, h)
		}
	}
	return entries
}

// IsResolved reports whether the occurrence has a terminal outcome
// in either the history or the ledger.
func (r *Reminder) IsResolved(key string) bool {
	if h := r.HistoryFor(key); h != nil && IsTerminalStatus(h.Status) {
		return true
	}
	return IsTerminalStatus(r.NotifiedTimes[key])
}

// DosageAt returns the dosage scheduled at a time of day.
func (r *Reminder) DosageAt(clock string) (Dosage, bool) {
	for _, d := range r.Dosage {
		if d.Time == clock {
			return d, true
		}
	}
	return Dosage{}, false
}

func IsTerminalStatus(status string) bool {
	return status == StatusTaken || status == StatusSkipped
}

package models

// DoseTaskPayload is the queued state of one retry/escalation chain step.
type DoseTaskPayload struct {
	ReminderID string `json:"reminderId"`
	UserID     string `json:"userId"`
	Slot       string `json:"slot"`    // occurrence key, e.g. 2026-10-17T08:00
	Attempt    int    `json:"attempt"` // push attempt this step sends; unused for escalation
}

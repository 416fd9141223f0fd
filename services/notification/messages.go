package notification

import (
	"fmt"
	"time"
)

const reminderTitle = "Medication reminder"

// DoseDue is the first push of an occurrence.
func DoseDue(medicine string) (title, body string) {
	return reminderTitle, fmt.Sprintf(
		"It's medication time! Your %s is being auto-dispensed. Please check the tray for your medicine.", medicine)
}

// DoseRetry is the push for attempt n of max. The last attempt warns about the SMS.
func DoseRetry(medicine string, attempt, max int) (title, body string) {
	if attempt >= max {
		return reminderTitle, fmt.Sprintf(
			"[Attempt %d - Last Attempt] We still haven't heard from you about your %s! We'll notify your emergency contact via SMS to ensure you're okay.",
			attempt, medicine)
	}
	return reminderTitle, fmt.Sprintf(
		"[Attempt %d] Still waiting. Your %s is still in the tray. Please take it as soon as possible!", attempt, medicine)
}

// LowStock warns that a medicine is about to run out.
func LowStock(medicine string, stock int) (title, body string) {
	return "Low stock", fmt.Sprintf("%s is running low. Only %d remaining. [Restock Now]", medicine, stock)
}

// Expiring warns about an approaching expiration date.
func Expiring(medicine string, expiresAt time.Time) (title, body string) {
	return "Expiring soon", fmt.Sprintf("%s will expire on %s.", medicine, expiresAt.Format("January 02, 2006"))
}

// MissedDoseSMS is sent to each emergency contact on escalation.
func MissedDoseSMS(contactName, userName, medicine string) string {
	if userName == "" {
		userName = "your loved one"
	}
	return fmt.Sprintf(
		"Hi %s, this is ReminderX. We want to inform you that %s missed their scheduled %s. "+
			"Please check on them soon to ensure they're okay. If you have any inquiries, email us at support@reminderx.com.",
		contactName, userName, medicine)
}

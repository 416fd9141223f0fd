package schedule

import (
	"time"

	"reminderx/models"
)

// ScheduledOn reports whether a reminder has doses on day's weekday.
// An empty weekday set means every day.
func ScheduledOn(r *models.Reminder, day time.Time) bool {
	if len(r.SpecificDays) == 0 {
		return true
	}
	today := day.Weekday().String()
	for _, d := range r.SpecificDays {
		if d == today {
			return true
		}
	}
	return false
}

// Resolve returns the occurrences due at now: scheduled today, at now's hour and
// minute, and absent from the reminder's ledger. It is a pure query; reminders
// that fail Validate are reported in errs and skipped.
func Resolve(now time.Time, reminders []models.Reminder) (due []Occurrence, errs []error) {
	for i := range reminders {
		r := &reminders[i]

		if !ScheduledOn(r, now) {
			continue
		}
		if err := Validate(r); err != nil {
			errs = append(errs, err)
			continue
		}

		for _, d := range r.Dosage {
			occ, err := At(r, d, now)
			if err != nil {
				errs = append(errs, err)
				break
			}
			if occ.ScheduledAt.Hour() != now.Hour() || occ.ScheduledAt.Minute() != now.Minute() {
				continue
			}
			if _, handled := r.NotifiedTimes[occ.Key]; handled {
				continue
			}
			due = append(due, occ)
		}
	}
	return due, errs
}

// Closest returns the occurrence whose scheduled time is nearest to at. It is
// how a bare "taken"/"skipped" signal from a dispenser is attributed to a dose.
// Candidates are today's doses plus yesterday's doses scheduled no more than
// lookback before at, so a dose taken just after midnight still resolves the
// evening slot whose retry chain is running.
func Closest(r *models.Reminder, at time.Time, lookback time.Duration) (Occurrence, bool) {
	if Validate(r) != nil {
		return Occurrence{}, false
	}

	var (
		best     Occurrence
		bestDiff time.Duration
		found    bool
	)
	consider := func(day time.Time, eligible func(Occurrence) bool) {
		if !ScheduledOn(r, day) {
			return
		}
		for _, d := range r.Dosage {
			occ, err := At(r, d, day)
			if err != nil || !eligible(occ) {
				continue
			}
			diff := occ.ScheduledAt.Sub(at)
			if diff < 0 {
				diff = -diff
			}
			if !found || diff < bestDiff {
				best, bestDiff, found = occ, diff, true
			}
		}
	}

	consider(at, func(Occurrence) bool { return true })
	if lookback > 0 {
		consider(at.AddDate(0, 0, -1), func(o Occurrence) bool { return at.Sub(o.ScheduledAt) <= lookback })
	}
	return best, found
}

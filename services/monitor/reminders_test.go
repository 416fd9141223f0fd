package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reminderx/database/repository"
	"reminderx/models"
	"reminderx/services/schedule"
	"reminderx/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type fakeScanner struct {
	reminders map[string]*models.Reminder
	claimErr  error
	listed    []string
}

// scheduledAt matches on times or on a dosage time, like the Mongo query.
func scheduledAt(r *models.Reminder, clock string) bool {
	for _, t := range r.Times {
		if t == clock {
			return true
		}
	}
	for _, d := range r.Dosage {
		if d.Time == clock {
			return true
		}
	}
	return false
}

func (f *fakeScanner) ListScheduledAt(_ context.Context, clock string) ([]models.Reminder, error) {
	f.listed = append(f.listed, clock)
	var out []models.Reminder
	for _, r := range f.reminders {
		if !scheduledAt(r, clock) {
			continue
		}
		cp := *r
		cp.NotifiedTimes = map[string]string{}
		for k, v := range r.NotifiedTimes {
			cp.NotifiedTimes[k] = v
		}
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeScanner) ClaimOccurrence(_ context.Context, id, key string) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	r, ok := f.reminders[id]
	if !ok {
		return false, repository.NotFound("reminder", id)
	}
	if _, taken := r.NotifiedTimes[key]; taken {
		return false, nil
	}
	r.NotifiedTimes[key] = models.LedgerNotified
	return true, nil
}

func (f *fakeScanner) ResetLedgers(context.Context) (int64, error) {
	for _, r := range f.reminders {
		r.NotifiedTimes = map[string]string{}
	}
	return int64(len(f.reminders)), nil
}

type fakeNotifier struct {
	batches [][]models.PushMessage
}

func (f *fakeNotifier) Dispatch(_ context.Context, pushes []models.PushMessage) {
	f.batches = append(f.batches, pushes)
}

func (f *fakeNotifier) count() int {
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

type fakeChains struct {
	started []schedule.Occurrence
	err     error
}

func (f *fakeChains) Start(_ context.Context, occ schedule.Occurrence, _ time.Time) error {
	f.started = append(f.started, occ)
	return f.err
}

func reminder(id string, clocks ...string) *models.Reminder {
	r := &models.Reminder{ID: id, UserID: "u-" + id, MedicineName: "Metformin", Times: clocks, NotifiedTimes: map[string]string{}}
	for _, c := range clocks {
		r.Dosage = append(r.Dosage, models.Dosage{Time: c, Amount: 1})
	}
	return r
}

func newChecker(s *fakeScanner) (*ReminderChecker, *fakeNotifier, *fakeChains) {
	n, c := &fakeNotifier{}, &fakeChains{}
	return NewReminderChecker(s, n, c, zap.NewNop()), n, c
}

func TestCheckNotifiesOncePerOccurrence(t *testing.T) {
	s := &fakeScanner{reminders: map[string]*models.Reminder{
		"a": reminder("a", "08:00"),
		"b": reminder("b", "08:00", "20:00"),
		"c": reminder("c", "09:00"),
	}}
	checker, notifier, chains := newChecker(s)

	// Two ticks inside the same minute plus one drifting into the next second.
	ticks := []time.Time{
		time.Date(2026, 10, 17, 8, 0, 0, 0, time.Local),
		time.Date(2026, 10, 17, 8, 0, 30, 0, time.Local),
		time.Date(2026, 10, 17, 8, 0, 59, 0, time.Local),
	}
	for _, now := range ticks {
		if _, err := checker.Check(context.Background(), now); err != nil {
			t.Fatalf("Check: %v", err)
		}
	}

	if notifier.count() != 2 {
		t.Fatalf("expected 2 pushes, got %d", notifier.count())
	}
	if len(chains.started) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(chains.started))
	}
	if s.listed[0] != "08:00" {
		t.Errorf("expected indexed lookup for 08:00, got %q", s.listed[0])
	}
	if got := s.reminders["a"].NotifiedTimes["2026-10-17T08:00"]; got != models.LedgerNotified {
		t.Errorf("expected ledger entry, got %q", got)
	}
	push := notifier.batches[0][0]
	if push.Kind != models.PushKindDose || push.Screen != models.ScreenEventSchedule || !strings.Contains(push.Body, "Metformin") {
		t.Errorf("unexpected push %+v", push)
	}
}

func TestCheckSkipsLostClaimsAndErrors(t *testing.T) {
	s := &fakeScanner{reminders: map[string]*models.Reminder{"a": reminder("a", "08:00")}, claimErr: errors.New("mongo down")}
	checker, notifier, chains := newChecker(s)

	claimed, err := checker.Check(context.Background(), time.Date(2026, 10, 17, 8, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("a failed claim must not fail the tick: %v", err)
	}
	if len(claimed) != 0 || notifier.count() != 0 || len(chains.started) != 0 {
		t.Fatal("expected nothing dispatched when the claim fails")
	}
}

func TestCheckSkipsIntegrityErrors(t *testing.T) {
	broken := reminder("broken", "08:00")
	broken.Dosage = nil
	s := &fakeScanner{reminders: map[string]*models.Reminder{
		"broken": broken,
		"ok":     reminder("ok", "08:00"),
	}}
	checker, notifier, _ := newChecker(s)

	if _, err := checker.Check(context.Background(), time.Date(2026, 10, 17, 8, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if notifier.count() != 1 || notifier.batches[0][0].UserID != "u-ok" {
		t.Fatalf("expected only the valid reminder to fire, got %+v", notifier.batches)
	}
}

func TestCheckReportsDosageMissingFromTimes(t *testing.T) {
	drifted := reminder("drifted", "09:00")
	drifted.Dosage[0].Time = "08:00"
	s := &fakeScanner{reminders: map[string]*models.Reminder{"drifted": drifted}}
	checker, notifier, _ := newChecker(s)
	before := testutil.ToFloat64(utils.IntegrityErrors)

	if _, err := checker.Check(context.Background(), time.Date(2026, 10, 17, 8, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if notifier.count() != 0 {
		t.Fatalf("expected no push for an inconsistent reminder, got %+v", notifier.batches)
	}
	if got := testutil.ToFloat64(utils.IntegrityErrors) - before; got != 1 {
		t.Errorf("expected one integrity error, got %v", got)
	}
}

func TestResetDailyAllowsNextDay(t *testing.T) {
	s := &fakeScanner{reminders: map[string]*models.Reminder{"a": reminder("a", "08:00")}}
	checker, notifier, _ := newChecker(s)
	s.reminders["a"].History = []models.HistoryEntry{{Status: models.StatusTaken, ForDate: "2026-10-17", ForTime: "2026-10-17T08:00"}}

	checker.Check(context.Background(), time.Date(2026, 10, 17, 8, 0, 0, 0, time.Local))
	if err := checker.ResetDaily(context.Background()); err != nil {
		t.Fatalf("ResetDaily: %v", err)
	}
	if len(s.reminders["a"].NotifiedTimes) != 0 {
		t.Fatal("expected empty ledger after reset")
	}
	if len(s.reminders["a"].History) != 1 {
		t.Fatal("history must survive the reset")
	}

	checker.Check(context.Background(), time.Date(2026, 10, 18, 8, 0, 0, 0, time.Local))
	if notifier.count() != 2 {
		t.Fatalf("expected the next day's occurrence to fire, got %d pushes", notifier.count())
	}
}

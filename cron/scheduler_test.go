package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeLocker struct {
	held map[string]string
	err  error
}

func (f *fakeLocker) Acquire(_ context.Context, key, owner string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = owner
	return true, nil
}

func TestRunTakesOneLockPerTick(t *testing.T) {
	locker := &fakeLocker{held: map[string]string{}}
	a := NewScheduler(locker, zap.NewNop())
	b := NewScheduler(locker, zap.NewNop())
	defer a.cancel()
	defer b.cancel()

	calls := 0
	job := func(context.Context, time.Time) error { calls++; return nil }

	a.run("reminders", time.Minute, job)
	b.run("reminders", time.Minute, job)

	// Both runs usually land in the same second; allow for a boundary crossing.
	if calls < 1 || (calls == 2 && len(locker.held) != 2) {
		t.Fatalf("expected a single run per tick, got %d runs and %d locks", calls, len(locker.held))
	}
}

func TestRunWithoutLockerOrOnLockError(t *testing.T) {
	calls := 0
	job := func(context.Context, time.Time) error { calls++; return errors.New("boom") }

	s := NewScheduler(nil, zap.NewNop())
	defer s.cancel()
	s.run("inventory", time.Minute, job)

	failing := NewScheduler(&fakeLocker{err: errors.New("redis down")}, zap.NewNop())
	defer failing.cancel()
	failing.run("inventory", time.Minute, job)

	if calls != 2 {
		t.Fatalf("expected both runs to execute, got %d", calls)
	}
}

func TestAddRejectsBadSpec(t *testing.T) {
	s := NewScheduler(nil, zap.NewNop())
	defer s.cancel()

	if err := s.Add("reminders", "0 * * * * *", 0, func(context.Context, time.Time) error { return nil }); err != nil {
		t.Fatalf("expected seconds spec to parse: %v", err)
	}
	if err := s.Add("broken", "every minute", 0, func(context.Context, time.Time) error { return nil }); err == nil {
		t.Fatal("expected an error for an invalid spec")
	}
}

func TestTickLockOutlivesTheRun(t *testing.T) {
	locker := &fakeLocker{held: map[string]string{}}
	s := NewScheduler(locker, zap.NewNop())
	defer s.cancel()

	s.run("inventory", 8*time.Second, func(context.Context, time.Time) error { return nil })

	if len(locker.held) != 1 {
		t.Fatalf("expected the tick lock to stay held until it expires, got %v", locker.held)
	}
	for key, owner := range locker.held {
		if !strings.HasPrefix(key, "job:inventory:") || owner != s.owner {
			t.Errorf("unexpected lock %q held by %q", key, owner)
		}
	}
}

package tasks

import (
	"testing"
	"time"

	"reminderx/models"

	"github.com/hibiken/asynq"
)

func TestNewRetryTaskOptions(t *testing.T) {
	p := models.DoseTaskPayload{ReminderID: "r1", UserID: "u1", Slot: "2026-10-17T08:00", Attempt: 2}
	fireAt := time.Date(2026, 10, 17, 8, 8, 0, 0, time.UTC)

	task, opts, err := NewRetryTask(p, fireAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TypeDoseRetry {
		t.Errorf("expected type %s, got %s", TypeDoseRetry, task.Type())
	}

	var gotAt time.Time
	var gotID string
	for _, o := range opts {
		switch o.Type() {
		case asynq.ProcessAtOpt:
			gotAt = o.Value().(time.Time)
		case asynq.TaskIDOpt:
			gotID = o.Value().(string)
		}
	}
	if !gotAt.Equal(fireAt) {
		t.Errorf("expected fire time %v, got %v", fireAt, gotAt)
	}
	if want := "dose:retry:r1:2026-10-17T08:00:2"; gotID != want {
		t.Errorf("expected task id %q, got %q", want, gotID)
	}

	back, err := ParsePayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != p {
		t.Errorf("payload mismatch: %+v", back)
	}
}

func TestStepIDsDifferByType(t *testing.T) {
	p := models.DoseTaskPayload{ReminderID: "r1", Slot: "2026-10-17T08:00"}
	if StepID(TypeDoseRetry, p) == StepID(TypeDoseEscalate, p) {
		t.Fatal("retry and escalate steps must not share an id")
	}
}

func TestParsePayloadRejectsGarbage(t *testing.T) {
	if _, err := ParsePayload(asynq.NewTask(TypeDoseEscalate, []byte("{"))); err == nil {
		t.Fatal("expected error")
	}
}

func TestStepsAreRedeliveredOnFailure(t *testing.T) {
	p := models.DoseTaskPayload{ReminderID: "r1", Slot: "2026-10-17T08:00"}
	for _, build := range []func(models.DoseTaskPayload, time.Time) (*asynq.Task, []asynq.Option, error){NewRetryTask, NewEscalateTask} {
		task, opts, err := build(p, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		got := -1
		for _, o := range opts {
			if o.Type() == asynq.MaxRetryOpt {
				got = o.Value().(int)
			}
		}
		if got != StepMaxRetry || got < 1 {
			t.Errorf("%s: expected MaxRetry %d, got %d", task.Type(), StepMaxRetry, got)
		}
	}
}

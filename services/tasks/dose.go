package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"reminderx/models"

	"github.com/hibiken/asynq"
)

const (
	TypeDoseRetry    = "dose:retry"
	TypeDoseEscalate = "dose:escalate"
)

// StepMaxRetry is how often the queue redelivers a step whose handler failed,
// with asynq's default backoff. Handlers return an error only before their
// side effects, so a redelivery never repeats a push or an SMS.
const StepMaxRetry = 3

// stepRetention keeps completed step IDs around so a re-enqueue of the same
// step is still rejected as a duplicate.
const stepRetention = 24 * time.Hour

// StepID is the deterministic queue ID of one chain step.
func StepID(taskType string, p models.DoseTaskPayload) string {
	return fmt.Sprintf("%s:%s:%s:%d", taskType, p.ReminderID, p.Slot, p.Attempt)
}

// NewRetryTask schedules retry push number p.Attempt at fireAt.
func NewRetryTask(p models.DoseTaskPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	return newStep(TypeDoseRetry, p, fireAt)
}

// NewEscalateTask schedules the escalation of an unconfirmed occurrence at fireAt.
func NewEscalateTask(p models.DoseTaskPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	return newStep(TypeDoseEscalate, p, fireAt)
}

func newStep(taskType string, p models.DoseTaskPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(taskType, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(StepID(taskType, p)),
		asynq.MaxRetry(StepMaxRetry),
		asynq.Retention(stepRetention),
	}

	return task, opts, nil
}

// ParsePayload decodes a chain step's payload.
func ParsePayload(task *asynq.Task) (models.DoseTaskPayload, error) {
	var p models.DoseTaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}
	return p, nil
}

package escalation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reminderx/database/repository"
	"reminderx/models"
	"reminderx/services/notification"
	"reminderx/services/schedule"
	"reminderx/services/sms"
	"reminderx/services/tasks"
	"reminderx/utils"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var userNameProjection = bson.M{"id": 1, "name": 1}

// Machine drives the retry chain of a detected occurrence:
//
//	Notified(0) -> wait delays[0] -> Notified(1) -> ... -> wait delays[n-1] -> Escalating
//
// Every step is a durable queue entry. Before acting, a step re-reads the
// reminder and stops if it was deleted or the occurrence has been resolved.
type Machine struct {
	queue     Enqueuer
	reminders ReminderStore
	users     UserStore
	contacts  ContactStore
	records   RecordStore
	notifier  notification.Notifier
	sender    sms.Sender
	delays    []time.Duration
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// Deps groups the machine's collaborators.
type Deps struct {
	Queue     Enqueuer
	Reminders ReminderStore
	Users     UserStore
	Contacts  ContactStore
	Records   RecordStore
	Notifier  notification.Notifier
	Sender    sms.Sender
}

// NewMachine builds a machine. delays must hold at least one entry: the
// entries before the last separate push attempts, the last one is the wait
// before escalating.
func NewMachine(deps Deps, delays []time.Duration, logger *zap.Logger) (*Machine, error) {
	if len(delays) == 0 {
		return nil, errors.New("escalation: empty delay table")
	}
	return &Machine{
		queue:     deps.Queue,
		reminders: deps.Reminders,
		users:     deps.Users,
		contacts:  deps.Contacts,
		records:   deps.Records,
		notifier:  deps.Notifier,
		sender:    deps.Sender,
		delays:    delays,
		loc:       time.Local,
		now:       time.Now,
		logger:    logger,
	}, nil
}

// MaxRetries is the number of follow-up pushes after the initial one.
func (m *Machine) MaxRetries() int {
	return len(m.delays) - 1
}

// Window is how long after the initial push an occurrence may still escalate.
func (m *Machine) Window() time.Duration {
	var total time.Duration
	for _, d := range m.delays {
		total += d
	}
	return total
}

// Start schedules the first step after the initial push for occ went out at detectedAt.
func (m *Machine) Start(ctx context.Context, occ schedule.Occurrence, detectedAt time.Time) error {
	p := models.DoseTaskPayload{ReminderID: occ.ReminderID, UserID: occ.UserID, Slot: occ.Key}
	return m.scheduleAfter(ctx, p, 0, detectedAt)
}

// scheduleAfter enqueues the step that follows push attempt `sent`.
func (m *Machine) scheduleAfter(ctx context.Context, p models.DoseTaskPayload, sent int, from time.Time) error {
	fireAt := from.Add(m.delays[sent])

	var (
		task *asynq.Task
		opts []asynq.Option
		err  error
	)
	if sent < m.MaxRetries() {
		p.Attempt = sent + 1
		task, opts, err = tasks.NewRetryTask(p, fireAt)
	} else {
		p.Attempt = 0
		task, opts, err = tasks.NewEscalateTask(p, fireAt)
	}
	if err != nil {
		return fmt.Errorf("failed to build chain step: %w", err)
	}

	if _, err := m.queue.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			m.logger.Debug("chain step already queued", zap.String("reminderId", p.ReminderID), zap.String("slot", p.Slot))
			return nil
		}
		return fmt.Errorf("failed to enqueue %s for reminder %s slot %s: %w", task.Type(), p.ReminderID, p.Slot, err)
	}

	m.logger.Debug("chain step scheduled",
		zap.String("type", task.Type()),
		zap.String("reminderId", p.ReminderID),
		zap.String("slot", p.Slot),
		zap.Int("attempt", p.Attempt),
		zap.Time("fireAt", fireAt))
	return nil
}

// pending loads the reminder and reports whether the chain should continue.
func (m *Machine) pending(ctx context.Context, p models.DoseTaskPayload) (*models.Reminder, bool, error) {
	r, err := m.reminders.GetByID(ctx, p.ReminderID)
	if errors.Is(err, repository.ErrNotFound) {
		m.logger.Info("reminder deleted, chain stopped", zap.String("reminderId", p.ReminderID), zap.String("slot", p.Slot))
		utils.ChainTransitions.WithLabelValues("deleted").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if r.IsResolved(p.Slot) {
		m.logger.Info("dose confirmed, chain stopped", zap.String("reminderId", p.ReminderID), zap.String("slot", p.Slot))
		utils.ChainTransitions.WithLabelValues("confirmed").Inc()
		return r, false, nil
	}
	return r, true, nil
}

// HandleRetry sends follow-up push p.Attempt and schedules the next step.
func (m *Machine) HandleRetry(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParsePayload(t)
	if err != nil {
		m.logger.Error("dropping retry step", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	r, ok, err := m.pending(ctx, p)
	if err != nil || !ok {
		return err
	}

	// Queue the next step first: a failure here leaves the push unsent and the
	// step is redelivered.
	if err := m.scheduleAfter(ctx, p, p.Attempt, m.now()); err != nil {
		return err
	}

	title, body := notification.DoseRetry(r.MedicineName, p.Attempt, m.MaxRetries())
	m.notifier.Dispatch(ctx, []models.PushMessage{{
		UserID: r.UserID,
		Kind:   models.PushKindRetry,
		Title:  title,
		Body:   body,
		Screen: models.ScreenEventSchedule,
		Data:   map[string]string{"reminderId": r.ID, "slot": p.Slot},
	}})
	utils.ChainTransitions.WithLabelValues("retried").Inc()
	m.logger.Info("retry push sent",
		zap.String("reminderId", r.ID),
		zap.String("slot", p.Slot),
		zap.Int("attempt", p.Attempt))
	return nil
}

// HandleEscalate records the occurrence as skipped and alerts the user's
// emergency contacts. Only the writer that appends the skipped entry sends SMS.
func (m *Machine) HandleEscalate(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParsePayload(t)
	if err != nil {
		m.logger.Error("dropping escalation step", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	r, ok, err := m.pending(ctx, p)
	if err != nil || !ok {
		return err
	}

	occ, err := schedule.FromKey(r, p.Slot, m.loc)
	if err != nil {
		m.logger.Error("invalid occurrence key in escalation", zap.String("reminderId", r.ID), zap.Error(err))
		return nil
	}

	now := m.now()
	appended, err := m.reminders.AppendHistoryIfAbsent(ctx, r.ID, models.HistoryEntry{
		Timestamp: now,
		Status:    models.StatusSkipped,
		ForDate:   occ.Date,
		ForTime:   occ.Key,
	})
	if errors.Is(err, repository.ErrNotFound) {
		m.logger.Info("reminder deleted before escalation", zap.String("reminderId", r.ID))
		utils.ChainTransitions.WithLabelValues("deleted").Inc()
		return nil
	}
	if err != nil {
		return err
	}
	if !appended {
		m.logger.Info("occurrence resolved concurrently, not escalating", zap.String("reminderId", r.ID), zap.String("slot", p.Slot))
		utils.ChainTransitions.WithLabelValues("raced").Inc()
		return nil
	}
	utils.ChainTransitions.WithLabelValues("escalated").Inc()

	if _, err := m.records.Create(ctx, models.DoseRecord{
		MedicineName: occ.MedicineName,
		Dosage:       occ.Amount,
		Compartment:  occ.Compartment,
		Time:         now,
		Status:       models.StatusSkipped,
		UserID:       r.UserID,
	}); err != nil {
		m.logger.Error("failed to write dose record", zap.String("reminderId", r.ID), zap.Error(err))
	}

	m.alertContacts(ctx, r)
	return nil
}

func (m *Machine) alertContacts(ctx context.Context, r *models.Reminder) {
	var userName string
	if u, err := m.users.GetByIDWithProjection(ctx, r.UserID, userNameProjection); err != nil {
		m.logger.Warn("escalation: user lookup failed", zap.String("userId", r.UserID), zap.Error(err))
	} else {
		userName = u.Name
	}

	contacts, err := m.contacts.ListByUser(ctx, r.UserID)
	if err != nil {
		m.logger.Error("escalation: contact lookup failed", zap.String("userId", r.UserID), zap.Error(err))
		return
	}
	if len(contacts) == 0 {
		m.logger.Warn("escalation: no emergency contacts", zap.String("userId", r.UserID), zap.String("reminderId", r.ID))
		return
	}

	for _, c := range contacts {
		msg := notification.MissedDoseSMS(c.Name, userName, r.MedicineName)
		if err := m.sender.Send(ctx, c.PhoneNumber, msg); err != nil {
			utils.SMSSent.WithLabelValues("failed").Inc()
			m.logger.Error("escalation SMS failed",
				zap.String("userId", r.UserID),
				zap.String("contactId", c.ID),
				zap.Error(err))
			continue
		}
		utils.SMSSent.WithLabelValues("sent").Inc()
		m.logger.Info("escalation SMS sent", zap.String("userId", r.UserID), zap.String("contactId", c.ID))
	}
}

package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PushesSent counts push messages by kind (dose, retry, inventory) and outcome.
	PushesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminderx_push_messages_total",
		Help: "Push messages handed to the push transport, by kind and outcome",
	}, []string{"kind", "outcome"})

	// SMSSent counts escalation SMS by outcome.
	SMSSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminderx_sms_messages_total",
		Help: "Escalation SMS messages, by outcome",
	}, []string{"outcome"})

	// OccurrencesDetected counts dosage occurrences claimed by the scanner.
	OccurrencesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminderx_occurrences_detected_total",
		Help: "Dosage occurrences claimed in the dedup ledger",
	})

	// ChainTransitions counts retry chain outcomes (retried, confirmed, deleted, escalated, raced).
	ChainTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminderx_retry_chain_transitions_total",
		Help: "Retry/escalation chain transitions by result",
	}, []string{"result"})

	// IntegrityErrors counts reminders skipped because dosage and times disagree.
	IntegrityErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminderx_reminder_integrity_errors_total",
		Help: "Reminders skipped in a scan because of data integrity errors",
	})

	// JobDuration observes how long each periodic job takes.
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reminderx_job_duration_seconds",
		Help:    "Duration of periodic jobs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"job"})
)

package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutboxMetrics counts publisher outcomes per event type.
type OutboxMetrics struct {
	published  *prometheus.CounterVec
	failed     *prometheus.CounterVec
	deadLetter *prometheus.CounterVec
}

// NewOutboxMetrics registers the publisher metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	newVec := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, []string{"event_type"})
	}
	m := &OutboxMetrics{
		published:  newVec("foguel_outbox_published_total", "Outbox events published to the broker."),
		failed:     newVec("foguel_outbox_failed_total", "Outbox publish attempts that failed."),
		deadLetter: newVec("foguel_outbox_dead_lettered_total", "Outbox events moved to the DLQ."),
	}
	reg.MustRegister(m.published, m.failed, m.deadLetter)
	return m
}

func (m *OutboxMetrics) IncPublished(eventType string) {
	if m != nil {
		inc(m.published, eventType)
	}
}

func (m *OutboxMetrics) IncFailed(eventType string) {
	if m != nil {
		inc(m.failed, eventType)
	}
}

func (m *OutboxMetrics) IncDeadLettered(eventType string) {
	if m != nil {
		inc(m.deadLetter, eventType)
	}
}

func inc(vec *prometheus.CounterVec, eventType string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(normalizeLabel(eventType)).Inc()
}

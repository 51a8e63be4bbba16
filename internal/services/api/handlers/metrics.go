package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PromMetrics struct {
	logins        *prometheus.CounterVec
	registrations prometheus.Counter
}

// NewPromMetrics registers the account counters on reg.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	factory := promauto.With(reg)

	return &PromMetrics{
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amiigo_login_attempts_total",
			Help: "login attempts by outcome",
		}, []string{"outcome"}),
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "amiigo_registrations_total",
			Help: "accounts created",
		}),
	}
}

func (p *PromMetrics) login(outcome string) {
	if p == nil {
		return
	}
	p.logins.WithLabelValues(outcome).Inc()
}

func (p *PromMetrics) registered() {
	if p == nil {
		return
	}
	p.registrations.Inc()
}

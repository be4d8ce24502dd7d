package auth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Guard kinds and outcomes used as metric labels.
const (
	guardRoute     = "route"
	guardOperation = "operation"
	guardRole      = "role"

	outcomeAllowed = "allowed"
	outcomeDenied  = "denied"
)

var (
	// decisions is a singleton for the counter vec.
	decisions     *prometheus.CounterVec //nolint:gochecknoglobals
	decisionsOnce sync.Once              //nolint:gochecknoglobals
)

// decisionCounter registers the guard decision counter on first use.
func decisionCounter() *prometheus.CounterVec {
	decisionsOnce.Do(func() {
		decisions = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_guard_decisions_total",
				Help: "Number of guard decisions, differentiated by guard and outcome.",
			},
			[]string{"guard", "outcome"},
		)
	})

	return decisions
}

func observe(guard string, allowed bool) {
	outcome := outcomeDenied
	if allowed {
		outcome = outcomeAllowed
	}

	decisionCounter().WithLabelValues(guard, outcome).Inc()
}

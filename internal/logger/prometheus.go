package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const metricsNamespace = "itsm_authz"

var (
	registerOnce sync.Once //nolint:gochecknoglobals

	// logEvents counts written log events by level.
	logEvents *prometheus.CounterVec //nolint:gochecknoglobals

	// writeFailures counts events zerolog could not write.
	writeFailures prometheus.Counter //nolint:gochecknoglobals
)

// registerMetrics registers the logger metrics once per process. Later calls
// keep the service label of the first one.
func registerMetrics(service string) {
	registerOnce.Do(func() {
		labels := prometheus.Labels{"service": service}

		logEvents = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "log",
			Name:        "events_total",
			Help:        "Number of log events, by level.",
			ConstLabels: labels,
		}, []string{"level"})

		writeFailures = promauto.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "log",
			Name:        "write_failures_total",
			Help:        "Number of log events that could not be written.",
			ConstLabels: labels,
		})
	})
}

// levelHook counts every leveled event.
type levelHook struct{}

// Run implements zerolog.Hook.
func (levelHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	logEvents.WithLabelValues(level.String()).Inc()
}

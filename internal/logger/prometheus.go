package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	// statements counts log events per level, registered once per process.
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
	statementsOnce sync.Once              //nolint:gochecknoglobals
)

// PrometheusHook counts written log events by level.
type PrometheusHook struct {
	counter *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || h.counter == nil {
		return
	}

	h.counter.WithLabelValues(level.String()).Inc()
}

// NewPrometheusHook returns the hook exported as systeminfo_log_statements_total.
// The service label is fixed by the first call.
func NewPrometheusHook(service string) PrometheusHook {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "systeminfo_log_statements_total",
				Help:        "Number of log statements by level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return PrometheusHook{counter: statements}
}

package semantic

import (
	"errors"
	"time"

	"github.com/leapstack-labs/leapql/pkg/parser"
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels of the interpretations counter.
const (
	LabelSuccess       = "success"
	LabelParseError    = "parse_err"
	LabelSemanticError = "semantic_err"
	LabelStrictError   = "strict_err"
	LabelInternalError = "internal_err"
)

// Metrics holds the interpretation metrics. A nil *Metrics records nothing.
type Metrics struct {
	Interpretations *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	ImplicitJoins   prometheus.Counter
}

// NewMetrics creates the interpretation metrics.
func NewMetrics() *Metrics {
	const (
		namespace = "leapql"
		subsystem = "semantic"
	)

	return &Metrics{
		Interpretations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "interpretations_total",
			Help:      "Count of interpreted statements",
		}, []string{"kind", "result"}),

		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "interpretation_duration_seconds",
			Help:      "Histogram of times spent interpreting a statement",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 5, 7),
		}, []string{"result"}),

		ImplicitJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "implicit_joins_total",
			Help:      "Count of joins synthesized during path resolution",
		}),
	}
}

// PrometheusCollectors returns the collectors to register.
func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Interpretations,
		m.Duration,
		m.ImplicitJoins,
	}
}

// Observe records one interpretation of kind that started at start.
func (m *Metrics) Observe(kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultLabel(err)
	m.Interpretations.WithLabelValues(kind, result).Inc()
	m.Duration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

func (m *Metrics) implicitJoin() {
	if m == nil {
		return
	}
	m.ImplicitJoins.Inc()
}

// ResultLabel classifies the outcome of an interpretation.
func ResultLabel(err error) string {
	var (
		parseErr *parser.ParseError
		lexErr   *parser.LexError
		semErr   Error
	)
	switch {
	case err == nil:
		return LabelSuccess
	case errors.As(err, &parseErr), errors.As(err, &lexErr):
		return LabelParseError
	case IsStrictViolation(err, ""):
		return LabelStrictError
	case IsBuilderInvariant(err):
		return LabelInternalError
	case errors.As(err, &semErr):
		return LabelSemanticError
	default:
		return LabelInternalError
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what use cases report roster outcomes to.
type Recorder interface {
	ObserveValidation(kind string, violations []string, seconds float64)
	ObserveSynthesis(outcome string, attempts int)
	IncCatalogSync(outcome string)
}

var _ Recorder = (*Service)(nil)
var _ Recorder = Nop{}

// NewHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

type Service struct {
	Validations        *prometheus.CounterVec
	Violations         *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
	Syntheses          *prometheus.CounterVec
	SynthesisAttempts  prometheus.Histogram
	CatalogSyncs       *prometheus.CounterVec
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_validations_total",
			Help: "Roster validations by kind and result.",
		}, []string{"kind", "result"}),
		Violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_violations_total",
			Help: "Violation codes reported by roster validation.",
		}, []string{"kind", "code"}),
		ValidationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_validation_duration_seconds",
			Help:    "Duration of roster validation.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"kind"}),
		Syntheses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_syntheses_total",
			Help: "Random squad syntheses by outcome.",
		}, []string{"outcome"}),
		SynthesisAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_synthesis_attempts",
			Help:    "Random attempts spent per synthesis.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 600},
		}),
		CatalogSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_catalog_syncs_total",
			Help: "Catalog synchronisations by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		s.Validations,
		s.Violations,
		s.ValidationDuration,
		s.Syntheses,
		s.SynthesisAttempts,
		s.CatalogSyncs,
	)

	return s
}

func (s *Service) ObserveValidation(kind string, violations []string, seconds float64) {
	result := "valid"
	if len(violations) > 0 {
		result = "invalid"
	}
	s.Validations.WithLabelValues(kind, result).Inc()
	for _, code := range violations {
		s.Violations.WithLabelValues(kind, code).Inc()
	}
	s.ValidationDuration.WithLabelValues(kind).Observe(seconds)
}

func (s *Service) ObserveSynthesis(outcome string, attempts int) {
	s.Syntheses.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		s.SynthesisAttempts.Observe(float64(attempts))
	}
}

func (s *Service) IncCatalogSync(outcome string) {
	s.CatalogSyncs.WithLabelValues(outcome).Inc()
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveValidation(string, []string, float64) {}
func (Nop) ObserveSynthesis(string, int)                {}
func (Nop) IncCatalogSync(string)                       {}

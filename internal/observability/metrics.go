package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for risk assessments.
type Metrics struct {
	Assessments          *prometheus.CounterVec // labels: category
	AssessmentRejections prometheus.Counter
	PM10Overrides        prometheus.Counter

	// Reading distribution per pollutant.
	ReadingConcentration *prometheus.HistogramVec // labels: pollutant={PM2.5,PM10}

	BreakpointsCustom prometheus.Gauge
}

// concentrationBuckets straddle the PM2.5 and PM10 tier bounds.
var concentrationBuckets = []float64{12, 35.4, 54, 55.4, 150.4, 154, 250.4, 254, 354, 424, 500}

// NewMetrics creates and registers all assessment metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "air_risk",
			Name:      "assessments_total",
			Help:      "Completed assessments by merged category.",
		}, []string{"category"}),
		AssessmentRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "air_risk",
			Name:      "assessment_rejections_total",
			Help:      "Assessments rejected by strict reading validation.",
		}),
		PM10Overrides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "air_risk",
			Name:      "pm10_overrides_total",
			Help:      "Assessments where the PM10 category was worse than the PM2.5 category.",
		}),
		ReadingConcentration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "air_risk",
			Name:      "reading_concentration",
			Help:      "Submitted concentrations in µg/m³.",
			Buckets:   concentrationBuckets,
		}, []string{"pollutant"}),
		BreakpointsCustom: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "air_risk",
			Name:      "breakpoints_custom",
			Help:      "1 when breakpoint tables were loaded from a file, 0 for built-in tables.",
		}),
	}

	prometheus.MustRegister(
		m.Assessments,
		m.AssessmentRejections,
		m.PM10Overrides,
		m.ReadingConcentration,
		m.BreakpointsCustom,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Assessments:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "air_risk", Name: "assessments_total"}, []string{"category"}),
		AssessmentRejections: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "air_risk", Name: "assessment_rejections_total"}),
		PM10Overrides:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "air_risk", Name: "pm10_overrides_total"}),
		ReadingConcentration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "air_risk", Name: "reading_concentration", Buckets: concentrationBuckets}, []string{"pollutant"}),
		BreakpointsCustom:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "air_risk", Name: "breakpoints_custom"}),
	}
}

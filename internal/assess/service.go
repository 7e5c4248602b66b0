// Package assess turns a single analysis request into a risk report: one
// classification, the per-pollutant breakdown, and the advice for its score.
package assess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/air-quality-risk/internal/domain"
	"github.com/couchcryptid/air-quality-risk/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"
)

// ErrInvalidReading is returned in strict mode for negative or non-finite readings.
var ErrInvalidReading = errors.New("invalid reading")

// Request is one analysis event. PM10 is nil when the reading is absent.
type Request struct {
	Location string   `json:"location,omitempty"`
	PM25     float64  `json:"pm25"`
	PM10     *float64 `json:"pm10,omitempty"`
}

// PollutantResult is a single pollutant's own classification.
type PollutantResult struct {
	Pollutant domain.Pollutant `json:"pollutant"`
	Value     float64          `json:"value"`
	Category  domain.Category  `json:"category"`
}

// Report is the rendered outcome of one assessment.
type Report struct {
	ID       string `json:"id"`
	Location string `json:"location,omitempty"`
	domain.RiskAssessment
	Pollutants []PollutantResult `json:"pollutants"`
	AlertLevel domain.AlertLevel `json:"alert_level"`
	Actions    []string          `json:"actions"`
	AssessedAt time.Time         `json:"assessed_at"`
}

// Service classifies requests against a fixed set of breakpoint tables.
// It is safe for concurrent use.
type Service struct {
	classifier domain.Classifier
	logger     *slog.Logger
	metrics    *observability.Metrics
	strict     bool
	clock      clockwork.Clock
	entropy    io.Reader
}

// Option configures a Service.
type Option func(*Service)

// WithStrictReadings rejects negative and non-finite readings with ErrInvalidReading.
func WithStrictReadings(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// WithClock sets the time source for report timestamps and IDs.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService validates the classifier's tables and returns a Service.
// metrics may be nil for one-shot callers that do not export metrics.
func NewService(classifier domain.Classifier, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) (*Service, error) {
	if err := classifier.Validate(); err != nil {
		return nil, fmt.Errorf("breakpoint tables: %w", err)
	}
	s := &Service{
		classifier: classifier,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
		entropy:    ulid.DefaultEntropy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Assess classifies one request and builds its report.
func (s *Service) Assess(ctx context.Context, req Request) (Report, error) {
	if s.strict {
		if err := validateRequest(req); err != nil {
			if s.metrics != nil {
				s.metrics.AssessmentRejections.Inc()
			}
			return Report{}, err
		}
	}

	assessment := s.classifier.Assess(req.PM25, req.PM10)

	pm25Category, _ := s.classifier.ClassifyPM25(req.PM25)
	pollutants := []PollutantResult{{Pollutant: domain.PM25, Value: req.PM25, Category: pm25Category}}
	if req.PM10 != nil {
		pm10Category := s.classifier.ClassifyPM10(*req.PM10)
		pollutants = append(pollutants, PollutantResult{Pollutant: domain.PM10, Value: *req.PM10, Category: pm10Category})
		if pm10Category > pm25Category {
			s.logger.InfoContext(ctx, "pm10 category exceeds pm2.5, description reflects pm2.5 tier",
				"pm25_category", pm25Category.String(),
				"pm10_category", pm10Category.String(),
			)
			if s.metrics != nil {
				s.metrics.PM10Overrides.Inc()
			}
		}
	}

	now := s.clock.Now().UTC()
	report := Report{
		ID:             ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		Location:       strings.TrimSpace(req.Location),
		RiskAssessment: assessment,
		Pollutants:     pollutants,
		AlertLevel:     domain.AlertLevelFor(assessment.Score),
		Actions:        domain.Actions(assessment.Score),
		AssessedAt:     now,
	}

	s.record(report)
	s.logger.DebugContext(ctx, "assessment complete",
		"id", report.ID,
		"location", report.Location,
		"category", report.Category.String(),
		"score", report.Score,
	)
	return report, nil
}

// CheckReadiness reports whether the loaded tables are usable.
func (s *Service) CheckReadiness(_ context.Context) error {
	return s.classifier.Validate()
}

// Breakpoints returns a copy of the active tables.
func (s *Service) Breakpoints() domain.Classifier {
	c := s.classifier
	c.PM25.Tiers = slices.Clone(c.PM25.Tiers)
	c.PM10.Tiers = slices.Clone(c.PM10.Tiers)
	return c
}

func (s *Service) record(r Report) {
	if s.metrics == nil {
		return
	}
	s.metrics.Assessments.WithLabelValues(r.Category.String()).Inc()
	for _, p := range r.Pollutants {
		s.metrics.ReadingConcentration.WithLabelValues(string(p.Pollutant)).Observe(p.Value)
	}
}

func validateRequest(req Request) error {
	if err := validateReading(domain.PM25, req.PM25); err != nil {
		return err
	}
	if req.PM10 != nil {
		return validateReading(domain.PM10, *req.PM10)
	}
	return nil
}

func validateReading(p domain.Pollutant, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return fmt.Errorf("%w: %s must be finite", ErrInvalidReading, p)
	case v < 0:
		return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidReading, p, v)
	}
	return nil
}

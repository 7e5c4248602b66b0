package assess_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/air-quality-risk/internal/assess"
	"github.com/couchcryptid/air-quality-risk/internal/domain"
	"github.com/couchcryptid/air-quality-risk/internal/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 11, 3, 8, 30, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func newTestService(t *testing.T, opts ...assess.Option) (*assess.Service, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	opts = append([]assess.Option{assess.WithClock(clockwork.NewFakeClockAt(fixedTime))}, opts...)
	svc, err := assess.NewService(domain.DefaultClassifier(), slog.New(slog.NewTextHandler(io.Discard, nil)), metrics, opts...)
	require.NoError(t, err)
	return svc, metrics
}

func TestAssess_PM25Only(t *testing.T) {
	svc, metrics := newTestService(t)

	report, err := svc.Assess(context.Background(), assess.Request{Location: "  KL City Centre ", PM25: 10})
	require.NoError(t, err)

	want := assess.Report{
		Location: "KL City Centre",
		RiskAssessment: domain.RiskAssessment{
			Category:    domain.Good,
			Score:       0,
			Description: "Air quality is satisfactory. Minimal health risk.",
		},
		Pollutants: []assess.PollutantResult{{Pollutant: domain.PM25, Value: 10, Category: domain.Good}},
		AlertLevel: domain.AlertSuccess,
		Actions:    domain.Actions(0),
		AssessedAt: fixedTime,
	}
	if diff := cmp.Diff(want, report, cmpopts.IgnoreFields(assess.Report{}, "ID")); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Assessments.WithLabelValues("Good")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PM10Overrides), 0)
}

func TestAssess_PM10Override(t *testing.T) {
	svc, metrics := newTestService(t)

	report, err := svc.Assess(context.Background(), assess.Request{PM25: 35.0, PM10: ptr(400)})
	require.NoError(t, err)

	assert.Equal(t, domain.VeryUnhealthy, report.Category)
	assert.Equal(t, 4, report.Score)
	assert.Equal(t, "Air is acceptable, but sensitive groups may feel mild effects.", report.Description)
	assert.Equal(t, domain.AlertError, report.AlertLevel)
	assert.Equal(t, domain.Actions(4), report.Actions)
	assert.Equal(t, []assess.PollutantResult{
		{Pollutant: domain.PM25, Value: 35.0, Category: domain.Moderate},
		{Pollutant: domain.PM10, Value: 400, Category: domain.VeryUnhealthy},
	}, report.Pollutants)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PM10Overrides), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Assessments.WithLabelValues("Very Unhealthy")), 0)
}

func TestAssess_TieKeepsPM25(t *testing.T) {
	svc, metrics := newTestService(t)

	report, err := svc.Assess(context.Background(), assess.Request{PM25: 12, PM10: ptr(54)})
	require.NoError(t, err)

	assert.Equal(t, domain.Good, report.Category)
	assert.Equal(t, 0, report.Score)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PM10Overrides), 0)
}

func TestAssess_IDUsesClock(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Assess(context.Background(), assess.Request{PM25: 20})
	require.NoError(t, err)
	second, err := svc.Assess(context.Background(), assess.Request{PM25: 20})
	require.NoError(t, err)

	id, err := ulid.Parse(first.ID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixedTime), id.Time())
	assert.NotEqual(t, first.ID, second.ID)

	// Everything but the ID is deterministic.
	first.ID, second.ID = "", ""
	assert.Equal(t, first, second)
}

func TestAssess_PermissiveByDefault(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.Assess(context.Background(), assess.Request{PM25: -3, PM10: ptr(-1)})
	require.NoError(t, err)
	assert.Equal(t, domain.Good, report.Category)

	report, err = svc.Assess(context.Background(), assess.Request{PM25: math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, domain.Hazardous, report.Category)
}

func TestAssess_StrictReadings(t *testing.T) {
	svc, metrics := newTestService(t, assess.WithStrictReadings(true))

	tests := []struct {
		name    string
		req     assess.Request
		wantErr string
	}{
		{"negative pm25", assess.Request{PM25: -1}, "PM2.5 must not be negative"},
		{"NaN pm25", assess.Request{PM25: math.NaN()}, "PM2.5 must be finite"},
		{"infinite pm10", assess.Request{PM25: 5, PM10: ptr(math.Inf(1))}, "PM10 must be finite"},
		{"negative pm10", assess.Request{PM25: 5, PM10: ptr(-0.5)}, "PM10 must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Assess(context.Background(), tt.req)
			require.ErrorIs(t, err, assess.ErrInvalidReading)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.InDelta(t, float64(len(tests)), testutil.ToFloat64(metrics.AssessmentRejections), 0)

	report, err := svc.Assess(context.Background(), assess.Request{PM25: 0, PM10: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, domain.Good, report.Category)
}

func TestAssess_NilMetrics(t *testing.T) {
	svc, err := assess.NewService(domain.DefaultClassifier(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil,
		assess.WithStrictReadings(true))
	require.NoError(t, err)

	_, err = svc.Assess(context.Background(), assess.Request{PM25: 60, PM10: ptr(500)})
	require.NoError(t, err)
	_, err = svc.Assess(context.Background(), assess.Request{PM25: -60})
	require.Error(t, err)
}

func TestNewService_InvalidTables(t *testing.T) {
	c := domain.DefaultClassifier()
	c.PM10.Tiers = nil

	_, err := assess.NewService(c, slog.Default(), nil)
	require.ErrorIs(t, err, domain.ErrInvalidTable)
}

func TestCheckReadiness(t *testing.T) {
	svc, _ := newTestService(t)
	assert.NoError(t, svc.CheckReadiness(context.Background()))
}

func TestBreakpointsReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t)

	tables := svc.Breakpoints()
	assert.Equal(t, domain.DefaultClassifier(), tables)

	tables.PM25.Tiers[0].UpperBound = 999
	assert.InDelta(t, 12, svc.Breakpoints().PM25.Tiers[0].UpperBound, 0)
}

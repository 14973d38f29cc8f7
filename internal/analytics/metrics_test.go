package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studytracker/internal/analytics"
	"github.com/vytor/studytracker/internal/models"
)

func TestParseGrade(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		parsed bool
	}{
		{"95", 95, true},
		{" 88.5 ", 88.5, true},
		{"95%", 95, true},
		{"72/100", 72, true},
		{".5", 0.5, true},
		{"0", 0, true},
		{"", 0, false},
		{"A", 0, false},
		{"pending", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := analytics.ParseGrade(tt.in)
			assert.Equal(t, tt.parsed, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func enriched(name, grade string, seconds int64) models.EnrichedAssessment {
	return models.EnrichedAssessment{
		Assessment:            models.Assessment{Name: name, CategoryID: quizID, Grade: grade},
		CalculatedTimeSeconds: seconds,
	}
}

func TestEnrichMetrics(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	records := []models.EnrichedAssessment{
		enriched("one hour", "80", 3600),
		enriched("rounded", "90", 5400+100),
		enriched("no time", "70", 0),
		enriched("tiny", "60", 100),
		enriched("ungraded", "", 7200),
	}

	got := engine.EnrichMetrics(records)

	require.Len(t, got, 5)
	assert.Equal(t, 1.0, got[0].Hours)
	assert.Equal(t, 80.0, got[0].Efficiency)
	assert.True(t, got[0].Graded)

	assert.Equal(t, 1.5, got[1].Hours)
	assert.Equal(t, 60.0, got[1].Efficiency)

	assert.Equal(t, 0.0, got[2].Hours)
	assert.Equal(t, 0.0, got[2].Efficiency)

	assert.Equal(t, 0.0, got[3].Hours, "100s rounds to 0.0h")
	assert.Equal(t, 0.0, got[3].Efficiency)

	assert.False(t, got[4].Graded)
	assert.Equal(t, 0.0, got[4].NumericGrade)
	assert.Equal(t, 0.0, got[4].Efficiency)

	assert.Zero(t, records[0].Hours, "input must not be modified")
}

func TestAnalyze_FiltersUngraded(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())
	records := engine.EnrichMetrics([]models.EnrichedAssessment{
		enriched("Quiz 1", "80", 3600),
		enriched("Quiz 2", "90", 7200),
		enriched("zero, no time", "0", 0),
		enriched("graded, no time", "70", 0),
		enriched("blank", "", 3600),
	})

	got := engine.Analyze(records)

	require.Len(t, got.ScatterSeries, 3)
	assert.Equal(t, models.ScatterPoint{Hours: 1, Grade: 80, Label: "Quiz 1"}, got.ScatterSeries[0])
	assert.Equal(t, models.ScatterPoint{Hours: 0, Grade: 70, Label: "graded, no time"}, got.ScatterSeries[2])

	require.Len(t, got.EfficiencySeries, 3)
	assert.Equal(t, models.EfficiencyPoint{Name: "Quiz 2", Efficiency: 45}, got.EfficiencySeries[1])
	assert.Equal(t, models.EfficiencyPoint{Name: "graded, no time", Efficiency: 0}, got.EfficiencySeries[2])

	// (80 + 45 + 0) / 3
	assert.Equal(t, 41.7, got.AverageEfficiency)

	require.NotNil(t, got.Prediction, "zero-hour points are left out of the fit, two remain")
	assert.Equal(t, 2, got.Prediction.Points)
	assert.InDelta(t, 10.0, got.Prediction.Slope, 1e-9)
	assert.InDelta(t, 70.0, got.Prediction.Intercept, 1e-9)
}

func TestAnalyze_Empty(t *testing.T) {
	engine := analytics.New(analytics.DefaultConfig())

	got := engine.Analyze(nil)

	assert.NotNil(t, got.ScatterSeries)
	assert.NotNil(t, got.EfficiencySeries)
	assert.Empty(t, got.ScatterSeries)
	assert.Equal(t, 0.0, got.AverageEfficiency)
	assert.Nil(t, got.Prediction)
}

func TestAnalyze_ZeroIsScorePolicy(t *testing.T) {
	engine := analytics.New(analytics.Config{Policy: analytics.ZeroIsScore})
	records := engine.EnrichMetrics([]models.EnrichedAssessment{
		enriched("bombed", "0", 3600),
		enriched("blank", "", 3600),
	})

	got := engine.Analyze(records)

	require.Len(t, got.ScatterSeries, 1)
	assert.Equal(t, "bombed", got.ScatterSeries[0].Label)
}

func TestParsePolicy(t *testing.T) {
	p, err := analytics.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, analytics.ZeroIsUngraded, p)

	p, err = analytics.ParsePolicy("Zero-Is-Score")
	require.NoError(t, err)
	assert.Equal(t, analytics.ZeroIsScore, p)

	_, err = analytics.ParsePolicy("sometimes")
	assert.Error(t, err)
}

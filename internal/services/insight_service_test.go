package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhub/jobhub/internal/models"
)

func appWith(status string, appliedAt time.Time) models.Application {
	return models.Application{
		ApplicationID: models.NewID("app"),
		Status:        status,
		AppliedAt:     appliedAt,
	}
}

func TestSummarizeApplications(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	apps := []models.Application{
		appWith(models.StatusApplied, now.AddDate(0, 0, -1)),
		appWith(models.StatusApplied, now.AddDate(0, 0, -20)),
		appWith(models.StatusInterview, now.AddDate(0, 0, -3)),
		appWith(models.StatusOffer, now.AddDate(0, 0, -10)),
		appWith(models.StatusRejected, now.AddDate(0, 0, -15)),
	}

	summary := SummarizeApplications(apps, now)

	assert.Equal(t, 5, summary.TotalApplications)
	assert.Equal(t, 2, summary.ByStatus[models.StatusApplied])
	// interview + offer + rejected over total
	assert.Equal(t, 60.0, summary.ResponseRate)
	assert.Equal(t, 20.0, summary.InterviewRate)
	// offers over interviews + offers
	assert.Equal(t, 50.0, summary.OfferRate)
	assert.Equal(t, 2, summary.ThisWeek)
	assert.Equal(t, 2, summary.Pending)
	assert.Equal(t, 1, summary.Active)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := SummarizeApplications(nil, time.Now())

	assert.Equal(t, 0, summary.TotalApplications)
	assert.Equal(t, 0.0, summary.ResponseRate)
	assert.Equal(t, 0.0, summary.OfferRate)
}

func TestBuildTimeseriesWeek(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	apps := []models.Application{
		appWith(models.StatusApplied, now),
		appWith(models.StatusApplied, now),
		appWith(models.StatusApplied, now.AddDate(0, 0, -2)),
	}

	series := BuildTimeseries(apps, "week", now)

	assert.Equal(t, "week", series.Range)
	assert.Equal(t, "day", series.Interval)
	assert.Len(t, series.Data, 7)
	assert.Equal(t, 2, series.Data[6].Applications)
	assert.Equal(t, 1, series.Data[4].Applications)
	assert.Equal(t, "Aug 20", series.Data[6].Label)
}

func TestBuildTimeseriesUnknownRangeDefaultsToWeek(t *testing.T) {
	series := BuildTimeseries(nil, "fortnight", time.Now())
	assert.Equal(t, "week", series.Range)
	assert.Len(t, series.Data, 7)
}

func TestBuildTimeseriesYear(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	apps := []models.Application{
		appWith(models.StatusApplied, now.AddDate(0, -1, 0)),
	}

	series := BuildTimeseries(apps, "year", now)

	assert.Equal(t, "month", series.Interval)
	assert.Len(t, series.Data, 12)
	assert.Equal(t, 1, series.Data[10].Applications)
}

func TestBuildFunnel(t *testing.T) {
	apps := []models.Application{
		appWith(models.StatusApplied, time.Now()),
		appWith(models.StatusApplied, time.Now()),
		appWith(models.StatusInterview, time.Now()),
		appWith(models.StatusOffer, time.Now()),
	}

	funnel := BuildFunnel(apps)

	assert.Equal(t, "Applied", funnel.Stages[0].Name)
	assert.Equal(t, 4, funnel.Stages[0].Count)
	assert.Equal(t, 100.0, funnel.Stages[0].Percentage)

	// offers count as interviewed too
	assert.Equal(t, 2, funnel.Stages[1].Count)
	assert.Equal(t, 50.0, funnel.Stages[1].Percentage)

	assert.Equal(t, 1, funnel.Stages[2].Count)
	assert.Equal(t, 25.0, funnel.Stages[2].Percentage)
}

func TestBuildFunnelEmpty(t *testing.T) {
	funnel := BuildFunnel(nil)

	require.Len(t, funnel.Stages, 3)
	for _, stage := range funnel.Stages {
		assert.Zero(t, stage.Count)
		assert.Zero(t, stage.Percentage)
	}
}

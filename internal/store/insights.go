package store

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
)

// InsightsStore caches the dashboard aggregates.
type InsightsStore struct {
	state
	api *client.Client

	summary    *dtos.InsightsSummary
	timeseries *dtos.TimeseriesResponse
	funnel     *dtos.FunnelResponse
	table      *dtos.InsightsTable
}

func NewInsightsStore(api *client.Client) *InsightsStore {
	return &InsightsStore{api: api}
}

func (s *InsightsStore) Summary() *dtos.InsightsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *InsightsStore) Timeseries() *dtos.TimeseriesResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeseries
}

func (s *InsightsStore) Funnel() *dtos.FunnelResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.funnel
}

func (s *InsightsStore) Table() *dtos.InsightsTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

func (s *InsightsStore) FetchSummary(ctx context.Context) Result {
	s.begin()

	var summary dtos.InsightsSummary
	if err := s.api.Get(ctx, "/insights/summary", nil, &summary); err != nil {
		msg := client.ErrorMessage(err, "Failed to load insights")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.summary = &summary
	s.loading = false
	s.mu.Unlock()
	return ok()
}

func (s *InsightsStore) FetchTimeseries(ctx context.Context, rng string) Result {
	s.begin()

	q := url.Values{}
	if rng != "" {
		q.Set("range", rng)
	}
	var series dtos.TimeseriesResponse
	if err := s.api.Get(ctx, "/insights/timeseries", q, &series); err != nil {
		msg := client.ErrorMessage(err, "Failed to load insights")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.timeseries = &series
	s.loading = false
	s.mu.Unlock()
	return ok()
}

func (s *InsightsStore) FetchFunnel(ctx context.Context) Result {
	s.begin()

	var funnel dtos.FunnelResponse
	if err := s.api.Get(ctx, "/insights/funnel", nil, &funnel); err != nil {
		msg := client.ErrorMessage(err, "Failed to load insights")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.funnel = &funnel
	s.loading = false
	s.mu.Unlock()
	return ok()
}

func (s *InsightsStore) FetchTable(ctx context.Context, page, limit int) Result {
	s.begin()

	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var table dtos.InsightsTable
	if err := s.api.Get(ctx, "/insights/table", q, &table); err != nil {
		msg := client.ErrorMessage(err, "Failed to load insights")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.table = &table
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// FetchAll loads every dashboard panel for the given range. The first
// failure wins but the remaining panels are still attempted.
func (s *InsightsStore) FetchAll(ctx context.Context, rng string) Result {
	first := Result{Success: true}
	for _, r := range []Result{
		s.FetchSummary(ctx),
		s.FetchTimeseries(ctx, rng),
		s.FetchFunnel(ctx),
		s.FetchTable(ctx, 1, 20),
	} {
		if !r.Success && first.Success {
			first = r
		}
	}
	return first
}

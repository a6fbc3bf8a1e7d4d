package ranking

import (
	"context"
	"errors"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/components/random"
	"seomonitor-backend/internal/components/testutil"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/serp"
	"seomonitor-backend/internal/store"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedSource returns a fixed ranking or error per search term.
type scriptedSource struct {
	mu       sync.Mutex
	rankings map[string]int
	errs     map[string]error
	calls    []string
}

func (s *scriptedSource) Rank(ctx context.Context, item model.Trackable) (serp.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, item.Term())
	if err, ok := s.errs[item.Term()]; ok {
		return serp.Result{}, err
	}
	ranking, ok := s.rankings[item.Term()]
	if !ok {
		return serp.Result{}, nil
	}
	return serp.Result{Ranking: &ranking}, nil
}

type blockingSource struct{}

func (blockingSource) Rank(ctx context.Context, _ model.Trackable) (serp.Result, error) {
	<-ctx.Done()
	return serp.Result{}, ctx.Err()
}

func setup(t testing.TB) (store.Store, model.Website) {
	sqldb, _ := testutil.SetupDB(t)
	clock := testutil.NewClock(time.Date(2024, 8, 1, 9, 0, 0, 0, chrono.Taipei()))
	s := store.New(sqldb, clock, &testutil.Telemetry{})
	website, err := s.CreateWebsite(context.Background(), store.NewWebsite{
		UserID: "user-1",
		URL:    "https://example.com",
	})
	require.NoError(t, err)
	return s, website
}

func TestBatchPartialFailure(t *testing.T) {
	s, website := setup(t)
	ctx := context.Background()

	for _, term := range []string{"one", "two", "three"} {
		_, err := s.AddKeyword(ctx, website.ID, term)
		require.NoError(t, err)
	}

	source := &scriptedSource{
		rankings: map[string]int{"one": 3, "three": 12},
		errs:     map[string]error{"two": apperr.Upstream(503, errors.New("unavailable"))},
	}
	tel := &testutil.Telemetry{}
	updater := NewUpdater(s, source, Config{Concurrency: 2}, tel)

	results, err := updater.UpdateAll(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, StateUpdated, results[0].State)
	require.Equal(t, 3, *results[0].Ranking)

	require.Equal(t, StateFailed, results[1].State)
	require.True(t, apperr.IsUpstream(results[1].Err))
	require.NotEmpty(t, results[1].Error)

	require.Equal(t, StateUpdated, results[2].State)
	require.Equal(t, 12, *results[2].Ranking)

	keywords, err := s.ListKeywords(ctx, website.ID)
	require.NoError(t, err)
	require.Equal(t, 3, *keywords[0].CurrentRanking)
	require.Nil(t, keywords[1].CurrentRanking)
	require.Equal(t, 12, *keywords[2].CurrentRanking)

	history, err := s.History(ctx, keywords[1].Ref(), time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestUpdateEntityShiftsRanking(t *testing.T) {
	s, website := setup(t)
	ctx := context.Background()

	keyword, err := s.AddKeyword(ctx, website.ID, "coffee")
	require.NoError(t, err)
	_, err = s.RecordRanking(ctx, keyword.Ref(), store.Observation{Ranking: model.Rank(15)})
	require.NoError(t, err)

	source := &scriptedSource{rankings: map[string]int{"coffee": 8}}
	updater := NewUpdater(s, source, Config{}, &testutil.Telemetry{})

	result, err := updater.UpdateEntity(ctx, keyword.Ref())
	require.NoError(t, err)
	require.Equal(t, StateUpdated, result.State)
	require.Equal(t, 15, *result.Previous)
	require.Equal(t, 8, *result.Ranking)

	history, err := s.History(ctx, keyword.Ref(), time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 8, *history[1].Ranking)
}

func TestUpdateEntityErrors(t *testing.T) {
	s, website := setup(t)
	ctx := context.Background()

	updater := NewUpdater(s, &scriptedSource{}, Config{}, &testutil.Telemetry{})
	_, err := updater.UpdateEntity(ctx, model.EntityRef{Kind: model.KindKeyword, ID: 77})
	require.True(t, apperr.IsNotFound(err))

	keyword, err := s.AddKeyword(ctx, website.ID, "slow")
	require.NoError(t, err)

	updater = NewUpdater(s, blockingSource{}, Config{TimeoutSeconds: 1}, &testutil.Telemetry{})
	result, err := updater.UpdateEntity(ctx, keyword.Ref())
	require.True(t, apperr.IsUpstream(err))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, StateFailed, result.State)
}

func TestBatchCancelled(t *testing.T) {
	s, website := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	for _, term := range []string{"a", "b"} {
		_, err := s.AddKeyword(ctx, website.ID, term)
		require.NoError(t, err)
	}
	items, err := s.ListTrackablesForWebsite(ctx, website.ID)
	require.NoError(t, err)

	source := &scriptedSource{rankings: map[string]int{"a": 1, "b": 2}}
	updater := NewUpdater(s, source, Config{}, &testutil.Telemetry{})

	cancel()
	results := updater.Batch(ctx, items)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, StateFailed, r.State)
		require.ErrorIs(t, r.Err, context.Canceled)
	}
	require.Empty(t, source.calls)
}

func TestSimulatedSource(t *testing.T) {
	s, website := setup(t)
	ctx := context.Background()

	competitor, err := s.AddCompetitor(ctx, website.ID, "https://rival.com", "")
	require.NoError(t, err)
	_, err = s.AddCompetitorKeyword(ctx, competitor.ID, "coffee")
	require.NoError(t, err)
	_, err = s.AddKeyword(ctx, website.ID, "coffee")
	require.NoError(t, err)

	run := func(seed uint64) []Result {
		updater := NewUpdater(s, NewSimulatedSource(random.NewSeeded(seed), 0), Config{Concurrency: 1}, &testutil.Telemetry{})
		results, err := updater.UpdateWebsite(ctx, website.ID)
		require.NoError(t, err)
		return results
	}

	first := run(7)
	second := run(7)
	require.Len(t, first, 2)
	for i := range first {
		require.Equal(t, StateUpdated, first[i].State)
		require.GreaterOrEqual(t, *first[i].Ranking, 1)
		require.LessOrEqual(t, *first[i].Ranking, DefaultMaxSimulatedRanking)
		require.Equal(t, *first[i].Ranking, *second[i].Ranking)
		require.Equal(t, *first[i].Ranking, *second[i].Previous)
	}
	require.Equal(t, model.KindCompetitorKeyword, first[1].Ref.Kind)
}

func TestFetcherSource(t *testing.T) {
	provider := providerFunc(func(_ context.Context, q serp.Query) (serp.Results, error) {
		require.Equal(t, "coffee", q.Keyword)
		return serp.Results{Organic: []serp.Organic{{Position: 4, URL: "https://rival.com/menu"}}}, nil
	})
	source := NewFetcherSource(serp.NewFetcher(provider, &testutil.Telemetry{}))

	result, err := source.Rank(context.Background(), model.CompetitorKeyword{Text: "coffee", CompetitorURL: "rival.com"})
	require.NoError(t, err)
	require.Equal(t, 4, *result.Ranking)
}

type providerFunc func(ctx context.Context, q serp.Query) (serp.Results, error)

func (f providerFunc) Query(ctx context.Context, q serp.Query) (serp.Results, error) {
	return f(ctx, q)
}

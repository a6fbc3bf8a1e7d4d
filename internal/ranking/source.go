package ranking

import (
	"context"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/random"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/serp"
)

// Source produces a fresh ranking observation for a tracked entity.
//
// note: fault injection point
type Source interface {
	Rank(ctx context.Context, item model.Trackable) (serp.Result, error)
}

// FetcherSource looks rankings up in live search results.
type FetcherSource struct {
	fetcher serp.Fetcher
}

func NewFetcherSource(fetcher serp.Fetcher) FetcherSource {
	return FetcherSource{fetcher: fetcher}
}

func (s FetcherSource) Rank(ctx context.Context, item model.Trackable) (serp.Result, error) {
	return s.fetcher.FetchRanking(ctx, item.Term(), item.Target())
}

// DefaultMaxSimulatedRanking is the worst ranking SimulatedSource draws.
const DefaultMaxSimulatedRanking = 50

// SimulatedSource draws rankings uniformly from [1, max], it stands in for the search
// provider when no api key is configured.
type SimulatedSource struct {
	rand random.API
	max  int
}

func NewSimulatedSource(rand random.API, max int) SimulatedSource {
	assert.NotNil(rand)
	if max < 1 {
		max = DefaultMaxSimulatedRanking
	}
	return SimulatedSource{rand: rand, max: max}
}

func (s SimulatedSource) Rank(ctx context.Context, _ model.Trackable) (serp.Result, error) {
	if err := ctx.Err(); err != nil {
		return serp.Result{}, err
	}
	ranking := random.Between(s.rand, 1, s.max)
	return serp.Result{Ranking: &ranking}, nil
}

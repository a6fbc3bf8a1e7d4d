package serp

import (
	"context"
	"errors"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	results Results
	err     error
	queries []Query
}

func (s *stubProvider) Query(_ context.Context, query Query) (Results, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func TestFetchRanking(t *testing.T) {
	testCases := []struct {
		name    string
		results Results
		website string
		ranking *int
		volume  *int64
	}{
		{
			name: "first matching result wins",
			results: Results{
				Organic: []Organic{
					{Position: 1, URL: "https://other.org"},
					{Position: 2, URL: "https://blog.example.com/a"},
					{Position: 3, URL: "https://www.example.com"},
				},
				TotalResults: 900,
			},
			website: "https://www.example.com",
			ranking: intp(2),
			volume:  int64p(900),
		},
		{
			name: "not in results",
			results: Results{
				Organic: []Organic{{Position: 1, URL: "https://other.org"}},
			},
			website: "example.com",
		},
		{
			name: "missing position falls back to index",
			results: Results{
				Organic: []Organic{
					{URL: "https://other.org"},
					{URL: "not a url at all"},
					{URL: "https://example.com/x"},
				},
			},
			website: "example.com",
			ranking: intp(3),
		},
		{
			name:    "no results",
			website: "example.com",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			provider := &stubProvider{results: test.results}
			fetcher := NewFetcher(provider, &testutil.Telemetry{})

			result, err := fetcher.FetchRanking(context.Background(), "coffee", test.website)
			require.NoError(t, err)
			require.Equal(t, test.ranking, result.Ranking)
			require.Equal(t, test.volume, result.SearchVolume)

			require.Len(t, provider.queries, 1)
			require.Equal(t, Query{Keyword: "coffee", Locale: TaiwanChinese, Limit: 100}, provider.queries[0])
		})
	}
}

func TestFetchRankingUpstreamError(t *testing.T) {
	provider := &stubProvider{err: apperr.Upstream(500, errors.New("boom"))}
	tel := &testutil.Telemetry{}
	fetcher := NewFetcher(provider, tel)

	_, err := fetcher.FetchRanking(context.Background(), "coffee", "example.com")
	require.True(t, apperr.IsUpstream(err))
}

func intp(n int) *int {
	return &n
}

func int64p(n int64) *int64 {
	return &n
}

// Package serp finds where a website ranks for a keyword in search results.
package serp

import (
	"context"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/telemetry"
	"seomonitor-backend/internal/domainmatch"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/serp")

const report_fetcher_fetch_ranking = "fetcher.fetch-ranking"

// DefaultLimit is the number of results scanned, a website outside of it is unranked.
const DefaultLimit = 100

type Locale struct {
	Location string
	Language string
	Country  string
}

// TaiwanChinese is google.com.tw in traditional chinese.
var TaiwanChinese = Locale{
	Location: "Taiwan",
	Language: "zh-TW",
	Country:  "tw",
}

type Query struct {
	Keyword string
	Locale  Locale
	Limit   int
}

// Organic is a single organic search result, Position is 1-based and may be 0 when
// the provider omitted it.
type Organic struct {
	Position int
	URL      string
}

type Results struct {
	Organic      []Organic
	TotalResults int64
}

// Provider is the external search results capability.
//
// note: fault injection point
type Provider interface {
	Query(ctx context.Context, query Query) (Results, error)
}

// Result is the outcome of one ranking lookup, Ranking is nil when the website was not
// found within the scanned results.
type Result struct {
	Ranking      *int   `json:"ranking"`
	SearchVolume *int64 `json:"search_volume"`
}

type Fetcher struct {
	provider Provider
	locale   Locale
	limit    int
	tel      telemetry.API
}

func NewFetcher(provider Provider, tel telemetry.API) Fetcher {
	assert.NotNil(provider)
	assert.NotNil(tel)
	return Fetcher{
		provider: provider,
		locale:   TaiwanChinese,
		limit:    DefaultLimit,
		tel:      telemetry.NewScopedAPI("serp", tel),
	}
}

// FetchRanking issues one search for keyword and returns the position of the first
// result belonging to websiteURL's domain.
func (f Fetcher) FetchRanking(ctx context.Context, keyword, websiteURL string) (Result, error) {
	ctx, span := tracer.Start(ctx, "FetchRanking")
	defer span.End()
	span.SetAttributes(
		attribute.String("keyword", keyword),
		attribute.String("website_url", websiteURL),
	)

	results, err := f.provider.Query(ctx, Query{
		Keyword: keyword,
		Locale:  f.locale,
		Limit:   f.limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search query failed")
		f.tel.ReportWarning(report_fetcher_fetch_ranking, keyword, err)
		return Result{}, err
	}

	return Match(results, websiteURL), nil
}

// Match scans results in order and picks the first one on websiteURL's domain.
func Match(results Results, websiteURL string) Result {
	var out Result
	if results.TotalResults > 0 {
		volume := results.TotalResults
		out.SearchVolume = &volume
	}

	target := domainmatch.Normalize(websiteURL)
	for i, r := range results.Organic {
		if !domainmatch.IsSameDomain(r.URL, target) {
			continue
		}
		position := r.Position
		if position <= 0 {
			position = i + 1
		}
		out.Ranking = &position
		break
	}
	return out
}

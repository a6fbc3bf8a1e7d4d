// Package report generates scored SEO reports, renders them and sends them out.
package report

import (
	"context"
	"fmt"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/components/telemetry"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/ranking"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/report")

const (
	report_aggregator_generate         = "aggregator.generate"
	report_aggregator_score_competitor = "aggregator.score-competitor"
	report_aggregator_generate_due     = "aggregator.generate-due"
	report_aggregator_generated        = "aggregator.generated"
)

// Repository is the part of the storage capability reports are built from.
type Repository interface {
	GetWebsite(ctx context.Context, id int64) (model.Website, error)
	ListActiveWebsites(ctx context.Context) ([]model.Website, error)
	ListKeywords(ctx context.Context, websiteID int64) ([]model.Keyword, error)
	ListCompetitors(ctx context.Context, websiteID int64) ([]model.Competitor, error)
	ListCompetitorKeywords(ctx context.Context, websiteID int64) ([]model.CompetitorKeyword, error)
	UpdateCompetitorScores(ctx context.Context, id int64, scores model.Scores) error
	History(ctx context.Context, ref model.EntityRef, from, to time.Time) ([]model.HistoryPoint, error)
	InsertReport(ctx context.Context, websiteID int64, reportDate time.Time, scores model.Scores, data model.ReportData) (model.Report, error)
	LatestReport(ctx context.Context, websiteID int64) (model.Report, error)
}

// RankingUpdater refreshes every tracked entity of a website.
type RankingUpdater interface {
	UpdateWebsite(ctx context.Context, websiteID int64) ([]ranking.Result, error)
}

type Aggregator struct {
	repo     Repository
	updater  RankingUpdater
	analyzer Analyzer
	time     chrono.TimeAPI
	tel      telemetry.API
}

func NewAggregator(repo Repository, updater RankingUpdater, analyzer Analyzer, time chrono.TimeAPI, tel telemetry.API) Aggregator {
	assert.NotNil(repo)
	assert.NotNil(updater)
	assert.NotNil(analyzer)
	assert.NotNil(time)
	assert.NotNil(tel)
	return Aggregator{
		repo:     repo,
		updater:  updater,
		analyzer: analyzer,
		time:     time,
		tel:      telemetry.NewScopedAPI("report", tel),
	}
}

// Generate refreshes the rankings of a website, scores it and its competitors and
// persists a new report. Ranking failures are counted in the report, not returned.
func (a Aggregator) Generate(ctx context.Context, websiteID int64) (model.Report, error) {
	ctx, span := tracer.Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(attribute.Int64("website_id", websiteID))

	fail := func(err error, msg string) (model.Report, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		return model.Report{}, err
	}

	website, err := a.repo.GetWebsite(ctx, websiteID)
	if err != nil {
		return fail(err, "failed to get website")
	}

	results, err := a.updater.UpdateWebsite(ctx, website.ID)
	if err != nil {
		a.tel.ReportBroken(report_aggregator_generate, website.ID, err)
		return fail(err, "failed to update rankings")
	}
	var updated, failed int
	for _, r := range results {
		if r.State == ranking.StateUpdated {
			updated++
		} else {
			failed++
		}
	}

	keywords, err := a.repo.ListKeywords(ctx, website.ID)
	if err != nil {
		return fail(err, "failed to list keywords")
	}
	competitors, err := a.repo.ListCompetitors(ctx, website.ID)
	if err != nil {
		return fail(err, "failed to list competitors")
	}
	competitorKeywords, err := a.repo.ListCompetitorKeywords(ctx, website.ID)
	if err != nil {
		return fail(err, "failed to list competitor keywords")
	}

	scores, err := a.score(ctx, website.URL)
	if err != nil {
		a.tel.ReportBroken(report_aggregator_generate, website.ID, err)
		return fail(err, "failed to score website")
	}
	for _, c := range competitors {
		competitorScores, err := a.score(ctx, c.URL)
		if err != nil {
			a.tel.ReportWarning(report_aggregator_score_competitor, c.ID, err)
			continue
		}
		err = a.repo.UpdateCompetitorScores(ctx, c.ID, competitorScores)
		if err != nil {
			a.tel.ReportWarning(report_aggregator_score_competitor, c.ID, err)
		}
	}

	now := a.time.Now()
	report, err := a.repo.InsertReport(ctx, website.ID, chrono.StartOfDay(now), scores, model.ReportData{
		KeywordsCount:           len(keywords),
		CompetitorsCount:        len(competitors),
		CompetitorKeywordsCount: len(competitorKeywords),
		RankingsUpdated:         updated,
		RankingsFailed:          failed,
		GeneratedAt:             now,
	})
	if err != nil {
		a.tel.ReportBroken(report_aggregator_generate, website.ID, err)
		return fail(err, "failed to insert report")
	}
	span.SetAttributes(attribute.Int64("report_id", report.ID))
	return report, nil
}

func (a Aggregator) score(ctx context.Context, url string) (model.Scores, error) {
	scores, err := a.analyzer.ScoreWebsite(ctx, url)
	if err != nil {
		return model.Scores{}, err
	}
	err = scores.Validate()
	if err != nil {
		return model.Scores{}, fmt.Errorf("analyzer returned invalid scores for %s: %w", url, err)
	}
	return scores, nil
}

// LatestReport is the most recently created report of a website, calling it again
// without generating in between returns the same report.
func (a Aggregator) LatestReport(ctx context.Context, websiteID int64) (model.Report, error) {
	_, err := a.repo.GetWebsite(ctx, websiteID)
	if err != nil {
		return model.Report{}, err
	}
	return a.repo.LatestReport(ctx, websiteID)
}

// IsDue reports whether a website with the given latest report (nil if it has none)
// should get a new one at now.
func IsDue(frequency model.Frequency, latest *model.Report, now time.Time) bool {
	if latest == nil {
		return true
	}
	last := latest.CreatedAt.In(now.Location())
	switch frequency {
	case model.FrequencyDaily:
		return last.Before(chrono.StartOfDay(now))
	case model.FrequencyMonthly:
		return !now.Before(last.AddDate(0, 1, 0))
	}
	return now.Sub(last) >= 7*24*time.Hour
}

// Deliver is called with every report GenerateDue creates.
type Deliver func(ctx context.Context, website model.Website, report model.Report) error

type WebsiteOutcome struct {
	WebsiteID int64  `json:"website_id"`
	Success   bool   `json:"success"`
	Skipped   bool   `json:"skipped,omitempty"`
	ReportID  int64  `json:"report_id,omitempty"`
	Sent      bool   `json:"sent,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GenerateDue generates a report for every active website that is due one and hands
// it to deliver if it isn't nil. A website failing does not stop the others.
func (a Aggregator) GenerateDue(ctx context.Context, deliver Deliver) ([]WebsiteOutcome, error) {
	ctx, span := tracer.Start(ctx, "GenerateDue")
	defer span.End()

	websites, err := a.repo.ListActiveWebsites(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list websites")
		return nil, err
	}

	outcomes := make([]WebsiteOutcome, 0, len(websites))
	var generated int64
	for _, website := range websites {
		if ctx.Err() != nil {
			outcomes = append(outcomes, WebsiteOutcome{WebsiteID: website.ID, Error: ctx.Err().Error()})
			continue
		}
		outcome := a.generateIfDue(ctx, website, deliver)
		if outcome.Success && !outcome.Skipped {
			generated++
		}
		outcomes = append(outcomes, outcome)
	}
	a.tel.ReportCount(report_aggregator_generated, generated)
	return outcomes, nil
}

func (a Aggregator) generateIfDue(ctx context.Context, website model.Website, deliver Deliver) WebsiteOutcome {
	outcome := WebsiteOutcome{WebsiteID: website.ID}

	var latest *model.Report
	report, err := a.repo.LatestReport(ctx, website.ID)
	switch {
	case err == nil:
		latest = &report
	case !apperr.IsNotFound(err):
		a.tel.ReportWarning(report_aggregator_generate_due, website.ID, err)
		outcome.Error = err.Error()
		return outcome
	}
	if !IsDue(website.Frequency, latest, a.time.Now()) {
		outcome.Success = true
		outcome.Skipped = true
		return outcome
	}

	report, err = a.Generate(ctx, website.ID)
	if err != nil {
		a.tel.ReportWarning(report_aggregator_generate_due, website.ID, err)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Success = true
	outcome.ReportID = report.ID

	if deliver == nil {
		return outcome
	}
	err = deliver(ctx, website, report)
	if err != nil {
		// the report stays persisted, only delivery failed
		a.tel.ReportWarning(report_aggregator_generate_due, website.ID, err)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Sent = true
	return outcome
}

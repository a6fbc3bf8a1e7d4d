package report

import (
	"context"
	"encoding/json"
	"errors"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/components/mail"
	"seomonitor-backend/internal/components/random"
	"seomonitor-backend/internal/components/testutil"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/ranking"
	"seomonitor-backend/internal/serp"
	"seomonitor-backend/internal/store"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []mail.Message
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixedSource struct {
	ranking int
	failOn  string
}

func (s fixedSource) Rank(_ context.Context, item model.Trackable) (serp.Result, error) {
	if item.Term() == s.failOn {
		return serp.Result{}, apperr.Upstream(500, errors.New("boom"))
	}
	r := s.ranking
	return serp.Result{Ranking: &r}, nil
}

type fixedAnalyzer struct {
	scores model.Scores
}

func (a fixedAnalyzer) ScoreWebsite(context.Context, string) (model.Scores, error) {
	return a.scores, nil
}

type fixture struct {
	store      store.Store
	clock      *testutil.Clock
	tel        *testutil.Telemetry
	mailer     *fakeMailer
	aggregator Aggregator
	dispatcher Dispatcher
}

func setup(t testing.TB, source ranking.Source, analyzer Analyzer) fixture {
	sqldb, _ := testutil.SetupDB(t)
	clock := testutil.NewClock(time.Date(2024, 8, 1, 9, 0, 0, 0, chrono.Taipei()))
	tel := &testutil.Telemetry{}
	s := store.New(sqldb, clock, tel)
	updater := ranking.NewUpdater(s, source, ranking.Config{Concurrency: 2}, tel)
	mailer := &fakeMailer{}
	return fixture{
		store:      s,
		clock:      clock,
		tel:        tel,
		mailer:     mailer,
		aggregator: NewAggregator(s, updater, analyzer, clock, tel),
		dispatcher: NewDispatcher(s, mailer, DispatchConfig{DefaultRecipient: "fallback@example.com"}, clock, tel),
	}
}

func (f fixture) website(t testing.TB, email string, frequency model.Frequency) model.Website {
	website, err := f.store.CreateWebsite(context.Background(), store.NewWebsite{
		UserID:            "user-1",
		URL:               "https://example.com",
		Name:              "Example",
		NotificationEmail: email,
		Frequency:         frequency,
	})
	require.NoError(t, err)
	return website
}

func TestSimulatedAnalyzerRanges(t *testing.T) {
	analyzer := NewSimulatedAnalyzer(random.NewSeeded(1))
	for i := 0; i < 500; i++ {
		scores, err := analyzer.ScoreWebsite(context.Background(), "https://example.com")
		require.NoError(t, err)
		require.NoError(t, scores.Validate())
		require.GreaterOrEqual(t, scores.Overall, SimulatedOverallMin)
		require.LessOrEqual(t, scores.Overall, SimulatedOverallMax)
		require.GreaterOrEqual(t, scores.Speed, SimulatedSpeedMin)
		require.LessOrEqual(t, scores.Speed, SimulatedSpeedMax)
		require.GreaterOrEqual(t, scores.Backlinks, SimulatedBacklinksMin)
		require.LessOrEqual(t, scores.Backlinks, SimulatedBacklinksMax)
		require.GreaterOrEqual(t, scores.StructureIssues, SimulatedIssuesMin)
		require.LessOrEqual(t, scores.StructureIssues, SimulatedIssuesMax)
	}

	a, _ := NewSimulatedAnalyzer(random.NewSeeded(9)).ScoreWebsite(context.Background(), "")
	b, _ := NewSimulatedAnalyzer(random.NewSeeded(9)).ScoreWebsite(context.Background(), "")
	require.Equal(t, a, b)
}

func TestGenerateEmptyWebsite(t *testing.T) {
	f := setup(t, fixedSource{ranking: 1}, NewSimulatedAnalyzer(random.NewSeeded(3)))
	ctx := context.Background()
	website := f.website(t, "owner@example.com", "")

	report, err := f.aggregator.Generate(ctx, website.ID)
	require.NoError(t, err)
	require.NotZero(t, report.ID)
	require.NoError(t, report.Scores.Validate())
	require.GreaterOrEqual(t, report.Scores.Overall, SimulatedOverallMin)
	require.Zero(t, report.Data.KeywordsCount)
	require.Zero(t, report.Data.CompetitorsCount)
	require.Zero(t, report.Data.CompetitorKeywordsCount)
	require.True(t, f.clock.Now().Equal(report.Data.GeneratedAt))

	latest, err := f.aggregator.LatestReport(ctx, website.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, latest.ID)

	payload, err := json.Marshal(latest.Data)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"keywords_count":0`)
	require.Contains(t, string(payload), `"competitors_count":0`)

	result, err := f.dispatcher.SendLatest(ctx, website.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, result.ReportID)
	require.Len(t, f.mailer.sent, 1)
	require.Contains(t, f.mailer.sent[0].HTML, "無關鍵字數據")
}

func TestGenerateRefreshesRankings(t *testing.T) {
	scores := model.Scores{Overall: 90, Speed: 85, Backlinks: 300, StructureIssues: 1}
	f := setup(t, fixedSource{ranking: 8, failOn: "broken"}, fixedAnalyzer{scores: scores})
	ctx := context.Background()
	website := f.website(t, "owner@example.com", model.FrequencyWeekly)

	keyword, err := f.store.AddKeyword(ctx, website.ID, "coffee")
	require.NoError(t, err)
	_, err = f.store.RecordRanking(ctx, keyword.Ref(), store.Observation{Ranking: model.Rank(15)})
	require.NoError(t, err)
	_, err = f.store.AddKeyword(ctx, website.ID, "broken")
	require.NoError(t, err)
	competitor, err := f.store.AddCompetitor(ctx, website.ID, "https://rival.com", "Rival")
	require.NoError(t, err)
	_, err = f.store.AddCompetitorKeyword(ctx, competitor.ID, "coffee")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	report, err := f.aggregator.Generate(ctx, website.ID)
	require.NoError(t, err)
	require.Equal(t, scores, report.Scores)
	require.Equal(t, 2, report.Data.KeywordsCount)
	require.Equal(t, 1, report.Data.CompetitorsCount)
	require.Equal(t, 1, report.Data.CompetitorKeywordsCount)
	require.Equal(t, 2, report.Data.RankingsUpdated)
	require.Equal(t, 1, report.Data.RankingsFailed)

	keywords, err := f.store.ListKeywords(ctx, website.ID)
	require.NoError(t, err)
	direction, change := Trend(keywords[0].PreviousRanking, keywords[0].CurrentRanking)
	require.Equal(t, DirectionUp, direction)
	require.Equal(t, 7, change)

	got, err := f.store.GetCompetitor(ctx, competitor.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Scores)
	require.Equal(t, 90, got.Scores.Overall)
	require.NotNil(t, got.LastCheckedAt)
}

func TestGenerateNotFound(t *testing.T) {
	f := setup(t, fixedSource{ranking: 1}, fixedAnalyzer{})
	_, err := f.aggregator.Generate(context.Background(), 404)
	require.True(t, apperr.IsNotFound(err))
}

func TestGenerateRejectsInvalidScores(t *testing.T) {
	f := setup(t, fixedSource{ranking: 1}, fixedAnalyzer{scores: model.Scores{Overall: 120}})
	website := f.website(t, "owner@example.com", "")

	_, err := f.aggregator.Generate(context.Background(), website.ID)
	require.Error(t, err)
	_, err = f.store.LatestReport(context.Background(), website.ID)
	require.True(t, apperr.IsNotFound(err))
}

func TestSendLatestWithoutReport(t *testing.T) {
	f := setup(t, fixedSource{ranking: 1}, fixedAnalyzer{})
	website := f.website(t, "owner@example.com", "")

	_, err := f.dispatcher.SendLatest(context.Background(), website.ID)
	require.True(t, apperr.IsNotFound(err))
	require.Empty(t, f.mailer.sent)

	_, err = f.dispatcher.SendLatest(context.Background(), 404)
	require.True(t, apperr.IsNotFound(err))
	require.Empty(t, f.mailer.sent)
}

func TestSendLatestDeliveryError(t *testing.T) {
	f := setup(t, fixedSource{ranking: 1}, fixedAnalyzer{scores: model.Scores{Overall: 80, Speed: 80}})
	ctx := context.Background()
	website := f.website(t, "owner@example.com", "")

	report, err := f.aggregator.Generate(ctx, website.ID)
	require.NoError(t, err)

	f.mailer.err = errors.New("550 mailbox unavailable")
	_, err = f.dispatcher.SendLatest(ctx, website.ID)
	require.True(t, apperr.IsDelivery(err))

	var delivery apperr.DeliveryError
	require.True(t, errors.As(err, &delivery))
	require.Equal(t, "owner@example.com", delivery.Recipient)

	// the report is not rolled back
	latest, err := f.store.LatestReport(ctx, website.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, latest.ID)
}

func TestDispatchRecipients(t *testing.T) {
	f := setup(t, fixedSource{ranking: 1}, fixedAnalyzer{scores: model.Scores{Overall: 80, Speed: 80}})
	ctx := context.Background()
	website := f.website(t, "", "")

	_, err := f.aggregator.Generate(ctx, website.ID)
	require.NoError(t, err)
	result, err := f.dispatcher.SendLatest(ctx, website.ID)
	require.NoError(t, err)
	require.Equal(t, "fallback@example.com", result.Recipient)

	msg := f.mailer.sent[0]
	require.Equal(t, "SEO 監控報告 - Example", msg.Subject)
	require.NotEmpty(t, msg.Text)
	require.Len(t, msg.Attachments, 1)
	require.Equal(t, XLSXContentType, msg.Attachments[0].ContentType)

	_, err = f.dispatcher.Dispatch(ctx, Document{Subject: "s"}, "  ")
	require.True(t, apperr.IsValidation(err))
	require.Len(t, f.mailer.sent, 1)
}

func TestIsDue(t *testing.T) {
	now := time.Date(2024, 8, 15, 10, 0, 0, 0, chrono.Taipei())
	at := func(d time.Duration) *model.Report {
		return &model.Report{CreatedAt: now.Add(-d)}
	}

	testCases := []struct {
		name      string
		frequency model.Frequency
		latest    *model.Report
		expected  bool
	}{
		{name: "never generated", frequency: model.FrequencyMonthly, expected: true},
		{name: "daily, earlier today", frequency: model.FrequencyDaily, latest: at(2 * time.Hour), expected: false},
		{name: "daily, yesterday", frequency: model.FrequencyDaily, latest: at(11 * time.Hour), expected: true},
		{name: "weekly, 6 days", frequency: model.FrequencyWeekly, latest: at(6 * 24 * time.Hour), expected: false},
		{name: "weekly, 7 days", frequency: model.FrequencyWeekly, latest: at(7 * 24 * time.Hour), expected: true},
		{name: "monthly, 30 days", frequency: model.FrequencyMonthly, latest: at(30 * 24 * time.Hour), expected: false},
		{name: "monthly, 31 days", frequency: model.FrequencyMonthly, latest: at(31 * 24 * time.Hour), expected: true},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, IsDue(test.frequency, test.latest, now))
		})
	}
}

func TestGenerateDue(t *testing.T) {
	f := setup(t, fixedSource{ranking: 1}, fixedAnalyzer{scores: model.Scores{Overall: 80, Speed: 80}})
	ctx := context.Background()

	fresh := f.website(t, "a@example.com", model.FrequencyWeekly)
	stale := f.website(t, "b@example.com", model.FrequencyDaily)
	inactive := f.website(t, "c@example.com", model.FrequencyDaily)
	require.NoError(t, f.store.UpdateWebsiteSettings(ctx, inactive.ID, store.WebsiteSettings{
		Frequency: model.FrequencyDaily,
	}))

	_, err := f.aggregator.Generate(ctx, fresh.ID)
	require.NoError(t, err)
	_, err = f.aggregator.Generate(ctx, stale.ID)
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	outcomes, err := f.aggregator.GenerateDue(ctx, f.dispatcher.Deliver)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	require.Equal(t, fresh.ID, outcomes[0].WebsiteID)
	require.True(t, outcomes[0].Skipped)

	require.Equal(t, stale.ID, outcomes[1].WebsiteID)
	require.True(t, outcomes[1].Success)
	require.True(t, outcomes[1].Sent)
	require.NotZero(t, outcomes[1].ReportID)

	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, "b@example.com", f.mailer.sent[0].To)
}

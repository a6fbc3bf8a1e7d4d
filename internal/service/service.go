// Package service exposes the tracking and reporting pipeline to the outside world,
// over http and on a schedule.
package service

import (
	"context"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/telemetry"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/ranking"
	"seomonitor-backend/internal/report"
)

const (
	report_service_track     = "service.track"
	report_service_scheduled = "service.scheduled"
)

// Tracker is the ranking refresh capability.
type Tracker interface {
	UpdateEntity(ctx context.Context, ref model.EntityRef) (ranking.Result, error)
	UpdateAll(ctx context.Context) ([]ranking.Result, error)
}

// Reporter is the report generation capability.
type Reporter interface {
	Generate(ctx context.Context, websiteID int64) (model.Report, error)
	LatestReport(ctx context.Context, websiteID int64) (model.Report, error)
	GenerateDue(ctx context.Context, deliver report.Deliver) ([]report.WebsiteOutcome, error)
}

// Sender is the report delivery capability.
type Sender interface {
	SendLatest(ctx context.Context, websiteID int64) (report.DispatchResult, error)
	Deliver(ctx context.Context, website model.Website, report model.Report) error
}

type Service struct {
	tracker  Tracker
	reporter Reporter
	sender   Sender
	tel      telemetry.API
}

func NewService(tracker Tracker, reporter Reporter, sender Sender, tel telemetry.API) Service {
	assert.NotNil(tracker)
	assert.NotNil(reporter)
	assert.NotNil(sender)
	assert.NotNil(tel)
	return Service{
		tracker:  tracker,
		reporter: reporter,
		sender:   sender,
		tel:      telemetry.NewScopedAPI("service", tel),
	}
}

type TrackRequest struct {
	TrackingID int64            `json:"tracking_id"`
	Kind       model.EntityKind `json:"kind"`
	Manual     bool             `json:"manual"`
}

type TrackSummary struct {
	Results []ranking.Result `json:"results"`
	Updated int              `json:"updated"`
	Failed  int              `json:"failed"`
}

// TrackOne refreshes the entity named by req, it fails if the refresh did.
func (s Service) TrackOne(ctx context.Context, req TrackRequest) (ranking.Result, error) {
	if req.TrackingID <= 0 {
		return ranking.Result{}, apperr.Invalid("tracking_id", "required for manual tracking")
	}
	kind := req.Kind
	if kind == "" {
		kind = model.KindKeyword
	}
	if kind != model.KindKeyword && kind != model.KindCompetitorKeyword {
		return ranking.Result{}, apperr.Invalid("kind", "must be keyword or competitor_keyword")
	}
	return s.tracker.UpdateEntity(ctx, model.EntityRef{Kind: kind, ID: req.TrackingID})
}

// TrackAll refreshes every entity of every active website, individual failures are
// only reported in the summary.
func (s Service) TrackAll(ctx context.Context) (TrackSummary, error) {
	results, err := s.tracker.UpdateAll(ctx)
	if err != nil {
		s.tel.ReportBroken(report_service_track, err)
		return TrackSummary{}, err
	}
	summary := TrackSummary{Results: results}
	for _, r := range results {
		if r.State == ranking.StateUpdated {
			summary.Updated++
		} else {
			summary.Failed++
		}
	}
	return summary, nil
}

func (s Service) GenerateReport(ctx context.Context, websiteID int64) (model.Report, error) {
	if websiteID <= 0 {
		return model.Report{}, apperr.Invalid("website_id", "required")
	}
	return s.reporter.Generate(ctx, websiteID)
}

func (s Service) LatestReport(ctx context.Context, websiteID int64) (model.Report, error) {
	if websiteID <= 0 {
		return model.Report{}, apperr.Invalid("website_id", "required")
	}
	return s.reporter.LatestReport(ctx, websiteID)
}

func (s Service) SendReport(ctx context.Context, websiteID int64) (report.DispatchResult, error) {
	if websiteID <= 0 {
		return report.DispatchResult{}, apperr.Invalid("website_id", "required")
	}
	return s.sender.SendLatest(ctx, websiteID)
}

// Scheduled generates and sends the reports of every website that is due one.
func (s Service) Scheduled(ctx context.Context) ([]report.WebsiteOutcome, error) {
	outcomes, err := s.reporter.GenerateDue(ctx, s.sender.Deliver)
	if err != nil {
		s.tel.ReportBroken(report_service_scheduled, err)
		return nil, err
	}
	return outcomes, nil
}

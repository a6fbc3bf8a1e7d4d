package store

import (
	"context"
	"encoding/json"
	"fmt"
	"seomonitor-backend/internal/components/db"
	"seomonitor-backend/internal/model"
	"time"
)

func (s Store) reportFromRow(row db.SeoReport) model.Report {
	report := model.Report{
		ID:         row.ID,
		WebsiteID:  row.WebsiteID,
		ReportDate: fromMillis(row.ReportDate),
		Scores: model.Scores{
			Overall:         int(row.OverallScore),
			Speed:           int(row.SpeedScore),
			Backlinks:       int(row.BacklinksCount),
			StructureIssues: int(row.StructureIssuesCount),
		},
		CreatedAt: fromMillis(row.CreatedAt),
	}
	err := json.Unmarshal([]byte(row.ReportData), &report.Data)
	if err != nil {
		// the scores are still good, a broken payload only loses the counts
		s.tel.ReportBroken(report_store_decode_report, row.ID, err)
	}
	return report
}

// InsertReport persists a new report snapshot, reports are never updated in place.
func (s Store) InsertReport(ctx context.Context, websiteID int64, reportDate time.Time, scores model.Scores, data model.ReportData) (model.Report, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return model.Report{}, fmt.Errorf("encode report data: %w", err)
	}
	row, err := s.qry.CreateReport(ctx, db.CreateReportParams{
		WebsiteID:            websiteID,
		ReportDate:           reportDate.UnixMilli(),
		OverallScore:         int64(scores.Overall),
		SpeedScore:           int64(scores.Speed),
		BacklinksCount:       int64(scores.Backlinks),
		StructureIssuesCount: int64(scores.StructureIssues),
		ReportData:           string(payload),
		CreatedAt:            s.time.Now().UnixMilli(),
	})
	if err != nil {
		return model.Report{}, err
	}
	return s.reportFromRow(row), nil
}

// LatestReport is the report of a website with the greatest created_at, ties go to the
// one inserted last.
func (s Store) LatestReport(ctx context.Context, websiteID int64) (model.Report, error) {
	row, err := s.qry.GetLatestReport(ctx, websiteID)
	if err != nil {
		return model.Report{}, notFound(err, "report for website", websiteID)
	}
	return s.reportFromRow(row), nil
}

func (s Store) GetReport(ctx context.Context, id int64) (model.Report, error) {
	row, err := s.qry.GetReport(ctx, id)
	if err != nil {
		return model.Report{}, notFound(err, "report", id)
	}
	return s.reportFromRow(row), nil
}

// ListReports lists up to limit reports of a website, newest first.
func (s Store) ListReports(ctx context.Context, websiteID int64, limit int) ([]model.Report, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.qry.ListReports(ctx, db.ListReportsParams{
		WebsiteID: websiteID,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Report, len(rows))
	for i, row := range rows {
		out[i] = s.reportFromRow(row)
	}
	return out, nil
}

package db

import (
	"context"
)

const reportColumns = `id, website_id, report_date, overall_score, speed_score, backlinks_count, structure_issues_count, report_data, created_at`

func scanReport(row interface{ Scan(...any) error }) (SeoReport, error) {
	var i SeoReport
	err := row.Scan(
		&i.ID,
		&i.WebsiteID,
		&i.ReportDate,
		&i.OverallScore,
		&i.SpeedScore,
		&i.BacklinksCount,
		&i.StructureIssuesCount,
		&i.ReportData,
		&i.CreatedAt,
	)
	return i, err
}

const createReport = `-- name: CreateReport :one
INSERT INTO seo_reports (
    website_id, report_date, overall_score, speed_score,
    backlinks_count, structure_issues_count, report_data, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + reportColumns

type CreateReportParams struct {
	WebsiteID            int64
	ReportDate           int64
	OverallScore         int64
	SpeedScore           int64
	BacklinksCount       int64
	StructureIssuesCount int64
	ReportData           string
	CreatedAt            int64
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (SeoReport, error) {
	row := q.db.QueryRowContext(ctx, createReport,
		arg.WebsiteID,
		arg.ReportDate,
		arg.OverallScore,
		arg.SpeedScore,
		arg.BacklinksCount,
		arg.StructureIssuesCount,
		arg.ReportData,
		arg.CreatedAt,
	)
	return scanReport(row)
}

const getReport = `-- name: GetReport :one
SELECT ` + reportColumns + ` FROM seo_reports WHERE id = ?`

func (q *Queries) GetReport(ctx context.Context, id int64) (SeoReport, error) {
	row := q.db.QueryRowContext(ctx, getReport, id)
	return scanReport(row)
}

const getLatestReport = `-- name: GetLatestReport :one
SELECT ` + reportColumns + `
FROM seo_reports
WHERE website_id = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`

func (q *Queries) GetLatestReport(ctx context.Context, websiteID int64) (SeoReport, error) {
	row := q.db.QueryRowContext(ctx, getLatestReport, websiteID)
	return scanReport(row)
}

const listReports = `-- name: ListReports :many
SELECT ` + reportColumns + `
FROM seo_reports
WHERE website_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`

type ListReportsParams struct {
	WebsiteID int64
	Limit     int64
}

func (q *Queries) ListReports(ctx context.Context, arg ListReportsParams) ([]SeoReport, error) {
	rows, err := q.db.QueryContext(ctx, listReports, arg.WebsiteID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SeoReport
	for rows.Next() {
		i, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

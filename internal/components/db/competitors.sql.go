package db

import (
	"context"
	"database/sql"
)

const competitorColumns = `id, website_id, competitor_url, competitor_name, overall_score, speed_score, backlinks_count, last_checked_at, created_at`

func scanCompetitor(row interface{ Scan(...any) error }) (Competitor, error) {
	var i Competitor
	err := row.Scan(
		&i.ID,
		&i.WebsiteID,
		&i.CompetitorUrl,
		&i.CompetitorName,
		&i.OverallScore,
		&i.SpeedScore,
		&i.BacklinksCount,
		&i.LastCheckedAt,
		&i.CreatedAt,
	)
	return i, err
}

const createCompetitor = `-- name: CreateCompetitor :one
INSERT INTO competitors (website_id, competitor_url, competitor_name, created_at)
VALUES (?, ?, ?, ?)
RETURNING ` + competitorColumns

type CreateCompetitorParams struct {
	WebsiteID      int64
	CompetitorUrl  string
	CompetitorName sql.NullString
	CreatedAt      int64
}

func (q *Queries) CreateCompetitor(ctx context.Context, arg CreateCompetitorParams) (Competitor, error) {
	row := q.db.QueryRowContext(ctx, createCompetitor, arg.WebsiteID, arg.CompetitorUrl, arg.CompetitorName, arg.CreatedAt)
	return scanCompetitor(row)
}

const getCompetitor = `-- name: GetCompetitor :one
SELECT ` + competitorColumns + ` FROM competitors WHERE id = ?`

func (q *Queries) GetCompetitor(ctx context.Context, id int64) (Competitor, error) {
	row := q.db.QueryRowContext(ctx, getCompetitor, id)
	return scanCompetitor(row)
}

const listCompetitorsByWebsite = `-- name: ListCompetitorsByWebsite :many
SELECT ` + competitorColumns + ` FROM competitors WHERE website_id = ? ORDER BY id`

func (q *Queries) ListCompetitorsByWebsite(ctx context.Context, websiteID int64) ([]Competitor, error) {
	rows, err := q.db.QueryContext(ctx, listCompetitorsByWebsite, websiteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Competitor
	for rows.Next() {
		i, err := scanCompetitor(rows)
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

const updateCompetitorScores = `-- name: UpdateCompetitorScores :execrows
UPDATE competitors
SET overall_score = ?, speed_score = ?, backlinks_count = ?, last_checked_at = ?
WHERE id = ?`

type UpdateCompetitorScoresParams struct {
	OverallScore   int64
	SpeedScore     int64
	BacklinksCount int64
	LastCheckedAt  int64
	ID             int64
}

func (q *Queries) UpdateCompetitorScores(ctx context.Context, arg UpdateCompetitorScoresParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCompetitorScores,
		arg.OverallScore,
		arg.SpeedScore,
		arg.BacklinksCount,
		arg.LastCheckedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteCompetitor = `-- name: DeleteCompetitor :execrows
DELETE FROM competitors WHERE id = ?`

func (q *Queries) DeleteCompetitor(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCompetitor, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// TrackedCompetitorKeyword is a competitor keyword joined with the competitor it ranks for.
type TrackedCompetitorKeyword struct {
	CompetitorKeyword
	WebsiteID      int64
	CompetitorUrl  string
	CompetitorName sql.NullString
	IsActive       bool
}

const trackedCompetitorKeywordColumns = `ck.id, ck.competitor_id, ck.keyword, ck.current_ranking, ck.previous_ranking, ck.created_at, ck.updated_at, c.website_id, c.competitor_url, c.competitor_name, w.is_active`

const trackedCompetitorKeywordFrom = `
FROM competitor_keywords ck
JOIN competitors c ON c.id = ck.competitor_id
JOIN websites w ON w.id = c.website_id`

func scanTrackedCompetitorKeyword(row interface{ Scan(...any) error }) (TrackedCompetitorKeyword, error) {
	var i TrackedCompetitorKeyword
	err := row.Scan(
		&i.ID,
		&i.CompetitorID,
		&i.Keyword,
		&i.CurrentRanking,
		&i.PreviousRanking,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.WebsiteID,
		&i.CompetitorUrl,
		&i.CompetitorName,
		&i.IsActive,
	)
	return i, err
}

func (q *Queries) listTrackedCompetitorKeywords(ctx context.Context, query string, args ...any) ([]TrackedCompetitorKeyword, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TrackedCompetitorKeyword
	for rows.Next() {
		i, err := scanTrackedCompetitorKeyword(rows)
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

const createCompetitorKeyword = `-- name: CreateCompetitorKeyword :one
INSERT INTO competitor_keywords (competitor_id, keyword, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING id`

type CreateCompetitorKeywordParams struct {
	CompetitorID int64
	Keyword      string
	CreatedAt    int64
}

func (q *Queries) CreateCompetitorKeyword(ctx context.Context, arg CreateCompetitorKeywordParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createCompetitorKeyword, arg.CompetitorID, arg.Keyword, arg.CreatedAt, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getTrackedCompetitorKeyword = `-- name: GetTrackedCompetitorKeyword :one
SELECT ` + trackedCompetitorKeywordColumns + trackedCompetitorKeywordFrom + `
WHERE ck.id = ?`

func (q *Queries) GetTrackedCompetitorKeyword(ctx context.Context, id int64) (TrackedCompetitorKeyword, error) {
	row := q.db.QueryRowContext(ctx, getTrackedCompetitorKeyword, id)
	return scanTrackedCompetitorKeyword(row)
}

const listCompetitorKeywordsByWebsite = `-- name: ListCompetitorKeywordsByWebsite :many
SELECT ` + trackedCompetitorKeywordColumns + trackedCompetitorKeywordFrom + `
WHERE c.website_id = ?
ORDER BY ck.competitor_id, ck.id`

func (q *Queries) ListCompetitorKeywordsByWebsite(ctx context.Context, websiteID int64) ([]TrackedCompetitorKeyword, error) {
	return q.listTrackedCompetitorKeywords(ctx, listCompetitorKeywordsByWebsite, websiteID)
}

const listCompetitorKeywordsByCompetitor = `-- name: ListCompetitorKeywordsByCompetitor :many
SELECT ` + trackedCompetitorKeywordColumns + trackedCompetitorKeywordFrom + `
WHERE ck.competitor_id = ?
ORDER BY ck.id`

func (q *Queries) ListCompetitorKeywordsByCompetitor(ctx context.Context, competitorID int64) ([]TrackedCompetitorKeyword, error) {
	return q.listTrackedCompetitorKeywords(ctx, listCompetitorKeywordsByCompetitor, competitorID)
}

const listActiveCompetitorKeywords = `-- name: ListActiveCompetitorKeywords :many
SELECT ` + trackedCompetitorKeywordColumns + trackedCompetitorKeywordFrom + `
WHERE w.is_active = 1
ORDER BY ck.id`

func (q *Queries) ListActiveCompetitorKeywords(ctx context.Context) ([]TrackedCompetitorKeyword, error) {
	return q.listTrackedCompetitorKeywords(ctx, listActiveCompetitorKeywords)
}

const shiftCompetitorKeywordRanking = `-- name: ShiftCompetitorKeywordRanking :one
UPDATE competitor_keywords
SET previous_ranking = current_ranking, current_ranking = ?, updated_at = ?
WHERE id = ?
RETURNING previous_ranking`

// ShiftCompetitorKeywordRanking is ShiftKeywordRanking for competitor keywords.
func (q *Queries) ShiftCompetitorKeywordRanking(ctx context.Context, arg ShiftRankingParams) (sql.NullInt64, error) {
	row := q.db.QueryRowContext(ctx, shiftCompetitorKeywordRanking, arg.Ranking, arg.UpdatedAt, arg.ID)
	var previous sql.NullInt64
	err := row.Scan(&previous)
	return previous, err
}

const deleteCompetitorKeyword = `-- name: DeleteCompetitorKeyword :execrows
DELETE FROM competitor_keywords WHERE id = ?`

func (q *Queries) DeleteCompetitorKeyword(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCompetitorKeyword, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

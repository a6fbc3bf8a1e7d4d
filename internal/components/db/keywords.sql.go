package db

import (
	"context"
	"database/sql"
)

// TrackedKeyword is a keyword joined with the website it ranks for.
type TrackedKeyword struct {
	Keyword
	WebsiteUrl string
	IsActive   bool
}

const trackedKeywordColumns = `k.id, k.website_id, k.keyword, k.current_ranking, k.previous_ranking, k.created_at, k.updated_at, w.website_url, w.is_active`

func scanTrackedKeyword(row interface{ Scan(...any) error }) (TrackedKeyword, error) {
	var i TrackedKeyword
	err := row.Scan(
		&i.ID,
		&i.WebsiteID,
		&i.Keyword.Keyword,
		&i.CurrentRanking,
		&i.PreviousRanking,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.WebsiteUrl,
		&i.IsActive,
	)
	return i, err
}

func (q *Queries) listTrackedKeywords(ctx context.Context, query string, args ...any) ([]TrackedKeyword, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TrackedKeyword
	for rows.Next() {
		i, err := scanTrackedKeyword(rows)
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

const createKeyword = `-- name: CreateKeyword :one
INSERT INTO keywords (website_id, keyword, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING id`

type CreateKeywordParams struct {
	WebsiteID int64
	Keyword   string
	CreatedAt int64
}

func (q *Queries) CreateKeyword(ctx context.Context, arg CreateKeywordParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createKeyword, arg.WebsiteID, arg.Keyword, arg.CreatedAt, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getTrackedKeyword = `-- name: GetTrackedKeyword :one
SELECT ` + trackedKeywordColumns + `
FROM keywords k JOIN websites w ON w.id = k.website_id
WHERE k.id = ?`

func (q *Queries) GetTrackedKeyword(ctx context.Context, id int64) (TrackedKeyword, error) {
	row := q.db.QueryRowContext(ctx, getTrackedKeyword, id)
	return scanTrackedKeyword(row)
}

const listKeywordsByWebsite = `-- name: ListKeywordsByWebsite :many
SELECT ` + trackedKeywordColumns + `
FROM keywords k JOIN websites w ON w.id = k.website_id
WHERE k.website_id = ?
ORDER BY k.id`

func (q *Queries) ListKeywordsByWebsite(ctx context.Context, websiteID int64) ([]TrackedKeyword, error) {
	return q.listTrackedKeywords(ctx, listKeywordsByWebsite, websiteID)
}

const listActiveKeywords = `-- name: ListActiveKeywords :many
SELECT ` + trackedKeywordColumns + `
FROM keywords k JOIN websites w ON w.id = k.website_id
WHERE w.is_active = 1
ORDER BY k.id`

func (q *Queries) ListActiveKeywords(ctx context.Context) ([]TrackedKeyword, error) {
	return q.listTrackedKeywords(ctx, listActiveKeywords)
}

const shiftKeywordRanking = `-- name: ShiftKeywordRanking :one
UPDATE keywords
SET previous_ranking = current_ranking, current_ranking = ?, updated_at = ?
WHERE id = ?
RETURNING previous_ranking`

type ShiftRankingParams struct {
	Ranking   sql.NullInt64
	UpdatedAt int64
	ID        int64
}

// ShiftKeywordRanking moves current_ranking into previous_ranking and stores the new
// ranking in a single statement, it returns the ranking that became previous.
func (q *Queries) ShiftKeywordRanking(ctx context.Context, arg ShiftRankingParams) (sql.NullInt64, error) {
	row := q.db.QueryRowContext(ctx, shiftKeywordRanking, arg.Ranking, arg.UpdatedAt, arg.ID)
	var previous sql.NullInt64
	err := row.Scan(&previous)
	return previous, err
}

const deleteKeyword = `-- name: DeleteKeyword :execrows
DELETE FROM keywords WHERE id = ?`

func (q *Queries) DeleteKeyword(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteKeyword, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

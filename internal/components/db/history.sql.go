package db

import (
	"context"
	"database/sql"
)

const createRankingHistory = `-- name: CreateRankingHistory :one
INSERT INTO ranking_history (keyword_id, competitor_keyword_id, ranking, search_volume, checked_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

type CreateRankingHistoryParams struct {
	KeywordID           sql.NullInt64
	CompetitorKeywordID sql.NullInt64
	Ranking             sql.NullInt64
	SearchVolume        sql.NullInt64
	CheckedAt           int64
}

func (q *Queries) CreateRankingHistory(ctx context.Context, arg CreateRankingHistoryParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRankingHistory,
		arg.KeywordID,
		arg.CompetitorKeywordID,
		arg.Ranking,
		arg.SearchVolume,
		arg.CheckedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

type HistoryRangeParams struct {
	ID   int64
	From int64
	To   int64
}

func (q *Queries) listRankingHistory(ctx context.Context, query string, arg HistoryRangeParams) ([]RankingHistory, error) {
	rows, err := q.db.QueryContext(ctx, query, arg.ID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RankingHistory
	for rows.Next() {
		var i RankingHistory
		if err := rows.Scan(
			&i.ID,
			&i.KeywordID,
			&i.CompetitorKeywordID,
			&i.Ranking,
			&i.SearchVolume,
			&i.CheckedAt,
		); err != nil {
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

const listKeywordHistory = `-- name: ListKeywordHistory :many
SELECT id, keyword_id, competitor_keyword_id, ranking, search_volume, checked_at
FROM ranking_history
WHERE keyword_id = ? AND checked_at >= ? AND checked_at <= ?
ORDER BY checked_at, id`

func (q *Queries) ListKeywordHistory(ctx context.Context, arg HistoryRangeParams) ([]RankingHistory, error) {
	return q.listRankingHistory(ctx, listKeywordHistory, arg)
}

const listCompetitorKeywordHistory = `-- name: ListCompetitorKeywordHistory :many
SELECT id, keyword_id, competitor_keyword_id, ranking, search_volume, checked_at
FROM ranking_history
WHERE competitor_keyword_id = ? AND checked_at >= ? AND checked_at <= ?
ORDER BY checked_at, id`

func (q *Queries) ListCompetitorKeywordHistory(ctx context.Context, arg HistoryRangeParams) ([]RankingHistory, error) {
	return q.listRankingHistory(ctx, listCompetitorKeywordHistory, arg)
}

const lastKeywordCheckedAt = `-- name: LastKeywordCheckedAt :one
SELECT CAST(COALESCE(MAX(checked_at), 0) AS INTEGER)
FROM ranking_history
WHERE keyword_id = ?`

func (q *Queries) LastKeywordCheckedAt(ctx context.Context, keywordID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, lastKeywordCheckedAt, keywordID)
	var checkedAt int64
	err := row.Scan(&checkedAt)
	return checkedAt, err
}

const lastCompetitorKeywordCheckedAt = `-- name: LastCompetitorKeywordCheckedAt :one
SELECT CAST(COALESCE(MAX(checked_at), 0) AS INTEGER)
FROM ranking_history
WHERE competitor_keyword_id = ?`

func (q *Queries) LastCompetitorKeywordCheckedAt(ctx context.Context, competitorKeywordID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, lastCompetitorKeywordCheckedAt, competitorKeywordID)
	var checkedAt int64
	err := row.Scan(&checkedAt)
	return checkedAt, err
}

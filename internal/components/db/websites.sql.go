package db

import (
	"context"
	"database/sql"
)

const websiteColumns = `id, user_id, website_url, website_name, notification_email, report_frequency, is_active, created_at, updated_at`

func scanWebsite(row interface{ Scan(...any) error }) (Website, error) {
	var i Website
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.WebsiteUrl,
		&i.WebsiteName,
		&i.NotificationEmail,
		&i.ReportFrequency,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createWebsite = `-- name: CreateWebsite :one
INSERT INTO websites (user_id, website_url, website_name, notification_email, report_frequency, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + websiteColumns

type CreateWebsiteParams struct {
	UserID            string
	WebsiteUrl        string
	WebsiteName       sql.NullString
	NotificationEmail string
	ReportFrequency   string
	IsActive          bool
	CreatedAt         int64
}

func (q *Queries) CreateWebsite(ctx context.Context, arg CreateWebsiteParams) (Website, error) {
	row := q.db.QueryRowContext(ctx, createWebsite,
		arg.UserID,
		arg.WebsiteUrl,
		arg.WebsiteName,
		arg.NotificationEmail,
		arg.ReportFrequency,
		arg.IsActive,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanWebsite(row)
}

const getWebsite = `-- name: GetWebsite :one
SELECT ` + websiteColumns + ` FROM websites WHERE id = ?`

func (q *Queries) GetWebsite(ctx context.Context, id int64) (Website, error) {
	row := q.db.QueryRowContext(ctx, getWebsite, id)
	return scanWebsite(row)
}

func (q *Queries) listWebsites(ctx context.Context, query string, args ...any) ([]Website, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Website
	for rows.Next() {
		i, err := scanWebsite(rows)
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

const listActiveWebsites = `-- name: ListActiveWebsites :many
SELECT ` + websiteColumns + ` FROM websites WHERE is_active = 1 ORDER BY id`

func (q *Queries) ListActiveWebsites(ctx context.Context) ([]Website, error) {
	return q.listWebsites(ctx, listActiveWebsites)
}

const listWebsitesByUser = `-- name: ListWebsitesByUser :many
SELECT ` + websiteColumns + ` FROM websites WHERE user_id = ? ORDER BY id`

func (q *Queries) ListWebsitesByUser(ctx context.Context, userID string) ([]Website, error) {
	return q.listWebsites(ctx, listWebsitesByUser, userID)
}

const listAllWebsites = `-- name: ListAllWebsites :many
SELECT ` + websiteColumns + ` FROM websites ORDER BY id`

func (q *Queries) ListAllWebsites(ctx context.Context) ([]Website, error) {
	return q.listWebsites(ctx, listAllWebsites)
}

const updateWebsiteSettings = `-- name: UpdateWebsiteSettings :execrows
UPDATE websites
SET website_name = ?, notification_email = ?, report_frequency = ?, is_active = ?, updated_at = ?
WHERE id = ?`

type UpdateWebsiteSettingsParams struct {
	WebsiteName       sql.NullString
	NotificationEmail string
	ReportFrequency   string
	IsActive          bool
	UpdatedAt         int64
	ID                int64
}

func (q *Queries) UpdateWebsiteSettings(ctx context.Context, arg UpdateWebsiteSettingsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateWebsiteSettings,
		arg.WebsiteName,
		arg.NotificationEmail,
		arg.ReportFrequency,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteWebsite = `-- name: DeleteWebsite :execrows
DELETE FROM websites WHERE id = ?`

func (q *Queries) DeleteWebsite(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteWebsite, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

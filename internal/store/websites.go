package store

import (
	"context"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/db"
	"seomonitor-backend/internal/model"
	"strings"
)

type NewWebsite struct {
	UserID            string
	URL               string
	Name              string
	NotificationEmail string
	Frequency         model.Frequency
}

type WebsiteSettings struct {
	Name              string
	NotificationEmail string
	Frequency         model.Frequency
	Active            bool
}

func websiteFromRow(row db.Website) model.Website {
	return model.Website{
		ID:                row.ID,
		UserID:            row.UserID,
		URL:               row.WebsiteUrl,
		Name:              row.WebsiteName.String,
		NotificationEmail: row.NotificationEmail,
		Frequency:         model.Frequency(row.ReportFrequency),
		Active:            row.IsActive,
		CreatedAt:         fromMillis(row.CreatedAt),
		UpdatedAt:         fromMillis(row.UpdatedAt),
	}
}

func websitesFromRows(rows []db.Website) []model.Website {
	out := make([]model.Website, len(rows))
	for i, row := range rows {
		out[i] = websiteFromRow(row)
	}
	return out
}

func validFrequency(f model.Frequency) (model.Frequency, error) {
	parsed, err := model.ParseFrequency(string(f))
	if err != nil {
		return "", apperr.Invalid("report_frequency", err.Error())
	}
	return parsed, nil
}

func (s Store) CreateWebsite(ctx context.Context, in NewWebsite) (model.Website, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return model.Website{}, apperr.Invalid("website_url", "required")
	}
	frequency, err := validFrequency(in.Frequency)
	if err != nil {
		return model.Website{}, err
	}

	row, err := s.qry.CreateWebsite(ctx, db.CreateWebsiteParams{
		UserID:            in.UserID,
		WebsiteUrl:        url,
		WebsiteName:       nullString(strings.TrimSpace(in.Name)),
		NotificationEmail: strings.TrimSpace(in.NotificationEmail),
		ReportFrequency:   string(frequency),
		IsActive:          true,
		CreatedAt:         s.time.Now().UnixMilli(),
	})
	if err != nil {
		return model.Website{}, err
	}
	return websiteFromRow(row), nil
}

func (s Store) GetWebsite(ctx context.Context, id int64) (model.Website, error) {
	row, err := s.qry.GetWebsite(ctx, id)
	if err != nil {
		return model.Website{}, notFound(err, "website", id)
	}
	return websiteFromRow(row), nil
}

// ListWebsites lists the websites of a user, an empty userID lists every website.
func (s Store) ListWebsites(ctx context.Context, userID string) ([]model.Website, error) {
	var rows []db.Website
	var err error
	if userID == "" {
		rows, err = s.qry.ListAllWebsites(ctx)
	} else {
		rows, err = s.qry.ListWebsitesByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return websitesFromRows(rows), nil
}

func (s Store) ListActiveWebsites(ctx context.Context) ([]model.Website, error) {
	rows, err := s.qry.ListActiveWebsites(ctx)
	if err != nil {
		return nil, err
	}
	return websitesFromRows(rows), nil
}

func (s Store) UpdateWebsiteSettings(ctx context.Context, id int64, settings WebsiteSettings) error {
	frequency, err := validFrequency(settings.Frequency)
	if err != nil {
		return err
	}
	n, err := s.qry.UpdateWebsiteSettings(ctx, db.UpdateWebsiteSettingsParams{
		WebsiteName:       nullString(strings.TrimSpace(settings.Name)),
		NotificationEmail: strings.TrimSpace(settings.NotificationEmail),
		ReportFrequency:   string(frequency),
		IsActive:          settings.Active,
		UpdatedAt:         s.time.Now().UnixMilli(),
		ID:                id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("website", id)
	}
	return nil
}

// DeleteWebsite removes a website together with everything it owns.
func (s Store) DeleteWebsite(ctx context.Context, id int64) error {
	n, err := s.qry.DeleteWebsite(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("website", id)
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/db"
	"seomonitor-backend/internal/model"
	"strings"
)

func keywordFromRow(row db.TrackedKeyword) model.Keyword {
	return model.Keyword{
		ID:              row.ID,
		Website:         row.WebsiteID,
		Text:            row.Keyword.Keyword,
		WebsiteURL:      row.WebsiteUrl,
		CurrentRanking:  intPtr(row.CurrentRanking),
		PreviousRanking: intPtr(row.PreviousRanking),
		CreatedAt:       fromMillis(row.CreatedAt),
		UpdatedAt:       fromMillis(row.UpdatedAt),
	}
}

func competitorKeywordFromRow(row db.TrackedCompetitorKeyword) model.CompetitorKeyword {
	return model.CompetitorKeyword{
		ID:              row.ID,
		CompetitorID:    row.CompetitorID,
		Website:         row.WebsiteID,
		Text:            row.Keyword,
		CompetitorURL:   row.CompetitorUrl,
		CompetitorName:  row.CompetitorName.String,
		CurrentRanking:  intPtr(row.CurrentRanking),
		PreviousRanking: intPtr(row.PreviousRanking),
		CreatedAt:       fromMillis(row.CreatedAt),
		UpdatedAt:       fromMillis(row.UpdatedAt),
	}
}

func competitorFromRow(row db.Competitor) model.Competitor {
	c := model.Competitor{
		ID:        row.ID,
		WebsiteID: row.WebsiteID,
		URL:       row.CompetitorUrl,
		Name:      row.CompetitorName.String,
		CreatedAt: fromMillis(row.CreatedAt),
	}
	if row.OverallScore.Valid {
		c.Scores = &model.Scores{
			Overall:   int(row.OverallScore.Int64),
			Speed:     int(row.SpeedScore.Int64),
			Backlinks: int(row.BacklinksCount.Int64),
		}
	}
	if row.LastCheckedAt.Valid {
		checked := fromMillis(row.LastCheckedAt.Int64)
		c.LastCheckedAt = &checked
	}
	return c
}

func (s Store) AddKeyword(ctx context.Context, websiteID int64, text string) (model.Keyword, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Keyword{}, apperr.Invalid("keyword", "required")
	}
	_, err := s.qry.GetWebsite(ctx, websiteID)
	if err != nil {
		return model.Keyword{}, notFound(err, "website", websiteID)
	}

	id, err := s.qry.CreateKeyword(ctx, db.CreateKeywordParams{
		WebsiteID: websiteID,
		Keyword:   text,
		CreatedAt: s.time.Now().UnixMilli(),
	})
	if isUniqueViolation(err) {
		return model.Keyword{}, apperr.Invalid("keyword", fmt.Sprintf("%q is already tracked", text))
	}
	if err != nil {
		return model.Keyword{}, err
	}
	row, err := s.qry.GetTrackedKeyword(ctx, id)
	if err != nil {
		return model.Keyword{}, err
	}
	return keywordFromRow(row), nil
}

func (s Store) ListKeywords(ctx context.Context, websiteID int64) ([]model.Keyword, error) {
	rows, err := s.qry.ListKeywordsByWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Keyword, len(rows))
	for i, row := range rows {
		out[i] = keywordFromRow(row)
	}
	return out, nil
}

func (s Store) DeleteKeyword(ctx context.Context, id int64) error {
	n, err := s.qry.DeleteKeyword(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("keyword", id)
	}
	return nil
}

func (s Store) AddCompetitor(ctx context.Context, websiteID int64, url, name string) (model.Competitor, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.Competitor{}, apperr.Invalid("competitor_url", "required")
	}
	_, err := s.qry.GetWebsite(ctx, websiteID)
	if err != nil {
		return model.Competitor{}, notFound(err, "website", websiteID)
	}

	row, err := s.qry.CreateCompetitor(ctx, db.CreateCompetitorParams{
		WebsiteID:      websiteID,
		CompetitorUrl:  url,
		CompetitorName: nullString(strings.TrimSpace(name)),
		CreatedAt:      s.time.Now().UnixMilli(),
	})
	if err != nil {
		return model.Competitor{}, err
	}
	return competitorFromRow(row), nil
}

func (s Store) GetCompetitor(ctx context.Context, id int64) (model.Competitor, error) {
	row, err := s.qry.GetCompetitor(ctx, id)
	if err != nil {
		return model.Competitor{}, notFound(err, "competitor", id)
	}
	return competitorFromRow(row), nil
}

func (s Store) ListCompetitors(ctx context.Context, websiteID int64) ([]model.Competitor, error) {
	rows, err := s.qry.ListCompetitorsByWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Competitor, len(rows))
	for i, row := range rows {
		out[i] = competitorFromRow(row)
	}
	return out, nil
}

// UpdateCompetitorScores stores the latest analysis of a competitor, structure issues
// are only kept for the tracked website's own reports.
func (s Store) UpdateCompetitorScores(ctx context.Context, id int64, scores model.Scores) error {
	n, err := s.qry.UpdateCompetitorScores(ctx, db.UpdateCompetitorScoresParams{
		OverallScore:   int64(scores.Overall),
		SpeedScore:     int64(scores.Speed),
		BacklinksCount: int64(scores.Backlinks),
		LastCheckedAt:  s.time.Now().UnixMilli(),
		ID:             id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("competitor", id)
	}
	return nil
}

func (s Store) DeleteCompetitor(ctx context.Context, id int64) error {
	n, err := s.qry.DeleteCompetitor(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("competitor", id)
	}
	return nil
}

func (s Store) AddCompetitorKeyword(ctx context.Context, competitorID int64, text string) (model.CompetitorKeyword, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.CompetitorKeyword{}, apperr.Invalid("keyword", "required")
	}
	_, err := s.qry.GetCompetitor(ctx, competitorID)
	if err != nil {
		return model.CompetitorKeyword{}, notFound(err, "competitor", competitorID)
	}

	id, err := s.qry.CreateCompetitorKeyword(ctx, db.CreateCompetitorKeywordParams{
		CompetitorID: competitorID,
		Keyword:      text,
		CreatedAt:    s.time.Now().UnixMilli(),
	})
	if isUniqueViolation(err) {
		return model.CompetitorKeyword{}, apperr.Invalid("keyword", fmt.Sprintf("%q is already tracked", text))
	}
	if err != nil {
		return model.CompetitorKeyword{}, err
	}
	row, err := s.qry.GetTrackedCompetitorKeyword(ctx, id)
	if err != nil {
		return model.CompetitorKeyword{}, err
	}
	return competitorKeywordFromRow(row), nil
}

// ListCompetitorKeywords lists the keywords of every competitor of a website.
func (s Store) ListCompetitorKeywords(ctx context.Context, websiteID int64) ([]model.CompetitorKeyword, error) {
	rows, err := s.qry.ListCompetitorKeywordsByWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CompetitorKeyword, len(rows))
	for i, row := range rows {
		out[i] = competitorKeywordFromRow(row)
	}
	return out, nil
}

func (s Store) ListCompetitorKeywordsOf(ctx context.Context, competitorID int64) ([]model.CompetitorKeyword, error) {
	rows, err := s.qry.ListCompetitorKeywordsByCompetitor(ctx, competitorID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CompetitorKeyword, len(rows))
	for i, row := range rows {
		out[i] = competitorKeywordFromRow(row)
	}
	return out, nil
}

func (s Store) DeleteCompetitorKeyword(ctx context.Context, id int64) error {
	n, err := s.qry.DeleteCompetitorKeyword(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("competitor keyword", id)
	}
	return nil
}

// GetTrackable resolves a reference to whichever variant it points at.
func (s Store) GetTrackable(ctx context.Context, ref model.EntityRef) (model.Trackable, error) {
	switch ref.Kind {
	case model.KindKeyword:
		row, err := s.qry.GetTrackedKeyword(ctx, ref.ID)
		if err != nil {
			return nil, notFound(err, "keyword", ref.ID)
		}
		return keywordFromRow(row), nil
	case model.KindCompetitorKeyword:
		row, err := s.qry.GetTrackedCompetitorKeyword(ctx, ref.ID)
		if err != nil {
			return nil, notFound(err, "competitor keyword", ref.ID)
		}
		return competitorKeywordFromRow(row), nil
	}
	return nil, apperr.Invalid("kind", fmt.Sprintf("unknown entity kind %q", ref.Kind))
}

// ListActiveTrackables lists the keywords and competitor keywords of every active website.
func (s Store) ListActiveTrackables(ctx context.Context) ([]model.Trackable, error) {
	keywords, err := s.qry.ListActiveKeywords(ctx)
	if err != nil {
		return nil, err
	}
	competitorKeywords, err := s.qry.ListActiveCompetitorKeywords(ctx)
	if err != nil {
		return nil, err
	}
	return trackables(keywords, competitorKeywords), nil
}

func (s Store) ListTrackablesForWebsite(ctx context.Context, websiteID int64) ([]model.Trackable, error) {
	keywords, err := s.qry.ListKeywordsByWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	competitorKeywords, err := s.qry.ListCompetitorKeywordsByWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	return trackables(keywords, competitorKeywords), nil
}

func trackables(keywords []db.TrackedKeyword, competitorKeywords []db.TrackedCompetitorKeyword) []model.Trackable {
	out := make([]model.Trackable, 0, len(keywords)+len(competitorKeywords))
	for _, row := range keywords {
		out = append(out, keywordFromRow(row))
	}
	for _, row := range competitorKeywords {
		out = append(out, competitorKeywordFromRow(row))
	}
	return out
}

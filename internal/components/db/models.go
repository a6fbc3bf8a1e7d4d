package db

import (
	"database/sql"
)

type Website struct {
	ID                int64
	UserID            string
	WebsiteUrl        string
	WebsiteName       sql.NullString
	NotificationEmail string
	ReportFrequency   string
	IsActive          bool
	CreatedAt         int64
	UpdatedAt         int64
}

type Keyword struct {
	ID              int64
	WebsiteID       int64
	Keyword         string
	CurrentRanking  sql.NullInt64
	PreviousRanking sql.NullInt64
	CreatedAt       int64
	UpdatedAt       int64
}

type Competitor struct {
	ID             int64
	WebsiteID      int64
	CompetitorUrl  string
	CompetitorName sql.NullString
	OverallScore   sql.NullInt64
	SpeedScore     sql.NullInt64
	BacklinksCount sql.NullInt64
	LastCheckedAt  sql.NullInt64
	CreatedAt      int64
}

type CompetitorKeyword struct {
	ID              int64
	CompetitorID    int64
	Keyword         string
	CurrentRanking  sql.NullInt64
	PreviousRanking sql.NullInt64
	CreatedAt       int64
	UpdatedAt       int64
}

type RankingHistory struct {
	ID                  int64
	KeywordID           sql.NullInt64
	CompetitorKeywordID sql.NullInt64
	Ranking             sql.NullInt64
	SearchVolume        sql.NullInt64
	CheckedAt           int64
}

type SeoReport struct {
	ID                   int64
	WebsiteID            int64
	ReportDate           int64
	OverallScore         int64
	SpeedScore           int64
	BacklinksCount       int64
	StructureIssuesCount int64
	ReportData           string
	CreatedAt            int64
}

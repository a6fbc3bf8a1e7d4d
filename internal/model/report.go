package model

import (
	"fmt"
	"time"
)

// Bounds every analyzer must keep its scores within.
const (
	MinOverallScore   = 0
	MaxOverallScore   = 100
	MinSpeedScore     = 0
	MaxSpeedScore     = 100
	MinBacklinks      = 0
	MinStructureIssue = 0
)

type Scores struct {
	Overall         int `json:"overall_score"`
	Speed           int `json:"speed_score"`
	Backlinks       int `json:"backlinks_count"`
	StructureIssues int `json:"structure_issues_count"`
}

func (s Scores) Validate() error {
	if s.Overall < MinOverallScore || s.Overall > MaxOverallScore {
		return fmt.Errorf("overall score %d is outside [%d, %d]", s.Overall, MinOverallScore, MaxOverallScore)
	}
	if s.Speed < MinSpeedScore || s.Speed > MaxSpeedScore {
		return fmt.Errorf("speed score %d is outside [%d, %d]", s.Speed, MinSpeedScore, MaxSpeedScore)
	}
	if s.Backlinks < MinBacklinks {
		return fmt.Errorf("backlinks count %d is negative", s.Backlinks)
	}
	if s.StructureIssues < MinStructureIssue {
		return fmt.Errorf("structure issues count %d is negative", s.StructureIssues)
	}
	return nil
}

// ReportData is the open-ended payload persisted next to a report's scores.
type ReportData struct {
	KeywordsCount           int            `json:"keywords_count"`
	CompetitorsCount        int            `json:"competitors_count"`
	CompetitorKeywordsCount int            `json:"competitor_keywords_count"`
	RankingsUpdated         int            `json:"rankings_updated"`
	RankingsFailed          int            `json:"rankings_failed"`
	GeneratedAt             time.Time      `json:"generated_at"`
	Extra                   map[string]any `json:"extra,omitempty"`
}

type Report struct {
	ID         int64      `json:"id"`
	WebsiteID  int64      `json:"website_id"`
	ReportDate time.Time  `json:"report_date"`
	Scores     Scores     `json:"scores"`
	Data       ReportData `json:"report_data"`
	CreatedAt  time.Time  `json:"created_at"`
}

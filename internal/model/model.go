package model

import (
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency accepts the stored representation, an empty string means the default.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case "":
		return FrequencyWeekly, nil
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown report frequency %q", s)
}

type Website struct {
	ID                int64
	UserID            string
	URL               string
	Name              string
	NotificationEmail string
	Frequency         Frequency
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayName falls back to the url for websites registered without a name.
func (w Website) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}

type Competitor struct {
	ID            int64
	WebsiteID     int64
	URL           string
	Name          string
	Scores        *Scores
	LastCheckedAt *time.Time
	CreatedAt     time.Time
}

func (c Competitor) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.URL
}

type HistoryPoint struct {
	ID           int64
	Ref          EntityRef
	Ranking      *int
	SearchVolume *int64
	CheckedAt    time.Time
}

// Rank is a shorthand for taking the address of a ranking.
func Rank(n int) *int {
	return &n
}

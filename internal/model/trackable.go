package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type EntityKind string

const (
	KindKeyword           EntityKind = "keyword"
	KindCompetitorKeyword EntityKind = "competitor_keyword"
)

// EntityRef identifies one tracked entity regardless of its variant.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   int64      `json:"id"`
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// ParseEntityRef parses the output of EntityRef.String, a bare id is a keyword.
func ParseEntityRef(s string) (EntityRef, error) {
	kind, id, found := strings.Cut(s, ":")
	if !found {
		id = kind
		kind = string(KindKeyword)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return EntityRef{}, fmt.Errorf("parse entity id %q: %w", id, err)
	}
	switch EntityKind(kind) {
	case KindKeyword, KindCompetitorKeyword:
	default:
		return EntityRef{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return EntityRef{Kind: EntityKind(kind), ID: n}, nil
}

// Trackable is anything whose search ranking is observed over time, ranking update and
// trend computation only ever go through this.
type Trackable interface {
	Ref() EntityRef
	// Term is the search query the entity ranks for.
	Term() string
	// Target is the url whose domain is looked for in search results.
	Target() string
	// WebsiteID is the tracked website the entity ultimately belongs to.
	WebsiteID() int64
	Current() *int
	Previous() *int
}

type Keyword struct {
	ID              int64
	Website         int64
	Text            string
	WebsiteURL      string
	CurrentRanking  *int
	PreviousRanking *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (k Keyword) Ref() EntityRef   { return EntityRef{Kind: KindKeyword, ID: k.ID} }
func (k Keyword) Term() string     { return k.Text }
func (k Keyword) Target() string   { return k.WebsiteURL }
func (k Keyword) WebsiteID() int64 { return k.Website }
func (k Keyword) Current() *int    { return k.CurrentRanking }
func (k Keyword) Previous() *int   { return k.PreviousRanking }

type CompetitorKeyword struct {
	ID              int64
	CompetitorID    int64
	Website         int64
	Text            string
	CompetitorURL   string
	CompetitorName  string
	CurrentRanking  *int
	PreviousRanking *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (k CompetitorKeyword) Ref() EntityRef {
	return EntityRef{Kind: KindCompetitorKeyword, ID: k.ID}
}
func (k CompetitorKeyword) Term() string     { return k.Text }
func (k CompetitorKeyword) Target() string   { return k.CompetitorURL }
func (k CompetitorKeyword) WebsiteID() int64 { return k.Website }
func (k CompetitorKeyword) Current() *int    { return k.CurrentRanking }
func (k CompetitorKeyword) Previous() *int   { return k.PreviousRanking }

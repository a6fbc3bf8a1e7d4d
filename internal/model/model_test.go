package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEntityRef(t *testing.T) {
	ref, err := ParseEntityRef("competitor_keyword:12")
	require.NoError(t, err)
	require.Equal(t, EntityRef{Kind: KindCompetitorKeyword, ID: 12}, ref)

	ref, err = ParseEntityRef("5")
	require.NoError(t, err)
	require.Equal(t, EntityRef{Kind: KindKeyword, ID: 5}, ref)

	_, err = ParseEntityRef("website:1")
	require.Error(t, err)
	_, err = ParseEntityRef("keyword:abc")
	require.Error(t, err)

	require.Equal(t, "keyword:5", EntityRef{Kind: KindKeyword, ID: 5}.String())
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("")
	require.NoError(t, err)
	require.Equal(t, FrequencyWeekly, f)

	f, err = ParseFrequency("monthly")
	require.NoError(t, err)
	require.Equal(t, FrequencyMonthly, f)

	_, err = ParseFrequency("hourly")
	require.Error(t, err)
}

func TestScoresValidate(t *testing.T) {
	require.NoError(t, Scores{Overall: 100, Speed: 0, Backlinks: 0, StructureIssues: 0}.Validate())
	require.Error(t, Scores{Overall: 101}.Validate())
	require.Error(t, Scores{Speed: -1}.Validate())
	require.Error(t, Scores{Backlinks: -5}.Validate())
	require.Error(t, Scores{StructureIssues: -1}.Validate())
}

func TestTrackableVariants(t *testing.T) {
	items := []Trackable{
		Keyword{ID: 1, Website: 9, Text: "seo", WebsiteURL: "https://a.com", CurrentRanking: Rank(3)},
		CompetitorKeyword{ID: 1, Website: 9, Text: "seo", CompetitorURL: "https://b.com", PreviousRanking: Rank(4)},
	}
	require.Equal(t, KindKeyword, items[0].Ref().Kind)
	require.Equal(t, KindCompetitorKeyword, items[1].Ref().Kind)
	require.Equal(t, "https://b.com", items[1].Target())
	require.Equal(t, int64(9), items[1].WebsiteID())
	require.Equal(t, 3, *items[0].Current())
	require.Nil(t, items[0].Previous())
}

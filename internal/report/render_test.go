package report

import (
	"bytes"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/model"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleInput() Input {
	at := time.Date(2024, 8, 1, 9, 0, 0, 0, chrono.Taipei())
	keyword := model.Keyword{
		ID:              1,
		Website:         1,
		Text:            "台北 咖啡",
		CurrentRanking:  model.Rank(8),
		PreviousRanking: model.Rank(15),
	}
	ck := model.CompetitorKeyword{
		ID:              2,
		CompetitorID:    1,
		Website:         1,
		Text:            "台北 咖啡",
		CompetitorURL:   "https://rival.com",
		CurrentRanking:  model.Rank(5),
		PreviousRanking: model.Rank(2),
	}
	return Input{
		Website: model.Website{ID: 1, URL: "https://example.com", Name: "Example <Cafe>"},
		Report: model.Report{
			ID:        3,
			Scores:    model.Scores{Overall: 88, Speed: 91, Backlinks: 240, StructureIssues: 3},
			CreatedAt: at,
		},
		Keywords: []model.Keyword{keyword},
		Competitors: []model.Competitor{
			{ID: 1, URL: "https://rival.com", Scores: &model.Scores{Overall: 75, Speed: 80, Backlinks: 99}},
			{ID: 2, URL: "https://unchecked.com", Name: "Unchecked"},
		},
		CompetitorKeywords: []model.CompetitorKeyword{ck},
		History: map[model.EntityRef][]model.HistoryPoint{
			keyword.Ref(): {
				{Ranking: model.Rank(30), CheckedAt: at.Add(-20 * 24 * time.Hour)},
				{Ranking: model.Rank(8), CheckedAt: at},
			},
		},
	}
}

func TestRenderHTML(t *testing.T) {
	doc, err := Render(sampleInput())
	require.NoError(t, err)
	require.Equal(t, "SEO 監控報告 - Example <Cafe>", doc.Subject)

	html, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	require.NoError(t, err)

	require.Equal(t, "88", html.Find(`#scores td[data-field="overall"]`).Text())
	require.Equal(t, "3", html.Find(`#scores td[data-field="issues"]`).Text())
	require.Contains(t, html.Find(".header p").Text(), "Example <Cafe>")

	row := html.Find("#keywords tr").Eq(1)
	cells := row.Find("td")
	require.Equal(t, "台北 咖啡", cells.Eq(0).Text())
	require.Equal(t, "8", cells.Eq(1).Text())
	require.Equal(t, "15", cells.Eq(2).Text())
	direction, _ := cells.Eq(3).Attr("data-direction")
	require.Equal(t, "up", direction)
	require.Equal(t, "↑ 7", strings.TrimSpace(cells.Eq(3).Text()))
	require.Equal(t, "↑ 22", strings.TrimSpace(cells.Eq(4).Text()))

	competitors := html.Find("#competitors tr")
	require.Equal(t, 3, competitors.Length())
	require.Equal(t, "https://rival.com", competitors.Eq(1).Find("td").Eq(0).Text())
	require.Equal(t, "75", competitors.Eq(1).Find("td").Eq(1).Text())
	require.Equal(t, "--", competitors.Eq(2).Find("td").Eq(1).Text())

	ckCells := html.Find("#competitor-keywords tr").Eq(1).Find("td")
	direction, _ = ckCells.Eq(4).Attr("data-direction")
	require.Equal(t, "down", direction)
	require.Equal(t, "↓ 3", strings.TrimSpace(ckCells.Eq(4).Text()))

	require.Zero(t, html.Find("td.placeholder").Length())
	require.Contains(t, doc.Text, "台北 咖啡")
	require.Contains(t, doc.Text, "↑ 7")
}

func TestRenderEmptyWebsite(t *testing.T) {
	doc, err := Render(Input{
		Website: model.Website{ID: 1, URL: "https://empty.com"},
		Report:  model.Report{Scores: model.Scores{Overall: 70, Speed: 70, Backlinks: 50}},
	})
	require.NoError(t, err)
	require.Equal(t, "SEO 監控報告 - https://empty.com", doc.Subject)

	html, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	require.NoError(t, err)
	placeholders := html.Find("td.placeholder")
	require.Equal(t, 3, placeholders.Length())
	require.Equal(t, "無關鍵字數據", placeholders.Eq(0).Text())
	require.Equal(t, "無競爭對手數據", placeholders.Eq(1).Text())
	require.Contains(t, html.Find("h2").Eq(1).Text(), "30")

	require.Contains(t, doc.Text, "無關鍵字數據")
	require.NotEmpty(t, doc.Workbook)
}

func TestExportWorkbook(t *testing.T) {
	doc, err := Render(sampleInput())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Workbook))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{SheetSummary, SheetKeywords, SheetCompetitors, SheetCompetitorKeywords}, f.GetSheetList())

	overall, err := f.GetCellValue(SheetSummary, "B5")
	require.NoError(t, err)
	require.Equal(t, "88", overall)

	rows, err := f.GetRows(SheetKeywords)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"台北 咖啡", "8", "15", "up", "7", "up", "22"}, rows[1])

	rows, err = f.GetRows(SheetCompetitorKeywords)
	require.NoError(t, err)
	require.Equal(t, []string{"https://rival.com", "台北 咖啡", "5", "2", "down", "-3"}, rows[1])

	rows, err = f.GetRows(SheetCompetitors)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Unchecked", rows[2][0])
}

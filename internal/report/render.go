package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"seomonitor-backend/internal/model"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

//go:embed report.html
var reportHTML string

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

// DefaultWindow is how far back the per keyword trend summary looks.
const DefaultWindow = 30 * 24 * time.Hour

const timeLayout = "2006-01-02 15:04"

// Input is everything a rendered report is made of, History holds the points of each
// entity within the trend window.
type Input struct {
	Website            model.Website
	Report             model.Report
	Keywords           []model.Keyword
	Competitors        []model.Competitor
	CompetitorKeywords []model.CompetitorKeyword
	History            map[model.EntityRef][]model.HistoryPoint
	Window             time.Duration
}

type Document struct {
	Subject string
	HTML    string
	Text    string
	// Workbook is the report as an xlsx file.
	Workbook []byte
}

type RankingRow struct {
	Owner           string
	Term            string
	Current         string
	Previous        string
	Direction       Direction
	Change          int
	WindowDirection Direction
	WindowChange    int
}

func changeText(change int) string {
	if change == 0 {
		return ""
	}
	if change < 0 {
		change = -change
	}
	return strconv.Itoa(change)
}

func (r RankingRow) ChangeText() string {
	return changeText(r.Change)
}

func (r RankingRow) WindowChangeText() string {
	return changeText(r.WindowChange)
}

type CompetitorRow struct {
	Name        string
	Overall     string
	Speed       string
	Backlinks   string
	LastChecked string
}

// View is the formatted content shared by the html, text and xlsx renditions.
type View struct {
	Title              string
	WebsiteURL         string
	Scores             model.Scores
	ReportTime         string
	WindowDays         int
	Keywords           []RankingRow
	Competitors        []CompetitorRow
	CompetitorKeywords []RankingRow
}

func formatRanking(r *int) string {
	if r == nil {
		return "--"
	}
	return strconv.Itoa(*r)
}

func formatOptional(scores *model.Scores, field func(model.Scores) int) string {
	if scores == nil {
		return "--"
	}
	return strconv.Itoa(field(*scores))
}

func rankingRow(owner string, item model.Trackable, history []model.HistoryPoint) RankingRow {
	direction, change := Trend(item.Previous(), item.Current())
	windowDirection, windowChange := WindowTrend(history)
	return RankingRow{
		Owner:           owner,
		Term:            item.Term(),
		Current:         formatRanking(item.Current()),
		Previous:        formatRanking(item.Previous()),
		Direction:       direction,
		Change:          change,
		WindowDirection: windowDirection,
		WindowChange:    windowChange,
	}
}

// NewView formats in, it never fails on missing rankings or scores.
func NewView(in Input) View {
	window := in.Window
	if window <= 0 {
		window = DefaultWindow
	}
	view := View{
		Title:      in.Website.DisplayName(),
		WebsiteURL: in.Website.URL,
		Scores:     in.Report.Scores,
		ReportTime: in.Report.CreatedAt.Format(timeLayout),
		WindowDays: int(window / (24 * time.Hour)),
	}
	for _, k := range in.Keywords {
		view.Keywords = append(view.Keywords, rankingRow("", k, in.History[k.Ref()]))
	}
	for _, c := range in.Competitors {
		lastChecked := "--"
		if c.LastCheckedAt != nil {
			lastChecked = c.LastCheckedAt.Format(timeLayout)
		}
		view.Competitors = append(view.Competitors, CompetitorRow{
			Name:        c.DisplayName(),
			Overall:     formatOptional(c.Scores, func(s model.Scores) int { return s.Overall }),
			Speed:       formatOptional(c.Scores, func(s model.Scores) int { return s.Speed }),
			Backlinks:   formatOptional(c.Scores, func(s model.Scores) int { return s.Backlinks }),
			LastChecked: lastChecked,
		})
	}
	for _, ck := range in.CompetitorKeywords {
		owner := ck.CompetitorName
		if owner == "" {
			owner = ck.CompetitorURL
		}
		view.CompetitorKeywords = append(view.CompetitorKeywords, rankingRow(owner, ck, in.History[ck.Ref()]))
	}
	return view
}

func Subject(website model.Website) string {
	return fmt.Sprintf("SEO 監控報告 - %s", website.DisplayName())
}

// Render produces the html email, its plain text fallback and the xlsx attachment.
func Render(in Input) (Document, error) {
	view := NewView(in)

	var html bytes.Buffer
	err := reportTemplate.Execute(&html, view)
	if err != nil {
		return Document{}, fmt.Errorf("render html: %w", err)
	}
	workbook, err := ExportWorkbook(view)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Subject:  Subject(in.Website),
		HTML:     html.String(),
		Text:     RenderText(view),
		Workbook: workbook,
	}, nil
}

func newTextTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// RenderText renders view as plain text tables for mail clients without html.
func RenderText(view View) string {
	var out strings.Builder
	fmt.Fprintf(&out, "SEO 監控報告 - %s (%s)\n報告時間: %s\n\n", view.Title, view.WebsiteURL, view.ReportTime)

	scores := newTextTable("整體評分")
	scores.AppendHeader(table.Row{"SEO 整體分數", "網站速度", "反向連結數", "待修復問題"})
	scores.AppendRow(table.Row{view.Scores.Overall, view.Scores.Speed, view.Scores.Backlinks, view.Scores.StructureIssues})
	out.WriteString(scores.Render())
	out.WriteString("\n\n")

	keywords := newTextTable(fmt.Sprintf("關鍵字排名（過去%d天趨勢）", view.WindowDays))
	keywords.AppendHeader(table.Row{"關鍵字", "當前排名", "前次排名", "變化", fmt.Sprintf("%d 天趨勢", view.WindowDays)})
	for _, r := range view.Keywords {
		keywords.AppendRow(table.Row{
			r.Term,
			r.Current,
			r.Previous,
			strings.TrimSpace(r.Direction.Arrow() + " " + r.ChangeText()),
			strings.TrimSpace(r.WindowDirection.Arrow() + " " + r.WindowChangeText()),
		})
	}
	if len(view.Keywords) == 0 {
		keywords.AppendRow(table.Row{"無關鍵字數據"})
	}
	out.WriteString(keywords.Render())
	out.WriteString("\n\n")

	competitors := newTextTable("競爭對手分析")
	competitors.AppendHeader(table.Row{"競爭對手", "整體分數", "速度分數", "反向連結", "最後檢查"})
	for _, c := range view.Competitors {
		competitors.AppendRow(table.Row{c.Name, c.Overall, c.Speed, c.Backlinks, c.LastChecked})
	}
	if len(view.Competitors) == 0 {
		competitors.AppendRow(table.Row{"無競爭對手數據"})
	}
	out.WriteString(competitors.Render())
	out.WriteString("\n\n")

	competitorKeywords := newTextTable("競爭對手關鍵字")
	competitorKeywords.AppendHeader(table.Row{"競爭對手", "關鍵字", "當前排名", "前次排名", "變化"})
	for _, r := range view.CompetitorKeywords {
		competitorKeywords.AppendRow(table.Row{
			r.Owner,
			r.Term,
			r.Current,
			r.Previous,
			strings.TrimSpace(r.Direction.Arrow() + " " + r.ChangeText()),
		})
	}
	if len(view.CompetitorKeywords) == 0 {
		competitorKeywords.AppendRow(table.Row{"無競爭對手關鍵字數據"})
	}
	out.WriteString(competitorKeywords.Render())
	out.WriteString("\n")

	return out.String()
}

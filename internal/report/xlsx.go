package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary            = "Summary"
	SheetKeywords           = "Keywords"
	SheetCompetitors        = "Competitors"
	SheetCompetitorKeywords = "CompetitorKeywords"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	for i, col := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		err = f.SetCellValue(sheet, cell, col)
		if err != nil {
			return err
		}
		err = f.SetCellStyle(sheet, cell, cell, headerStyle)
		if err != nil {
			return err
		}
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

func rankingRows(rows []RankingRow, withOwner bool) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		row := []any{}
		if withOwner {
			row = append(row, r.Owner)
		}
		row = append(row, r.Term, r.Current, r.Previous, string(r.Direction), r.Change)
		if !withOwner {
			row = append(row, string(r.WindowDirection), r.WindowChange)
		}
		out = append(out, row)
	}
	return out
}

// ExportWorkbook renders view as an xlsx workbook with one sheet per section.
func ExportWorkbook(view View) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName("Sheet1", SheetSummary)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	for _, sheet := range []string{SheetKeywords, SheetCompetitors, SheetCompetitorKeywords} {
		_, err = f.NewSheet(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx: create sheet %s: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"667EEA"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	summary := [][]any{
		{"網站", view.Title},
		{"網址", view.WebsiteURL},
		{"報告時間", view.ReportTime},
		{"SEO 整體分數", view.Scores.Overall},
		{"網站速度", view.Scores.Speed},
		{"反向連結數", view.Scores.Backlinks},
		{"待修復問題", view.Scores.StructureIssues},
	}
	err = writeSheet(f, SheetSummary, []any{"項目", "數值"}, summary, headerStyle)
	if err != nil {
		return nil, fmt.Errorf("xlsx: summary: %w", err)
	}

	err = writeSheet(
		f, SheetKeywords,
		[]any{"關鍵字", "當前排名", "前次排名", "趨勢", "變化", fmt.Sprintf("%d 天趨勢", view.WindowDays), fmt.Sprintf("%d 天變化", view.WindowDays)},
		rankingRows(view.Keywords, false),
		headerStyle,
	)
	if err != nil {
		return nil, fmt.Errorf("xlsx: keywords: %w", err)
	}

	competitors := make([][]any, 0, len(view.Competitors))
	for _, c := range view.Competitors {
		competitors = append(competitors, []any{c.Name, c.Overall, c.Speed, c.Backlinks, c.LastChecked})
	}
	err = writeSheet(
		f, SheetCompetitors,
		[]any{"競爭對手", "整體分數", "速度分數", "反向連結", "最後檢查"},
		competitors,
		headerStyle,
	)
	if err != nil {
		return nil, fmt.Errorf("xlsx: competitors: %w", err)
	}

	err = writeSheet(
		f, SheetCompetitorKeywords,
		[]any{"競爭對手", "關鍵字", "當前排名", "前次排名", "趨勢", "變化"},
		rankingRows(view.CompetitorKeywords, true),
		headerStyle,
	)
	if err != nil {
		return nil, fmt.Errorf("xlsx: competitor keywords: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

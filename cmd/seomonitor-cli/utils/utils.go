package utils

import (
	"fmt"
	"log"
	"os"
	"seomonitor-backend/internal/components/chrono"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// ParseID parses a positional id argument, exiting on failure.
func ParseID(name, raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.Fatalf("%s must be a positive integer, got %q", name, raw)
	}
	return id
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(chrono.Taipei()).Format("2006-01-02 15:04")
}

func FormatRanking(r *int) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprint(*r)
}

package testutil

import (
	"database/sql"
	"seomonitor-backend/internal/components/config"
	"seomonitor-backend/internal/components/db"
	"sync"
	"testing"
	"time"
)

// SetupDB opens an in-memory sqlite database with the schema applied, it is closed
// when the test finishes.
func SetupDB(t testing.TB) (*sql.DB, *db.Queries) {
	t.Helper()

	sqlite, err := config.Database{File: ":memory:"}.OpenDB(db.Schema)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		sqlite.Close()
	})
	return sqlite, db.New(sqlite)
}

// Clock is a chrono.TimeAPI whose time only moves when told to.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now.Truncate(time.Millisecond)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.Truncate(time.Millisecond)
}

// Report is a single call made to a Telemetry recorder.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// Telemetry is a telemetry.API that records everything reported to it so tests can
// assert a component complained (or didn't).
type Telemetry struct {
	mu      sync.Mutex
	Reports []Report
}

func (r *Telemetry) add(kind, id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reports = append(r.Reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *Telemetry) ReportBroken(id string, params ...any) {
	r.add("broken", id, params)
}

func (r *Telemetry) ReportWarning(id string, params ...any) {
	r.add("warning", id, params)
}

func (r *Telemetry) ReportDebug(msg string, params ...any) {
	r.add("debug", msg, params)
}

func (r *Telemetry) ReportCount(id string, count int64) {
	r.add("count", id, []any{count})
}

// Broken returns the ids of every ReportBroken call.
func (r *Telemetry) Broken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, rep := range r.Reports {
		if rep.Kind == "broken" {
			ids = append(ids, rep.ID)
		}
	}
	return ids
}

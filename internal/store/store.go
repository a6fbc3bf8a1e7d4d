// Package store is the storage capability of the pipeline, it maps between the sqlite
// rows in internal/components/db and the entities in internal/model.
package store

import (
	"database/sql"
	"errors"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/components/db"
	"seomonitor-backend/internal/components/telemetry"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/store")

const (
	report_store_record_ranking = "store.record-ranking"
	report_store_decode_report  = "store.decode-report"
)

type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
	time   chrono.TimeAPI
	tel    telemetry.API
}

func New(sqldb *sql.DB, time chrono.TimeAPI, tel telemetry.API) Store {
	assert.NotNil(sqldb)
	assert.NotNil(time)
	assert.NotNil(tel)
	return Store{
		qry:    db.New(sqldb),
		makeTx: db.NewMakeTx(sqldb),
		time:   time,
		tel:    telemetry.NewScopedAPI("store", tel),
	}
}

// notFound turns sql.ErrNoRows into a NotFoundError and passes anything else through.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).In(chrono.Taipei())
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

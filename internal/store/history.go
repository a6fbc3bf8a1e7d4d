package store

import (
	"context"
	"database/sql"
	"fmt"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/db"
	"seomonitor-backend/internal/model"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Observation is a single ranking lookup, Ranking is nil when the target was not found.
type Observation struct {
	Ranking      *int
	SearchVolume *int64
}

// Recorded is the state of an entity right after RecordRanking.
type Recorded struct {
	Previous *int
	Current  *int
	Point    model.HistoryPoint
}

// RecordRanking shifts the entity's current ranking into previous, stores the new
// ranking and appends a history point, all in one transaction. Concurrent calls for the
// same entity are last-write-wins.
func (s Store) RecordRanking(ctx context.Context, ref model.EntityRef, obs Observation) (Recorded, error) {
	ctx, span := tracer.Start(ctx, "RecordRanking")
	defer span.End()
	span.SetAttributes(
		attribute.String("kind", string(ref.Kind)),
		attribute.Int64("id", ref.ID),
	)

	txqry, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return Recorded{}, err
	}
	defer discard()

	// checked_at strictly increases per entity, even for calls within one millisecond
	checkedAt := s.time.Now().UnixMilli()
	var last int64
	switch ref.Kind {
	case model.KindKeyword:
		last, err = txqry.LastKeywordCheckedAt(ctx, ref.ID)
	case model.KindCompetitorKeyword:
		last, err = txqry.LastCompetitorKeywordCheckedAt(ctx, ref.ID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read last check")
		return Recorded{}, err
	}
	if checkedAt <= last {
		checkedAt = last + 1
	}

	shift := db.ShiftRankingParams{
		Ranking:   nullInt(obs.Ranking),
		UpdatedAt: checkedAt,
		ID:        ref.ID,
	}
	history := db.CreateRankingHistoryParams{
		Ranking:      nullInt(obs.Ranking),
		SearchVolume: nullInt64(obs.SearchVolume),
		CheckedAt:    checkedAt,
	}

	var previous sql.NullInt64
	switch ref.Kind {
	case model.KindKeyword:
		previous, err = txqry.ShiftKeywordRanking(ctx, shift)
		err = notFound(err, "keyword", ref.ID)
		history.KeywordID = sql.NullInt64{Int64: ref.ID, Valid: true}
	case model.KindCompetitorKeyword:
		previous, err = txqry.ShiftCompetitorKeywordRanking(ctx, shift)
		err = notFound(err, "competitor keyword", ref.ID)
		history.CompetitorKeywordID = sql.NullInt64{Int64: ref.ID, Valid: true}
	default:
		err = apperr.Invalid("kind", fmt.Sprintf("unknown entity kind %q", ref.Kind))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to shift ranking")
		return Recorded{}, err
	}

	id, err := txqry.CreateRankingHistory(ctx, history)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append history")
		s.tel.ReportBroken(report_store_record_ranking, ref.String(), err)
		return Recorded{}, err
	}

	err = commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit")
		s.tel.ReportBroken(report_store_record_ranking, ref.String(), err)
		return Recorded{}, err
	}

	return Recorded{
		Previous: intPtr(previous),
		Current:  obs.Ranking,
		Point: model.HistoryPoint{
			ID:           id,
			Ref:          ref,
			Ranking:      obs.Ranking,
			SearchVolume: obs.SearchVolume,
			CheckedAt:    fromMillis(checkedAt),
		},
	}, nil
}

// History returns the points of an entity checked within [from, to], oldest first.
func (s Store) History(ctx context.Context, ref model.EntityRef, from, to time.Time) ([]model.HistoryPoint, error) {
	params := db.HistoryRangeParams{
		ID:   ref.ID,
		From: from.UnixMilli(),
		To:   to.UnixMilli(),
	}

	var rows []db.RankingHistory
	var err error
	switch ref.Kind {
	case model.KindKeyword:
		rows, err = s.qry.ListKeywordHistory(ctx, params)
	case model.KindCompetitorKeyword:
		rows, err = s.qry.ListCompetitorKeywordHistory(ctx, params)
	default:
		return nil, apperr.Invalid("kind", fmt.Sprintf("unknown entity kind %q", ref.Kind))
	}
	if err != nil {
		return nil, err
	}

	out := make([]model.HistoryPoint, len(rows))
	for i, row := range rows {
		out[i] = model.HistoryPoint{
			ID:           row.ID,
			Ref:          ref,
			Ranking:      intPtr(row.Ranking),
			SearchVolume: int64Ptr(row.SearchVolume),
			CheckedAt:    fromMillis(row.CheckedAt),
		}
	}
	return out, nil
}

// Package ranking refreshes the rankings of tracked keywords and competitor keywords.
package ranking

import (
	"context"
	"errors"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/telemetry"
	"seomonitor-backend/internal/model"
	"seomonitor-backend/internal/store"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("internal/ranking")

var updatesCounter, _ = otel.Meter("internal/ranking").Int64Counter(
	"ranking_updates",
	metric.WithDescription("Entities whose ranking was refreshed, by outcome."),
)

const (
	report_updater_update_entity = "updater.update-entity"
	report_updater_updated       = "updater.updated"
	report_updater_failed        = "updater.failed"
)

type State string

const (
	StatePending  State = "PENDING"
	StateFetching State = "FETCHING"
	StateUpdated  State = "UPDATED"
	StateFailed   State = "FAILED"
)

// Result is the outcome of updating one entity, Err is set iff State is FAILED.
type Result struct {
	Ref          model.EntityRef `json:"ref"`
	Term         string          `json:"keyword"`
	State        State           `json:"state"`
	Previous     *int            `json:"previous_ranking"`
	Ranking      *int            `json:"ranking"`
	SearchVolume *int64          `json:"search_volume,omitempty"`
	Error        string          `json:"error,omitempty"`
	Err          error           `json:"-"`
}

func (r Result) fail(err error) Result {
	r.State = StateFailed
	r.Err = err
	r.Error = err.Error()
	return r
}

// Repository is the part of the storage capability the updater needs.
type Repository interface {
	GetTrackable(ctx context.Context, ref model.EntityRef) (model.Trackable, error)
	ListActiveTrackables(ctx context.Context) ([]model.Trackable, error)
	ListTrackablesForWebsite(ctx context.Context, websiteID int64) ([]model.Trackable, error)
	RecordRanking(ctx context.Context, ref model.EntityRef, obs store.Observation) (store.Recorded, error)
}

type Config struct {
	// Concurrency is the number of entities updated at once.
	Concurrency int `json:"concurrency"`
	// TimeoutSeconds bounds a single ranking lookup.
	TimeoutSeconds int `json:"timeout_seconds"`
}

const (
	defaultConcurrency = 5
	defaultTimeout     = 20 * time.Second
)

type Updater struct {
	repo        Repository
	source      Source
	tel         telemetry.API
	concurrency int
	timeout     time.Duration
}

func NewUpdater(repo Repository, source Source, config Config, tel telemetry.API) Updater {
	assert.NotNil(repo)
	assert.NotNil(source)
	assert.NotNil(tel)

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	timeout := defaultTimeout
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}
	return Updater{
		repo:        repo,
		source:      source,
		tel:         telemetry.NewScopedAPI("ranking", tel),
		concurrency: concurrency,
		timeout:     timeout,
	}
}

func pending(item model.Trackable) Result {
	return Result{
		Ref:   item.Ref(),
		Term:  item.Term(),
		State: StatePending,
	}
}

// update takes one entity from PENDING to UPDATED or FAILED, it never retries.
func (u Updater) update(ctx context.Context, item model.Trackable) Result {
	ctx, span := tracer.Start(ctx, "update")
	defer span.End()
	span.SetAttributes(attribute.String("ref", item.Ref().String()))

	result := pending(item)
	if err := ctx.Err(); err != nil {
		return result.fail(err)
	}

	result.State = StateFetching
	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	observed, err := u.source.Rank(callCtx, item)
	timedOut := errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	cancel()
	if err != nil {
		if timedOut && !apperr.IsUpstream(err) {
			err = apperr.Upstream(0, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch ranking")
		u.tel.ReportWarning(report_updater_update_entity, item.Ref().String(), err)
		return result.fail(err)
	}

	recorded, err := u.repo.RecordRanking(ctx, item.Ref(), store.Observation{
		Ranking:      observed.Ranking,
		SearchVolume: observed.SearchVolume,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to record ranking")
		u.tel.ReportBroken(report_updater_update_entity, item.Ref().String(), err)
		return result.fail(err)
	}

	result.State = StateUpdated
	result.Previous = recorded.Previous
	result.Ranking = recorded.Current
	result.SearchVolume = observed.SearchVolume
	return result
}

// UpdateEntity refreshes a single entity, unlike the batch operations its failure is
// returned as an error.
func (u Updater) UpdateEntity(ctx context.Context, ref model.EntityRef) (Result, error) {
	item, err := u.repo.GetTrackable(ctx, ref)
	if err != nil {
		return Result{Ref: ref, State: StateFailed, Err: err, Error: err.Error()}, err
	}
	result := u.update(ctx, item)
	return result, result.Err
}

// UpdateAll refreshes every entity of every active website. The error is only set when
// the entities could not be listed, per entity failures are in the results.
func (u Updater) UpdateAll(ctx context.Context) ([]Result, error) {
	items, err := u.repo.ListActiveTrackables(ctx)
	if err != nil {
		return nil, err
	}
	return u.Batch(ctx, items), nil
}

func (u Updater) UpdateWebsite(ctx context.Context, websiteID int64) ([]Result, error) {
	items, err := u.repo.ListTrackablesForWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	return u.Batch(ctx, items), nil
}

// Batch updates items with bounded concurrency, results are in the order of items.
// Entities that have not started when ctx is cancelled are failed with ctx's error,
// entities that already committed stay committed.
func (u Updater) Batch(ctx context.Context, items []model.Trackable) []Result {
	ctx, span := tracer.Start(ctx, "Batch")
	defer span.End()
	span.SetAttributes(attribute.Int("entities", len(items)))

	results := make([]Result, len(items))
	group := errgroup.Group{}
	group.SetLimit(u.concurrency)
	for i, item := range items {
		results[i] = pending(item)
		if err := ctx.Err(); err != nil {
			results[i] = results[i].fail(err)
			continue
		}
		group.Go(func() error {
			results[i] = u.update(ctx, item)
			return nil
		})
	}
	group.Wait()

	var updated, failed int64
	for _, r := range results {
		if r.State == StateUpdated {
			updated++
		} else {
			failed++
		}
	}
	u.tel.ReportCount(report_updater_updated, updated)
	u.tel.ReportCount(report_updater_failed, failed)
	updatesCounter.Add(ctx, updated, metric.WithAttributes(attribute.String("state", string(StateUpdated))))
	updatesCounter.Add(ctx, failed, metric.WithAttributes(attribute.String("state", string(StateFailed))))
	if failed > 0 {
		span.SetStatus(codes.Error, "some entities failed to update")
	}
	return results
}

package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/rs/zerolog"
)

type Fetcher[R any] interface {
	Fetch(ctx context.Context) ([]R, error)
}

// NormalizeFunc maps one provider record to a storage row. It must not do I/O.
type NormalizeFunc[R any, W store.Row] func(raw R, meta store.RunMeta) (W, error)

type Writer interface {
	Persist(ctx context.Context, category domain.Category, rows []store.Row) (store.BatchResult, error)
}

// Runner executes one category end to end. Preview stops before persistence.
type Runner interface {
	Category() domain.Category
	Run(ctx context.Context, meta store.RunMeta) Result
	Preview(ctx context.Context, meta store.RunMeta) Result
}

type Pipeline[R any, W store.Row] struct {
	category  domain.Category
	fetcher   Fetcher[R]
	normalize NormalizeFunc[R, W]
	writer    Writer
	now       func() time.Time
}

func New[R any, W store.Row](
	category domain.Category,
	fetcher Fetcher[R],
	normalize NormalizeFunc[R, W],
	writer Writer,
) *Pipeline[R, W] {
	return &Pipeline[R, W]{
		category:  category,
		fetcher:   fetcher,
		normalize: normalize,
		writer:    writer,
		now:       time.Now,
	}
}

func (p *Pipeline[R, W]) Category() domain.Category {
	return p.category
}

func (p *Pipeline[R, W]) Run(ctx context.Context, meta store.RunMeta) Result {
	return p.run(ctx, meta, true)
}

func (p *Pipeline[R, W]) Preview(ctx context.Context, meta store.RunMeta) Result {
	return p.run(ctx, meta, false)
}

func (p *Pipeline[R, W]) run(ctx context.Context, meta store.RunMeta, persist bool) Result {
	logger := zerolog.Ctx(ctx).With().
		Str("category", p.category.String()).
		Str("run_id", meta.RunID).
		Logger()

	result := Result{
		Category:  p.category,
		RunID:     meta.RunID,
		State:     StateFetching,
		StartedAt: p.now(),
	}
	finish := func(state State, outcome Outcome, err error) Result {
		result.State = state
		result.Outcome = outcome
		result.Err = err
		result.FinishedAt = p.now()
		return result
	}

	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		var fetchErr *domain.UpstreamFetchError
		if !errors.As(err, &fetchErr) {
			err = domain.NewUpstreamFetchError(p.category, err)
		}
		logger.Error().Err(err).Msg("fetch failed")
		return finish(StateFetchFailed, OutcomeFailed, err)
	}
	result.Fetched = len(raw)
	if len(raw) == 0 {
		logger.Info().Msg("no records returned by provider")
		return finish(StateDone, OutcomeNoData, nil)
	}

	result.State = StateNormalizing
	rows := make([]store.Row, 0, len(raw))
	indexes := make([]int, 0, len(raw))
	for i, record := range raw {
		row, err := p.normalize(record, meta)
		if err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping malformed record")
			result.Failures = append(result.Failures, Failure{Index: i, Stage: StageNormalize, Reason: err.Error()})
			continue
		}
		rows = append(rows, row)
		indexes = append(indexes, i)
	}

	if p.category.IsInventory() {
		result.Rows = rows
	}

	if !persist || len(rows) == 0 {
		result.Skipped = len(result.Failures)
		return finish(StateDone, OutcomeSucceeded, nil)
	}

	result.State = StatePersisting
	batch, err := p.writer.Persist(ctx, p.category, rows)
	result.Written = batch.Written
	for _, failure := range batch.Failed {
		result.Failures = append(result.Failures, Failure{
			Index:  indexes[failure.Index],
			Key:    failure.Row.NaturalKey(),
			Stage:  StagePersist,
			Reason: failure.Err.Error(),
		})
	}
	result.Skipped = len(result.Failures)

	if err != nil {
		logger.Error().Err(err).Int("written", batch.Written).Msg("persist failed")
		return finish(StatePersistFailed, OutcomeFailed, err)
	}

	logger.Info().
		Int("fetched", result.Fetched).
		Int("written", result.Written).
		Int("skipped", result.Skipped).
		Msg("sync completed")
	return finish(StateDone, OutcomeSucceeded, nil)
}

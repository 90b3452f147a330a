package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/cloud-sync/pkg/metrics"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service runs the registered category pipelines. It does not serialize
// concurrent runs of the same category; callers that need that must do it.
type Service struct {
	runners      map[domain.Category]Runner
	placeholders store.PlaceholderPolicy
	now          func() time.Time
	newRunID     func() string
}

func NewService(placeholders store.PlaceholderPolicy, runners ...Runner) *Service {
	if placeholders == "" {
		placeholders = store.PlaceholderNull
	}
	s := &Service{
		runners:      make(map[domain.Category]Runner, len(runners)),
		placeholders: placeholders,
		now:          time.Now,
		newRunID:     func() string { return uuid.NewString() },
	}
	for _, r := range runners {
		s.runners[r.Category()] = r
	}
	return s
}

// Categories returns the registered categories in canonical order.
func (s *Service) Categories() []domain.Category {
	categories := make([]domain.Category, 0, len(s.runners))
	for _, c := range domain.Categories {
		if _, ok := s.runners[c]; ok {
			categories = append(categories, c)
		}
	}
	return categories
}

func (s *Service) Sync(ctx context.Context, category domain.Category) (Result, error) {
	runner, ok := s.runners[category]
	if !ok {
		return Result{}, fmt.Errorf("unsupported category: %s", category)
	}

	meta := s.meta()
	ctx = zerolog.Ctx(ctx).With().Str("run_id", meta.RunID).Logger().WithContext(ctx)

	result := runner.Run(ctx, meta)
	record(result)
	return result, nil
}

// SyncAll runs every registered category in order. A failed category does not stop the rest.
func (s *Service) SyncAll(ctx context.Context) []Result {
	categories := s.Categories()
	results := make([]Result, 0, len(categories))
	for _, c := range categories {
		if err := ctx.Err(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("category", c.String()).Msg("sync cancelled before start")
			break
		}
		result, err := s.Sync(ctx, c)
		if err != nil {
			continue
		}
		results = append(results, result)
	}
	return results
}

// Inventory fetches and normalizes the inventory categories without writing anything.
func (s *Service) Inventory(ctx context.Context) []Result {
	meta := s.meta()
	var results []Result
	for _, c := range s.Categories() {
		if !c.IsInventory() {
			continue
		}
		results = append(results, s.runners[c].Preview(ctx, meta))
	}
	return results
}

func (s *Service) meta() store.RunMeta {
	return store.RunMeta{
		RunID:        s.newRunID(),
		CollectedAt:  s.now().UTC(),
		Placeholders: s.placeholders,
	}
}

func record(result Result) {
	category := result.Category.String()
	metrics.IncSyncRunsTotal(category, string(result.Outcome))
	metrics.ObserveSyncDuration(category, result.StartedAt)
	metrics.AddRowsWritten(category, result.Written)

	var normalized, persisted int
	for _, f := range result.Failures {
		if f.Stage == StageNormalize {
			normalized++
		} else {
			persisted++
		}
	}
	metrics.AddRowsSkipped(category, string(StageNormalize), normalized)
	metrics.AddRowsSkipped(category, string(StagePersist), persisted)
}

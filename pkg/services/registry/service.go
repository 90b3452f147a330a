package registry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/cloud-sync/pkg/models/store"
	"github.com/de-tools/cloud-sync/pkg/services/aws"
	"github.com/de-tools/cloud-sync/pkg/services/aws/fetchers"
	"github.com/de-tools/cloud-sync/pkg/services/config"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
	storage "github.com/de-tools/cloud-sync/pkg/store"
	sqlstore "github.com/de-tools/cloud-sync/pkg/store/sql"
	"github.com/rs/zerolog"
)

// Runtime is everything a CLI or server invocation needs to run syncs.
type Runtime struct {
	Service *pipeline.Service
	DB      *sql.DB
}

func (r *Runtime) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// Build loads AWS credentials, opens storage and wires the category pipelines.
func Build(ctx context.Context, settings *config.Settings) (*Runtime, error) {
	logger := zerolog.Ctx(ctx)

	window, err := fetchers.RollingWindow(
		settings.Sync.Start,
		settings.Sync.End,
		settings.Sync.LookbackDays,
		settings.Sync.Granularity,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid sync window: %w", err)
	}

	awsCfg, err := aws.LoadConfig(ctx, settings.AWS.Profile, settings.AWS.Region)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, settings.Storage.Driver, settings.Storage.DSN)
	if err != nil {
		return nil, err
	}

	writer, err := sqlstore.NewWriter(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create writer: %w", err)
	}

	runners := NewRunners(NewClients(awsCfg), Options{
		Window:     window,
		CostRegion: settings.Sync.CostRegion,
	}, writer)

	logger.Info().
		Str("profile", settings.AWS.Profile).
		Str("region", awsCfg.Region).
		Str("storage", settings.Storage.Driver).
		Int("lookback_days", settings.Sync.LookbackDays).
		Str("window_start", settings.Sync.Start).
		Str("window_end", settings.Sync.End).
		Str("granularity", settings.Sync.Granularity).
		Msg("sync runtime ready")

	return &Runtime{
		Service: pipeline.NewService(store.PlaceholderPolicy(settings.Sync.Placeholders), runners...),
		DB:      db,
	}, nil
}

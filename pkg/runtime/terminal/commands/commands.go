package commands

import (
	"context"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/services/config"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
)

type Syncer interface {
	Categories() []domain.Category
	Sync(ctx context.Context, category domain.Category) (pipeline.Result, error)
	SyncAll(ctx context.Context) []pipeline.Result
	Inventory(ctx context.Context) []pipeline.Result
}

// Opener builds a Syncer for one invocation; the returned func releases its resources.
type Opener func(ctx context.Context) (Syncer, func() error, error)

type ProfilesLoader func() (config.Registry, error)

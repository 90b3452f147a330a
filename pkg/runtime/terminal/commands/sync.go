package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/runtime/terminal/export"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const allCategories = "all"

type SyncCmd struct {
	open     Opener
	reporter *export.Reporter
}

func NewSyncCmd(open Opener, reporter *export.Reporter) *cobra.Command {
	sc := &SyncCmd{open: open, reporter: reporter}

	validArgs := []string{allCategories}
	for _, c := range domain.Categories {
		validArgs = append(validArgs, c.String())
	}

	return &cobra.Command{
		Use:       fmt.Sprintf("sync <%s>", strings.Join(validArgs, "|")),
		Short:     "Fetch, normalize and persist one category, or all of them",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: validArgs,
		RunE:      sc.run,
	}
}

func (sc *SyncCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	syncer, release, err := sc.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close storage")
		}
	}()

	var results []pipeline.Result
	if args[0] == allCategories {
		results = syncer.SyncAll(ctx)
	} else {
		category, err := domain.ParseCategory(args[0])
		if err != nil {
			return err
		}
		result, err := syncer.Sync(ctx, category)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	if err := sc.reporter.Results(results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d syncs failed", failed, len(results))
	}
	return nil
}

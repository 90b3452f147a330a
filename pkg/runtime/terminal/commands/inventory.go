package commands

import (
	"github.com/de-tools/cloud-sync/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewInventoryCmd(open Opener, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Preview the compute, database and storage inventory without writing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			syncer, release, err := open(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := release(); err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close storage")
				}
			}()

			return reporter.Inventory(syncer.Inventory(ctx))
		},
	}
}

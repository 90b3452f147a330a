package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewProfilesCmd(load ProfilesLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the AWS profiles found in the shared config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := load()
			if err != nil {
				return err
			}
			profiles, err := registry.GetProfiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
			for _, p := range profiles {
				line := p
				if region, err := registry.GetRegion(cmd.Context(), p); err == nil {
					line = fmt.Sprintf("%s (%s)", p, region)
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

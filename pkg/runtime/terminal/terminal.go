package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/cloud-sync/pkg/runtime/terminal/commands"
	"github.com/de-tools/cloud-sync/pkg/runtime/terminal/export"
	"github.com/de-tools/cloud-sync/pkg/services/config"
	"github.com/de-tools/cloud-sync/pkg/services/registry"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Builder creates the sync runtime from resolved settings.
type Builder func(ctx context.Context, settings *config.Settings) (*registry.Runtime, error)

// CLI represents the command-line interface
type CLI struct {
	build    Builder
	reporter *export.Reporter
	logOut   io.Writer
	rootCmd  *cobra.Command

	configPath string
	overrides  flagOverrides
	settings   *config.Settings
}

type flagOverrides struct {
	profile  string
	region   string
	logLevel string
}

// Options contain configuration for the CLI
type Options struct {
	Build  Builder
	Output io.Writer
	// LogOutput receives structured logs; defaults to stderr so reports stay clean.
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Build == nil {
		opts.Build = registry.Build
	}

	cli := &CLI{
		build:    opts.Build,
		reporter: export.NewReporter(opts.Output),
		logOut:   opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "cloudsync",
		Short:             "Sync AWS inventory and cost data into a relational store",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&cli.overrides.profile, "profile", "", "AWS shared config profile (overrides aws.profile)")
	cmd.PersistentFlags().StringVar(&cli.overrides.region, "region", "", "AWS region (overrides aws.region)")
	cmd.PersistentFlags().StringVar(&cli.overrides.logLevel, "log-level", "", "Log level (overrides log.level)")

	cmd.AddCommand(commands.NewSyncCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewInventoryCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewProfilesCmd(loadProfiles))

	return cmd
}

// setup resolves settings and attaches the root logger to the command context.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	// .env is optional for the CLI
	_ = godotenv.Load()

	settings, err := config.LoadSettings(cli.configPath)
	if err != nil {
		return err
	}
	if cli.overrides.profile != "" {
		settings.AWS.Profile = cli.overrides.profile
	}
	if cli.overrides.region != "" {
		settings.AWS.Region = cli.overrides.region
	}
	if cli.overrides.logLevel != "" {
		settings.Log.Level = cli.overrides.logLevel
	}

	level, err := zerolog.ParseLevel(settings.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.Log.Level, err)
	}
	logger := zerolog.New(cli.logOut).Level(level).With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx))
	cli.settings = settings
	return nil
}

func (cli *CLI) open(ctx context.Context) (commands.Syncer, func() error, error) {
	rt, err := cli.build(ctx, cli.settings)
	if err != nil {
		return nil, nil, err
	}
	return rt.Service, rt.Close, nil
}

func loadProfiles() (config.Registry, error) {
	paths, err := config.SharedFiles()
	if err != nil {
		return nil, err
	}
	return config.NewRegistry(paths...)
}

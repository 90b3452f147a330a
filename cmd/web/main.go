package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/cloud-sync/pkg/server"
	"github.com/de-tools/cloud-sync/pkg/services/config"
	"github.com/de-tools/cloud-sync/pkg/services/registry"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for cloud-sync",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (CLOUDSYNC_* environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	level, err := zerolog.ParseLevel(settings.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.Log.Level, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	rt, err := registry.Build(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to build sync runtime: %w", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	logger.Info().Msgf("Storage `%s` ready, serving categories %v", settings.Storage.Driver, rt.Service.Categories())

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(settings.Server.Host, settings.Server.Port),
		Dependencies: server.Dependencies{
			Syncer: rt.Service,
			Logger: logger,
		},
	})

	return api.Start()
}

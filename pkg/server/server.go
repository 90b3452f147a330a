package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/cloud-sync/pkg/handlers/sync"
	cloudsyncmiddleware "github.com/de-tools/cloud-sync/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Syncer handlers.Syncer
	Logger zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	syncHandler := handlers.NewHandler(config.Dependencies.Syncer)

	router := chi.NewRouter()

	router.Use(cloudsyncmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", healthz)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", syncHandler.ListCategories)
		r.Get("/inventory", syncHandler.Inventory)
		r.Post("/sync/{category}", syncHandler.Sync)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give in-flight syncs a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode health response")
	}
}

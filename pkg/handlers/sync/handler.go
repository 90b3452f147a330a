package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/de-tools/cloud-sync/pkg/models/api"
	"github.com/de-tools/cloud-sync/pkg/models/domain"
	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

type Syncer interface {
	Categories() []domain.Category
	Sync(ctx context.Context, category domain.Category) (pipeline.Result, error)
	Inventory(ctx context.Context) []pipeline.Result
}

type Handler struct {
	syncer Syncer
	// one slot per category; a second request for a busy category is rejected
	running map[domain.Category]*semaphore.Weighted
}

func NewHandler(syncer Syncer) *Handler {
	running := make(map[domain.Category]*semaphore.Weighted)
	for _, c := range syncer.Categories() {
		running[c] = semaphore.NewWeighted(1)
	}
	return &Handler{syncer: syncer, running: running}
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "category")
	logger := zerolog.Ctx(ctx).With().Str("category", name).Logger()

	category, err := domain.ParseCategory(name)
	sem, ok := h.running[category]
	if err != nil || !ok {
		writeJSON(ctx, w, http.StatusNotFound, api.ErrorResponse{Error: fmt.Sprintf("unsupported category: %s", name)})
		return
	}

	if !sem.TryAcquire(1) {
		logger.Warn().Msg("sync already running")
		writeJSON(ctx, w, http.StatusConflict, api.ErrorResponse{Error: fmt.Sprintf("a %s sync is already running", category)})
		return
	}
	defer sem.Release(1)

	// A started sync runs to completion even if the client goes away.
	result, err := h.syncer.Sync(logger.WithContext(context.WithoutCancel(ctx)), category)
	if err != nil {
		writeJSON(ctx, w, http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(ctx, w, statusFor(result), MapResultToAPISyncResult(result))
}

func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results := h.syncer.Inventory(ctx)
	response := api.Inventory{Categories: make([]api.InventorySection, 0, len(results))}
	failed := 0
	for _, result := range results {
		response.RunID = result.RunID
		response.Categories = append(response.Categories, MapResultToAPIInventorySection(result))
		if result.Failed() {
			failed++
		}
	}

	status := http.StatusOK
	if len(results) > 0 && failed == len(results) {
		status = http.StatusBadRequest
	}
	writeJSON(ctx, w, status, response)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.syncer.Categories()
	response := api.Categories{Categories: make([]string, 0, len(categories))}
	for _, c := range categories {
		response.Categories = append(response.Categories, c.String())
	}
	writeJSON(r.Context(), w, http.StatusOK, response)
}

func statusFor(result pipeline.Result) int {
	switch result.State {
	case pipeline.StateFetchFailed:
		return http.StatusBadRequest
	case pipeline.StatePersistFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}

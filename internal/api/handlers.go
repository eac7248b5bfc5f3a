package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/maltedev/homepage-snapshot/internal/models"
	"github.com/maltedev/homepage-snapshot/internal/scraper"
	"github.com/maltedev/homepage-snapshot/internal/storage"
	"github.com/maltedev/homepage-snapshot/internal/targets"
)

// Handlers exposes the snapshot pipeline over HTTP. It depends on the
// Runner interface so tests can swap in a fake pipeline.
type Handlers struct {
	runner scraper.Runner
	store  *storage.SnapshotStore
	logger *slog.Logger
}

func NewHandlers(runner scraper.Runner, store *storage.SnapshotStore, logger *slog.Logger) *Handlers {
	return &Handlers{
		runner: runner,
		store:  store,
		logger: logger.With("component", "api"),
	}
}

// Routes mounts all endpoints on the router.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/targets", h.ListTargets)
		r.Post("/snapshots", h.CreateSnapshot)
		r.Get("/snapshots", h.ListSnapshots)
		r.Get("/snapshots/{runID}", h.GetSnapshot)
		r.Get("/stats", h.GetStats)
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ListTargets(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string][]string{"targets": targets.Names()})
}

// SnapshotRequest triggers one run, either for a named built-in target or
// an ad-hoc URL.
type SnapshotRequest struct {
	Target string `json:"target,omitempty"`
	URL    string `json:"url,omitempty"`
}

func (h *Handlers) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Target == "" && req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "either target or url is required")
		return
	}

	if req.Target != "" && req.URL != "" {
		h.respondError(w, http.StatusBadRequest, "target and url are mutually exclusive")
		return
	}

	var (
		snap *models.Snapshot
		err  error
	)
	if req.Target != "" {
		snap, err = h.runner.SnapshotByName(r.Context(), req.Target)
	} else {
		if _, perr := url.ParseRequestURI(req.URL); perr != nil {
			h.respondError(w, http.StatusBadRequest, "invalid url")
			return
		}
		snap, err = h.runner.Snapshot(r.Context(), targets.FromURL(req.URL))
	}

	if err != nil {
		if errors.Is(err, scraper.ErrUnknownTarget) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("snapshot run failed", "error", err)
		if snap == nil {
			h.respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		// The snapshot record still documents what happened before the
		// failure, so return it alongside the error status.
		h.respondJSON(w, http.StatusBadGateway, snap)
		return
	}

	h.respondJSON(w, http.StatusCreated, snap)
}

func (h *Handlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.List())
}

func (h *Handlers) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	snap, exists := h.store.Get(runID)
	if !exists {
		h.respondError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.Stats())
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

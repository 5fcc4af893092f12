// Package server exposes the dashboard JSON API. The UI layer consumes
// pre-computed display strings and status tags from here; no number
// formatting or status logic lives in the front end.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"kpidash/internal/metrics"
	"kpidash/internal/targets"
	"kpidash/pkg/format"
	"kpidash/pkg/validation"
)

type handler struct {
	logger   *zap.Logger
	resolver *metrics.Resolver
	store    *targets.Store
	version  string
}

// NewHandler constructs the HTTP handler that serves the dashboard API.
func NewHandler(logger *zap.Logger, resolver *metrics.Resolver, store *targets.Store, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, resolver: resolver, store: store, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/metrics", h.handleMetrics)
	r.Get("/api/people", h.handlePeople)
	r.Get("/api/targets", h.handleTargetsExport)
	r.Put("/api/targets", h.handleTargetsSave)
	r.Post("/api/targets/restore", h.handleTargetsRestore)
	r.Get("/api/source-status", h.handleSourceStatus)
	r.Get("/api/version", h.handleVersion)
	r.Get("/healthz", h.handleHealth)

	return r
}

type metricPayload struct {
	Key            string   `json:"key"`
	Actual         *float64 `json:"actual"`
	Target         *float64 `json:"target"`
	ActualDisplay  string   `json:"actualDisplay"`
	TargetDisplay  string   `json:"targetDisplay"`
	Format         string   `json:"format"`
	HigherIsBetter bool     `json:"higherIsBetter"`
	Status         string   `json:"status"`
	StatusLabel    string   `json:"statusLabel"`
	Definition     string   `json:"definition,omitempty"`
}

type metricsResponse struct {
	Metrics  []metricPayload      `json:"metrics"`
	Source   metrics.SourceStatus `json:"source"`
	Duration string               `json:"duration"`
}

func (h *handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	keys := metrics.Keys()
	snap := h.resolver.Snapshot(r.Context(), keys)

	payloads := make([]metricPayload, 0, len(keys))
	for _, key := range keys {
		rec := snap.Records[key]
		st := rec.Status()
		payload := metricPayload{
			Key:            rec.Key,
			Actual:         rec.Actual,
			Target:         rec.Target,
			ActualDisplay:  snap.DisplayValue(key),
			TargetDisplay:  format.Display(rec.Target, rec.Kind),
			Format:         rec.Kind.String(),
			HigherIsBetter: rec.Direction.Higher(),
			Status:         st.Tier.String(),
			StatusLabel:    st.Label,
		}
		if spec, ok := metrics.Lookup(key); ok {
			payload.Definition = spec.Definition
		}
		payloads = append(payloads, payload)
	}

	elapsed := time.Since(start)
	h.logger.Info("metrics snapshot served",
		zap.String("op", "server.handleMetrics"),
		zap.Int("metrics", len(payloads)),
		zap.Bool("live", snap.Status.IsLive),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, metricsResponse{
		Metrics:  payloads,
		Source:   snap.Status,
		Duration: elapsed.String(),
	})
}

type personPayload struct {
	Name          string   `json:"name"`
	Department    string   `json:"department"`
	MetricName    string   `json:"metricName"`
	Actual        *float64 `json:"actual"`
	Target        *float64 `json:"target"`
	ActualDisplay string   `json:"actualDisplay"`
	TargetDisplay string   `json:"targetDisplay"`
	Status        string   `json:"status"`
	StatusLabel   string   `json:"statusLabel"`
}

func (h *handler) handlePeople(w http.ResponseWriter, r *http.Request) {
	people := h.resolver.People()

	payloads := make([]personPayload, 0, len(people))
	for _, p := range people {
		st := p.Status()
		payloads = append(payloads, personPayload{
			Name:          p.Name,
			Department:    p.Department,
			MetricName:    p.MetricName,
			Actual:        p.Actual,
			Target:        p.Target,
			ActualDisplay: format.Format(p.Actual, p.Kind),
			TargetDisplay: format.Display(p.Target, p.Kind),
			Status:        st.Tier.String(),
			StatusLabel:   st.Label,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"people": payloads})
}

// handleTargetsExport returns the persisted target config verbatim; the
// response body is the same JSON schema as the targets file, so a download
// needs no transformation.
func (h *handler) handleTargetsExport(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Load())
}

type targetsSaveResponse struct {
	Saved    targets.TargetConfig `json:"saved"`
	Warnings []string             `json:"warnings,omitempty"`
}

func (h *handler) handleTargetsSave(w http.ResponseWriter, r *http.Request) {
	var cfg targets.TargetConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.respondError(w, http.StatusBadRequest, "failed to decode targets: "+err.Error(), "server.handleTargetsSave")
		return
	}

	updatedBy := strings.TrimSpace(r.Header.Get("X-Updated-By"))
	if updatedBy == "" {
		updatedBy = "admin"
	}

	warnings := validation.ValidateTargets(cfg)

	// A failed save must reach the caller; silently dropping a settings
	// change is the one failure mode we never swallow.
	if err := h.store.Save(cfg, updatedBy); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), "server.handleTargetsSave")
		return
	}

	h.writeJSON(w, http.StatusOK, targetsSaveResponse{
		Saved:    h.store.Load(),
		Warnings: warnings,
	})
}

func (h *handler) handleTargetsRestore(w http.ResponseWriter, r *http.Request) {
	if !h.store.RestoreFromBackup() {
		h.respondError(w, http.StatusNotFound, "no backup available", "server.handleTargetsRestore")
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.Load())
}

func (h *handler) handleSourceStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.resolver.SourceStatus())
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

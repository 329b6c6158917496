package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"physics-engine/internal/metrics"
	"physics-engine/internal/physics"
)

// Simulator is what the router reads from. *Runner implements it.
type Simulator interface {
	Snapshot() Snapshot
	Bodies() []BodyState
	Body(h physics.Handle) (BodyState, error)
	Reset() error
}

// Config carries the router's dependencies.
type Config struct {
	Sim Simulator

	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer

	// DisableLogging drops the request logger middleware (tests, benchmarks).
	DisableLogging bool
}

type handlers struct {
	sim Simulator
}

// NewRouter builds the HTTP routes. It starts nothing, so it can be served by
// httptest directly.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	h := &handlers{sim: cfg.Sim}
	r.Get("/stats", h.handleStats)
	r.Get("/bodies", h.handleBodies)
	r.Get("/bodies/{handle}", h.handleBody)
	r.Post("/reset", h.handleReset)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}
	return r
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.sim.Snapshot())
}

func (h *handlers) handleBodies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.sim.Bodies())
}

func (h *handlers) handleBody(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseInt(chi.URLParam(r, "handle"), 10, 32)
	if err != nil {
		writeError(w, "handle must be an integer", http.StatusBadRequest)
		return
	}
	b, err := h.sim.Body(physics.Handle(n))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, physics.ErrInvalidHandle) {
			code = http.StatusNotFound
		}
		writeError(w, err.Error(), code)
		return
	}
	writeJSON(w, b)
}

func (h *handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.sim.Reset(); err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.sim.Snapshot())
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

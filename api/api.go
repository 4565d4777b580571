// Package api is the HTTP service surface: two routes for starting and
// polling a run, plus liveness and metrics endpoints. It is the external
// collaborator the Adaptive Controller and Run Supervisor are specified
// against — JSON (de)serialization and the singleton "one run at a time"
// flag live here, not in the core.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faultrun/server/config"
	"github.com/faultrun/server/store"
	"github.com/faultrun/server/supervisor"
	"github.com/faultrun/server/worker"
)

// Service holds the dependencies the route handlers need: the run store,
// the singleton running flag, and the HTTP client workers share.
type Service struct {
	store    *store.Store
	running  atomic.Bool
	client   *http.Client
	upstream string
}

// NewService constructs a Service with a fresh store and a worker HTTP
// client pointed at upstream.
func NewService(upstream string) *Service {
	return &Service{
		store:    store.New(),
		client:   worker.NewHTTPClient(),
		upstream: upstream,
	}
}

// NewRouter builds the route table: the two run routes and a liveness
// probe, plus a Prometheus metrics endpoint when serveMetrics is true.
// serveMetrics should be false when a dedicated prometheusx listener
// already serves /metrics on its own port, so the series aren't exposed
// redundantly on the primary port.
func NewRouter(svc *Service, serveMetrics bool) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/runs", svc.startRun).Methods(http.MethodPost)
	r.HandleFunc("/runs/{id}", svc.getRun).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	if serveMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
	return r
}

type createRunRequest struct {
	Seconds uint16 `json:"seconds"`
}

type createRunResponse struct {
	ID uint16 `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type runResponse struct {
	Status                   string `json:"status"`
	SuccessfulResponsesCount uint16 `json:"successful_responses_count"`
	Sum                      uint64 `json:"sum"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: failed to encode response: %v", err)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// startRun implements POST /runs. If no run is active, it CASes the
// running flag, allocates a run, and spawns the Run Supervisor as a
// goroutine; otherwise it rejects the request without touching the core.
func (s *Service) startRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, *config.MaxBodyBytes)

	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if !s.running.CompareAndSwap(false, true) {
		writeBadRequest(w, "'run' already started")
		return
	}

	id := s.store.NewRun()
	go supervisor.Run(id, req.Seconds, s.client, s.upstream, s.store, &s.running)

	writeJSON(w, http.StatusOK, createRunResponse{ID: id})
}

// getRun implements GET /runs/{id}.
func (s *Service) getRun(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(idStr, 10, 16)
	if err != nil {
		writeBadRequest(w, "'run' not exists")
		return
	}

	run, ok := s.store.GetRun(uint16(id))
	if !ok {
		writeBadRequest(w, "'run' not exists")
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		Status:                   run.Status.String(),
		SuccessfulResponsesCount: run.SuccessfulResponsesCount,
		Sum:                      run.Sum,
	})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

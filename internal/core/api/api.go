// Package api provides the HTTP event-intake surface around the engine's
// library entry point. Thin orchestration only: validation and response
// shaping here, semantics in internal/rules.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/charmkar/workflow/internal/rules"
	"github.com/charmkar/workflow/internal/types"
)

// Service exposes the workflow engine over HTTP.
type Service struct {
	engine *rules.Engine
	db     *sqlx.DB
	logger *slog.Logger
}

// NewService creates the API service with its dependencies.
func NewService(engine *rules.Engine, conn *sqlx.DB, logger *slog.Logger) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if conn == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	return &Service{engine: engine, db: conn, logger: logger}, nil
}

// eventRequest is the wire shape of one record-write event.
type eventRequest struct {
	ModuleID       string       `json:"module_id"`
	EventKind      string       `json:"event_kind"`
	Record         types.Record `json:"record"`
	PreviousRecord types.Record `json:"previous_record,omitempty"`
}

// HandleEvent runs workflows for one record-write event.
// Well-formed events are always accepted: automation failure is logged, never
// surfaced, so the ERP's record write is never blocked by this endpoint.
func (s *Service) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ModuleID == "" {
		respondError(w, http.StatusBadRequest, "module_id is required")
		return
	}
	kind := types.EventKind(req.EventKind)
	if kind != types.EventCreate && kind != types.EventUpsert {
		respondError(w, http.StatusBadRequest, "event_kind must be create or upsert")
		return
	}
	if req.Record == nil {
		respondError(w, http.StatusBadRequest, "record is required")
		return
	}

	s.engine.RunForEvent(r.Context(), types.Event{
		ModuleID: req.ModuleID,
		Kind:     kind,
		Current:  req.Record,
		Previous: req.PreviousRecord,
	})

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// HandleHealth reports service and database health.
func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Package httpapi exposes a deliberately thin HTTP surface over
// [orchestrate.Orchestrator]: upload a graph, then ask for its solved
// leaf order. It performs no validation beyond what pkg/io and the
// orchestrator already do, renders no UI, and generates no graphs.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hierarchytrix/solver/pkg/errors"
	"github.com/hierarchytrix/solver/pkg/hierarchy"
	hierarchyio "github.com/hierarchytrix/solver/pkg/io"
	"github.com/hierarchytrix/solver/pkg/orchestrate"
)

// Server wires the two HTTP handlers to a Store and an Orchestrator.
type Server struct {
	Store        Store
	Orchestrator *orchestrate.Orchestrator
}

// Store persists uploaded graphs so the orchestrator's InstanceSource can
// later retrieve them by instance id.
type Store interface {
	Save(id string, g *hierarchy.Graph) error
}

// Router builds the chi router: POST /instances, GET /instances/{id}/order.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Post("/instances", s.createInstance)
	r.Get("/instances/{id}/order", s.getOrder)

	return r
}

type createInstanceResponse struct {
	InstanceID string `json:"instance_id"`
}

func (s *Server) createInstance(w http.ResponseWriter, r *http.Request) {
	g, err := hierarchyio.ReadJSON(r.Body)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse graph document"))
		return
	}

	id := uuid.NewString()
	if err := s.Store.Save(id, g); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store instance %s", id))
		return
	}

	writeJSON(w, http.StatusCreated, createInstanceResponse{InstanceID: id})
}

type orderResponse struct {
	LeafOrder []string `json:"leaf_order"`
	Status    string   `json:"status"`
	Crossings int      `json:"crossings"`
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	method := r.URL.Query().Get("method")
	if method == "" {
		method = orchestrate.MethodHybrid
	}

	var timeLimit time.Duration
	if v := r.URL.Query().Get("time_limit"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			timeLimit = d
		}
	}

	result, err := s.Orchestrator.Solve(r.Context(), id, method, timeLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		LeafOrder: result.LeafOrder,
		Status:    string(result.Status),
		Crossings: result.Crossings,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := httpStatus(code)
	writeJSON(w, status, errorResponse{Code: string(code), Message: errors.UserMessage(err)})
}

func httpStatus(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidStructure, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidMethod:
		return http.StatusBadRequest
	case errors.ErrCodeInstanceNotFound, errors.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsolvable, errors.ErrCodeTimeoutNoIncumbent, errors.ErrCodeTimeoutWithIncumbent:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeEngineUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

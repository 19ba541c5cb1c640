package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/internal/render"
	"github.com/vinhtrinh326/schedsim/internal/simulation"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// Clock is the body of GET /clock.
type Clock struct {
	Now      int64 `json:"now"`
	Makespan int64 `json:"makespan"`
	Finished bool  `json:"finished"`
}

// CreateRequest is the body of POST /processes. Arrival defaults to the
// current time, Algorithm to the server default.
type CreateRequest struct {
	Name        string `json:"name"`
	ArrivalTime *int64 `json:"arrival_time,omitempty"`
	Burst       int64  `json:"burst"`
	Algorithm   string `json:"algorithm,omitempty"`
	Priority    *int64 `json:"priority,omitempty"`
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	f := s.sim.Snapshot()
	respondOK(w, reqID, Clock{Now: f.Now, Makespan: f.Makespan, Finished: f.Finished})
}

func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, s.sim.Snapshot())
}

func (s *Server) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	p, err := s.sim.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, p)
}

func (s *Server) handleCreateProcess(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{
			Code:    ErrValidation,
			Message: "invalid JSON: " + err.Error(),
		})
		return
	}
	if req.Name == "" {
		respondError(w, reqID, http.StatusBadRequest, &APIError{
			Code:    ErrValidation,
			Message: "name is required",
		})
		return
	}

	alg := s.algorithm
	if req.Algorithm != "" {
		var err error
		if alg, err = process.ParseAlgorithm(req.Algorithm); err != nil {
			respondErr(w, reqID, err)
			return
		}
	}
	arrival := s.sim.Now()
	if req.ArrivalTime != nil {
		arrival = *req.ArrivalTime
	}
	p := process.New(req.Name, arrival, req.Burst, alg)
	if req.Priority != nil {
		p.WithPriority(*req.Priority)
	}

	if err := s.sim.Inject(p); err != nil {
		respondErr(w, reqID, err)
		return
	}
	created, err := s.sim.Get(p.ID)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	s.logger.Info("process injected", zap.String("id", created.ID), zap.String("name", created.Name))
	respondCreated(w, reqID, created)
}

func (s *Server) handleUpdateProcess(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	p, err := s.sim.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	var e simulation.Edit
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{
			Code:    ErrValidation,
			Message: "invalid JSON: " + err.Error(),
		})
		return
	}
	if err := s.sim.Edit(p.ID, e); err != nil {
		respondErr(w, reqID, err)
		return
	}
	updated, err := s.sim.Get(p.ID)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	s.logger.Info("process updated", zap.String("id", updated.ID), zap.String("name", updated.Name))
	respondOK(w, reqID, updated)
}

// handleGantt writes the chart as plain text, clipped at the current time
// unless full=true.
func (s *Server) handleGantt(w http.ResponseWriter, r *http.Request) {
	f := s.sim.Snapshot()
	now := f.Now
	if r.URL.Query().Get("full") == "true" {
		now = render.All
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, alg := range []process.Algorithm{process.FCFS, process.Priority} {
		ps := simulation.Partition(f.Processes, alg)
		if len(ps) == 0 {
			continue
		}
		render.Title(w, alg.String())
		render.Gantt(w, ps, now, render.Options{})
	}
}

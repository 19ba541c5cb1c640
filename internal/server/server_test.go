package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtrinh326/schedsim/internal/simulation"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
}

// testServer serves the three-process FCFS run at t=6: P1 0-5, P2 5-8, P3 8-9.
func testServer(t *testing.T) (*Server, *simulation.Simulation) {
	t.Helper()
	sim := simulation.New(nil)
	require.NoError(t, sim.Add(
		process.New("P1", 0, 5, process.FCFS),
		process.New("P2", 2, 3, process.FCFS),
		process.New("P3", 4, 1, process.FCFS),
	))
	require.NoError(t, sim.Reschedule())
	sim.Advance(6)
	return New(sim, process.FCFS, nil), sim
}

func do(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body=%s", w.Body.String())
	return w, env
}

func decodeProcess(t *testing.T, env envelope) process.Process {
	t.Helper()
	var p process.Process
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestClock(t *testing.T) {
	srv, _ := testServer(t)
	w, env := do(t, srv, http.MethodGet, "/api/v1/clock", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", env.Status)
	assert.True(t, strings.HasPrefix(env.RequestID, "req_"))
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))

	var c Clock
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, Clock{Now: 6, Makespan: 9}, c)
}

func TestListAndGetProcesses(t *testing.T) {
	srv, _ := testServer(t)

	_, env := do(t, srv, http.MethodGet, "/api/v1/processes", "")
	var f simulation.Frame
	require.NoError(t, json.Unmarshal(env.Data, &f))
	assert.Equal(t, int64(6), f.Now)
	assert.Len(t, f.Processes, 3)

	w, env := do(t, srv, http.MethodGet, "/api/v1/processes/P2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	p2 := decodeProcess(t, env)
	assert.Equal(t, int64(5), p2.StartTime)

	w, env = do(t, srv, http.MethodGet, "/api/v1/processes/"+p2.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "P2", decodeProcess(t, env).Name)

	w, env = do(t, srv, http.MethodGet, "/api/v1/processes/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrNotFound, env.Error.Code)
}

func TestCreateProcess(t *testing.T) {
	srv, sim := testServer(t)

	w, env := do(t, srv, http.MethodPost, "/api/v1/processes", `{"name":"P4","burst":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	p4 := decodeProcess(t, env)
	assert.Equal(t, int64(6), p4.ArrivalTime)
	assert.Equal(t, process.FCFS, p4.Algorithm)
	assert.Equal(t, int64(9), p4.StartTime)
	assert.Equal(t, int64(11), p4.FinishTime)

	w, env = do(t, srv, http.MethodPost, "/api/v1/processes",
		`{"name":"Q1","arrival_time":0,"burst":1,"algorithm":"prioridades","priority":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	q1 := decodeProcess(t, env)
	assert.Equal(t, process.Priority, q1.Algorithm)
	require.NotNil(t, q1.Priority)
	assert.Equal(t, int64(6), q1.StartTime)

	assert.Len(t, sim.Snapshot().Processes, 5)
}

func TestCreateProcess_Errors(t *testing.T) {
	srv, _ := testServer(t)

	cases := []struct {
		body   string
		status int
		code   ErrorCode
	}{
		{`{"name":"P1","burst":1}`, http.StatusConflict, ErrConflict},
		{`{"name":"X","burst":1,"algorithm":"rr"}`, http.StatusBadRequest, ErrValidation},
		{`{"burst":1}`, http.StatusBadRequest, ErrValidation},
		{`{`, http.StatusBadRequest, ErrValidation},
	}
	for _, tc := range cases {
		w, env := do(t, srv, http.MethodPost, "/api/v1/processes", tc.body)
		assert.Equal(t, tc.status, w.Code, tc.body)
		assert.Equal(t, "error", env.Status, tc.body)
		require.NotNil(t, env.Error, tc.body)
		assert.Equal(t, tc.code, env.Error.Code, tc.body)
	}
}

func TestUpdateProcess(t *testing.T) {
	srv, _ := testServer(t)

	w, env := do(t, srv, http.MethodPatch, "/api/v1/processes/P3", `{"burst":3}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(11), decodeProcess(t, env).FinishTime)

	w, env = do(t, srv, http.MethodPatch, "/api/v1/processes/P1", `{"burst":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, env.Error.Message, "already started")

	w, _ = do(t, srv, http.MethodPatch, "/api/v1/processes/P3", `{"name":"P2"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, srv, http.MethodPatch, "/api/v1/processes/P3", `{"algorithm":"sjf"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, srv, http.MethodPatch, "/api/v1/processes/P9", `{"burst":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGantt(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gantt", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FCFS")
	assert.Contains(t, w.Body.String(), "P2")
	assert.NotContains(t, w.Body.String(), "P3")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/gantt?full=true", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "P3")
	assert.NotContains(t, w.Body.String(), "Priority")
}

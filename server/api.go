package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/keymaze/cache"
	"github.com/zucenko/keymaze/model"
)

const URI_WS = "/solve"

// Mount registers every endpoint of s on router.
func (s *SolveServer) Mount(router *way.Router) {
	router.HandleFunc("GET", URI_WS, s.HandleHttpCall())
	router.HandleFunc("POST", "/api/solve", s.handleSolve)
	router.HandleFunc("GET", "/api/solutions/:digest", s.handleSolution)
	router.HandleFunc("GET", "/api/stats", s.handleStats)
	router.HandleFunc("GET", "/health", s.handleHealth)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *SolveServer) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req model.ClientMessage
	var body io.Reader = r.Body
	if s.Config.MaxCells > 0 {
		body = io.LimitReader(r.Body, int64(s.Config.MaxCells)*2+1024)
	}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, SOLVE_INVALID.ToHttp(), errorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	solution, err := s.solve(r.Context(), req)
	if err != nil {
		code := codeFor(err)
		if code == SOLVE_FAILED {
			log.Errorf("handleSolve %v", err)
		}
		writeJSON(w, code.ToHttp(), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, SOLVE_OK.ToHttp(), solution)
}

func (s *SolveServer) handleSolution(w http.ResponseWriter, r *http.Request) {
	if s.Solver == nil || s.Solver.Store == nil {
		writeJSON(w, SOLVE_NOT_FOUND.ToHttp(), errorResponse{Error: "cache disabled"})
		return
	}
	e, err := s.Solver.Store.GetHex(way.Param(r.Context(), "digest"))
	if errors.Is(err, cache.ErrNotFound) {
		writeJSON(w, SOLVE_NOT_FOUND.ToHttp(), errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		log.Errorf("handleSolution %v", err)
		writeJSON(w, SOLVE_FAILED.ToHttp(), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, SOLVE_OK.ToHttp(), e.Solution())
}

func (s *SolveServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Stats(r.Context())
	if err != nil {
		writeJSON(w, SOLVE_TIMEOUT.ToHttp(), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, SOLVE_OK.ToHttp(), stats)
}

func (s *SolveServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, SOLVE_OK.ToHttp(), map[string]string{"status": "ok", "version": s.Config.Version})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("writeJSON %v", err)
	}
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/studiowebux/treeplot/internal/rangetree"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var bounds [4]int64
	for i, name := range []string{"x1", "x2", "y1", "y2"} {
		v, ok := parseInt(q.Get(name))
		if !ok {
			http.Error(w, fmt.Sprintf("%s must be an integer", name), http.StatusBadRequest)
			return
		}
		bounds[i] = v
	}

	s.treeMu.Lock()
	points := s.rt.Query(bounds[0], bounds[1], bounds[2], bounds[3])
	s.treeMu.Unlock()

	res := RangeQuery{X1: bounds[0], X2: bounds[1], Y1: bounds[2], Y2: bounds[3], Count: len(points), Points: points}
	if res.Points == nil {
		res.Points = []rangetree.Point{}
	}
	s.writeJSON(w, res)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	k, ok := parseInt(r.URL.Query().Get("k"))
	if !ok {
		http.Error(w, "k must be an integer", http.StatusBadRequest)
		return
	}

	s.treeMu.Lock()
	res := KeyLookup{Key: k, Present: s.rb.Contains(k)}
	if next, found := s.rb.Successor(k); found {
		res.Successor = &next
	}
	s.treeMu.Unlock()

	s.writeJSON(w, res)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.GetLogs())
}

func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	s.ClearLogs()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "type", fmt.Sprintf("%T", v), "error", err)
	}
}

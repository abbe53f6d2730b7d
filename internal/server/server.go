// Package server implements the collaborator service: it owns a red-black
// tree and a 2D range tree, inserts submitted values and answers with a PNG
// data URI of the updated structure, or with a short message when the input
// is not an integer.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/studiowebux/treeplot/internal/rangetree"
	"github.com/studiowebux/treeplot/internal/rbtree"
	"github.com/studiowebux/treeplot/internal/render"
	"github.com/studiowebux/treeplot/internal/store"
	"github.com/studiowebux/treeplot/internal/types"
)

// Messages returned with status 200 for values that are not integers
const (
	MessageInvalidKey   = "Invalid key"
	MessageInvalidPoint = "Invalid point"
)

const (
	structureRedBlack = "red-black-tree"
	structureRange    = "range-tree"
	defaultMaxLogs    = 1000
)

// Server represents the collaborator HTTP server
type Server struct {
	config     *Config
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *metrics
	store      *store.Manager
	seq        atomic.Uint64

	treeMu sync.Mutex
	rb     *rbtree.Tree
	rt     *rangetree.Tree

	logs      []RequestLog
	logSeq    uint64
	logsMutex sync.RWMutex
	notifyCh  chan struct{}
}

// NewServer creates a new server with empty trees
func NewServer(config *Config) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.MaxLogs <= 0 {
		config.MaxLogs = defaultMaxLogs
	}

	return &Server{
		config:   config,
		logger:   slog.New(slog.DiscardHandler),
		metrics:  newMetrics(),
		rb:       rbtree.New(),
		rt:       rangetree.New(),
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100),
	}
}

// WithLogger sets the logger
func (s *Server) WithLogger(logger *slog.Logger) *Server {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithStore persists accepted insertions and replays what is already stored
func (s *Server) WithStore(st *store.Manager) (*Server, error) {
	snap, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to restore trees: %w", err)
	}

	s.treeMu.Lock()
	s.rb = rbtree.New(snap.Keys...)
	s.rt = rangetree.New(snap.Points...)
	s.metrics.nodes.WithLabelValues(structureRedBlack).Set(float64(s.rb.Len()))
	s.metrics.nodes.WithLabelValues(structureRange).Set(float64(s.rt.Len()))
	s.treeMu.Unlock()

	s.store = st
	s.logger.Info("restored trees", "keys", len(snap.Keys), "points", len(snap.Points))
	return s, nil
}

// Handler returns the routed handler, wrapped with the request log
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+types.EndpointRedBlackTree, s.handleAddRedBlack)
	mux.HandleFunc("POST "+types.EndpointRangeTree, s.handleAddRange)
	mux.HandleFunc("GET /tree", s.handleTree)
	mux.HandleFunc("GET /query", s.handleQuery)
	mux.HandleFunc("GET /lookup", s.handleLookup)
	mux.HandleFunc("GET /logs", s.handleLogs)
	mux.HandleFunc("DELETE /logs", s.handleClearLogs)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())
	return s.logMiddleware(mux)
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.config.Addr = ln.Addr().String()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	s.logger.Info("server listening", "addr", s.config.Addr)
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the server address as a URL
func (s *Server) GetAddress() string {
	host, port, err := net.SplitHostPort(s.config.Addr)
	if err != nil {
		return "http://" + s.config.Addr
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// parseInt accepts only what the client sends for a finite integer;
// "NaN" and anything else are rejected
func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v, err == nil
}

func (s *Server) handleAddRedBlack(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	k, ok := parseInt(r.PostForm.Get("k"))
	if !ok {
		s.metrics.invalid.WithLabelValues(structureRedBlack).Inc()
		writeText(w, MessageInvalidKey)
		return
	}

	seq := s.seq.Add(1)
	s.treeMu.Lock()
	s.rb.Insert(k)
	root := render.FromRedBlack(s.rb)
	size := s.rb.Len()
	s.treeMu.Unlock()

	if s.store != nil {
		if err := s.store.SaveKey(k, seq); err != nil {
			s.logger.Warn("failed to persist key", "key", k, "error", err)
		}
	}

	s.metrics.insertions.WithLabelValues(structureRedBlack).Inc()
	s.metrics.nodes.WithLabelValues(structureRedBlack).Set(float64(size))
	s.respondImage(w, structureRedBlack, root)
}

func (s *Server) handleAddRange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	x, okX := parseInt(r.PostForm.Get("x"))
	y, okY := parseInt(r.PostForm.Get("y"))
	if !okX || !okY {
		s.metrics.invalid.WithLabelValues(structureRange).Inc()
		writeText(w, MessageInvalidPoint)
		return
	}

	p := rangetree.Point{X: x, Y: y}
	seq := s.seq.Add(1)
	s.treeMu.Lock()
	s.rt.Insert(p)
	root := render.FromRangeTree(s.rt)
	size := s.rt.Len()
	s.treeMu.Unlock()

	if s.store != nil {
		if err := s.store.SavePoint(p, seq); err != nil {
			s.logger.Warn("failed to persist point", "point", p, "error", err)
		}
	}

	s.metrics.insertions.WithLabelValues(structureRange).Inc()
	s.metrics.nodes.WithLabelValues(structureRange).Set(float64(size))
	s.respondImage(w, structureRange, root)
}

func (s *Server) respondImage(w http.ResponseWriter, structure string, root *render.Node) {
	start := time.Now()
	uri, err := render.DataURI(root, render.DefaultOptions())
	s.metrics.render.WithLabelValues(structure).Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("render failed", "structure", structure, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeText(w, uri)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, "ok")
}

// Snapshot returns the JSON view of both structures
func (s *Server) Snapshot() TreeSnapshot {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()

	keys := s.rb.Keys()
	if keys == nil {
		keys = []int64{}
	}
	points := s.rt.Points()
	if points == nil {
		points = []rangetree.Point{}
	}

	return TreeSnapshot{
		RedBlack: RedBlackSnapshot{
			Size:   s.rb.Len(),
			Height: s.rb.Height(),
			Keys:   keys,
			Root:   redBlackJSON(s.rb.Root()),
		},
		Range: RangeSnapshot{
			Size:   s.rt.Len(),
			Height: s.rt.Height(),
			Points: points,
			Root:   rangeJSON(s.rt.Root()),
		},
	}
}

func redBlackJSON(n *rbtree.Node) *TreeNode {
	if n == nil {
		return nil
	}
	red := n.Red
	return &TreeNode{
		Label: strconv.FormatInt(n.Key, 10),
		Red:   &red,
		Left:  redBlackJSON(n.Left),
		Right: redBlackJSON(n.Right),
	}
}

func rangeJSON(n *rangetree.Node) *TreeNode {
	if n == nil {
		return nil
	}
	return &TreeNode{
		Label: fmt.Sprintf("(%d,%d)", n.Point.X, n.Point.Y),
		Left:  rangeJSON(n.Left),
		Right: rangeJSON(n.Right),
	}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/build"
	"github.com/vango-dev/componenttree/pkg/snapshot"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// ServerConfig configures the inspector server.
type ServerConfig struct {
	// Address is the listen address (default: "localhost:7070").
	Address string

	// Gatherer serves /metrics (default: prometheus.DefaultGatherer).
	Gatherer prometheus.Gatherer

	// CheckOrigin validates websocket origins (default: same host only).
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout guards against slow clients (default: 5s).
	ReadHeaderTimeout time.Duration
}

// DefaultServerConfig returns the default inspector configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:7070",
		Gatherer:          prometheus.DefaultGatherer,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Server is the inspector HTTP server.
type Server struct {
	session    *Session
	hub        *Hub
	config     *ServerConfig
	router     chi.Router
	upgrader   websocket.Upgrader
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a server for session. Summaries of every pass run on
// session after this call are broadcast to websocket clients.
func NewServer(session *Session, config *ServerConfig) *Server {
	defaults := DefaultServerConfig()
	if config == nil {
		config = defaults
	}
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.Gatherer == nil {
		config.Gatherer = defaults.Gatherer
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if config.ReadHeaderTimeout == 0 {
		config.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}

	logger := slog.Default().With("component", "inspect")
	s := &Server{
		session: session,
		hub:     NewHub(logger),
		config:  config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
	}

	session.mu.Lock()
	session.onPass = append(session.onPass, s.hub.Broadcast)
	session.mu.Unlock()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/generations", s.handleList)
	r.Get("/generations/latest", s.handleLatest)
	r.Get("/generations/{gen}", s.handleGeneration)
	r.Post("/updates", s.handleUpdates)
	r.Get("/reuse", s.handleReuse)
	r.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes websocket clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.hub.Close()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("inspector shutdown complete")
	return nil
}

// generationResponse is the body of the generation endpoints.
type generationResponse struct {
	Summary  Summary            `json:"summary"`
	Snapshot *snapshot.Document `json:"snapshot,omitempty"`
}

// UpdateRequest is the body of POST /updates.
type UpdateRequest struct {
	Trigger string    `json:"trigger"`
	IDs     []tree.ID `json:"ids"`
	Types   []string  `json:"types"`
}

type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Summaries())
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	res := s.session.Latest()
	if res == nil {
		writeError(w, http.StatusNotFound, nil, "no generation built yet")
		return
	}
	s.writeGeneration(w, res)
}

func (s *Server) handleGeneration(w http.ResponseWriter, r *http.Request) {
	g, err := strconv.ParseUint(chi.URLParam(r, "gen"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, "generation must be a positive integer")
		return
	}
	res, ok := s.session.Generation(g)
	if !ok {
		writeError(w, http.StatusNotFound, nil, "generation "+strconv.FormatUint(g, 10)+" not kept")
		return
	}
	s.writeGeneration(w, res)
}

func (s *Server) writeGeneration(w http.ResponseWriter, res *build.Result) {
	body := generationResponse{Summary: summarize(res, nil)}
	if res.Root != nil {
		body.Snapshot = snapshot.FromRoot(res.Root)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, nil, "invalid JSON body: "+err.Error())
		return
	}

	trigger := build.TriggerStateUpdate
	if req.Trigger != "" {
		t, ok := build.ParseTrigger(req.Trigger)
		if !ok {
			writeError(w, http.StatusBadRequest, errors.New("X002").WithDetail(req.Trigger), "")
			return
		}
		trigger = t
	}

	ids := append([]tree.ID(nil), req.IDs...)
	for _, typ := range req.Types {
		found := s.session.IDsForType(typ)
		if len(found) == 0 {
			writeError(w, http.StatusNotFound, errors.New("X001").WithDetail(typ), "")
			return
		}
		ids = append(ids, found...)
	}

	res, err := s.session.Apply(r.Context(), trigger, ids)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err, "")
		return
	}
	s.writeGeneration(w, res)
}

func (s *Server) handleReuse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.ReuseCounts())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	s.hub.Serve(conn)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, msg string) {
	body := errorResponse{Message: msg}
	if te := errors.FromError(err, ""); te != nil {
		body.Code = te.Code
		body.Message = te.Error()
	}
	writeJSON(w, status, body)
}

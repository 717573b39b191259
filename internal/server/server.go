// Package server exposes the report generator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/marquage/expedition/internal/config"
	"github.com/marquage/expedition/internal/source"
	"github.com/marquage/expedition/pkg/api"
)

// ReportPath serves expedition reports.
const ReportPath = "/api/reports/expedition"

// maxBodyBytes bounds POSTed row sets.
const maxBodyBytes = 32 << 20

// WebServer handles HTTP requests
type WebServer struct {
	cfg    *config.Config
	base   *api.Generator
	source source.Source
	logger *slog.Logger

	server   *http.Server
	listener net.Listener

	mu         sync.Mutex
	generators map[string]*api.Generator
}

// NewWebServer creates a new web server. A nil source disables GET
// reports; POST requests carry their rows.
func NewWebServer(cfg *config.Config, gen *api.Generator, src source.Source, logger *slog.Logger) *WebServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ws := &WebServer{
		cfg:        cfg,
		base:       gen,
		source:     src,
		logger:     logger,
		generators: make(map[string]*api.Generator),
	}
	ws.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ws
}

// Handler returns the routed handler with request logging.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", ws.handleHealth)
	mux.HandleFunc(ReportPath, ws.handleReport)
	return ws.withRequestLog(mux)
}

// Start binds the listen address and serves in the background.
func (ws *WebServer) Start() error {
	ln, err := net.Listen("tcp", ws.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", ws.server.Addr, err)
	}
	ws.listener = ln
	ws.logger.Info("Starting web server", "addr", ln.Addr().String())
	go func() {
		if err := ws.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ws.logger.Error("web server error", "err", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (ws *WebServer) Addr() string {
	if ws.listener == nil {
		return ws.server.Addr
	}
	return ws.listener.Addr().String()
}

// Shutdown gracefully shuts down the web server
func (ws *WebServer) Shutdown(ctx context.Context) error {
	ws.logger.Info("Shutting down web server")
	return ws.server.Shutdown(ctx)
}

// generator returns the generator of a variant, the configured one for an
// empty name.
func (ws *WebServer) generator(name string) (*api.Generator, error) {
	if name == "" || name == ws.base.Variant().Name {
		return ws.base, nil
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if g, ok := ws.generators[name]; ok {
		return g, nil
	}
	g, err := ws.base.WithOption(api.WithVariant(name))
	if err != nil {
		return nil, err
	}
	ws.generators[name] = g
	return g, nil
}

// Package server serves a WebAssembly application and its generated
// documentation from one directory.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/devserve/internal/config"
	"github.com/Kush-Singh-26/devserve/internal/console"
	"github.com/Kush-Singh-26/devserve/internal/metrics"
)

type state int

const (
	stateStopped state = iota
	stateRunning
)

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used for the access log and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithFs replaces the read-only view of the served root.
func WithFs(fsys afero.Fs) Option {
	return func(s *Server) { s.fs = fsys }
}

// Server owns the listening socket and the handler stack.
type Server struct {
	cfg     *config.Config
	root    string
	fs      afero.Fs
	logger  *slog.Logger
	metrics *metrics.ServeMetrics

	mu         sync.Mutex
	state      state
	listener   net.Listener
	httpServer *http.Server
	reloader   *Reloader
	serveDone  chan struct{}
	serveErr   error
}

// New validates the served root. Nothing is bound until Start.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	root, err := cfg.AbsRoot()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("served root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("served root %s is not a directory", root)
	}

	s := &Server{
		cfg:     cfg,
		root:    root,
		logger:  slog.Default(),
		metrics: metrics.NewServeMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root))
	}
	return s, nil
}

// Start binds the listening socket and serves in the background.
// A failure to bind is returned as *BindError.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateRunning {
		return errAlreadyRunning
	}

	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}

	if s.cfg.Watch {
		rl, err := NewReloader(s.root, s.cfg.Debounce, s.logger)
		if err != nil {
			s.logger.Warn("Live reload disabled", "error", err)
		} else {
			s.reloader = rl
		}
	}

	s.listener = ln
	s.httpServer = &http.Server{Handler: s.routes()}
	s.serveDone = make(chan struct{})
	s.serveErr = nil
	s.state = stateRunning

	srv, done := s.httpServer, s.serveDone
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.mu.Lock()
		s.serveErr = err
		s.mu.Unlock()
		close(done)
	}()
	return nil
}

func (s *Server) routes() http.Handler {
	var files http.Handler = NewHandler(s.fs, HandlerOptionsFromConfig(s.cfg, s.logger))
	if s.cfg.Compress {
		files = gzhttp.GzipHandler(files)
	}

	reloader, reloadPath := s.reloader, s.cfg.ReloadPath
	mux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reloader != nil && r.URL.Path == reloadPath {
			reloader.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
	return withAccessLog(mux, s.logger, s.metrics)
}

// Stop shuts the server down gracefully within the configured timeout and
// releases the port. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return nil
	}
	s.state = stateStopped
	srv, rl, done := s.httpServer, s.reloader, s.serveDone
	s.reloader = nil
	s.listener = nil
	s.mu.Unlock()

	// Open event streams would otherwise hold Shutdown until the timeout
	if rl != nil {
		if err := rl.Close(); err != nil {
			s.logger.Warn("Failed to close file watcher", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error", "error", err)
		_ = srv.Close()
	}
	<-done
	return err
}

// Done is closed when the serve loop exits.
func (s *Server) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveDone
}

// Wait blocks until the serve loop exits and returns its error. It returns
// nil at once if the server was never started.
func (s *Server) Wait() error {
	done := s.Done()
	if done == nil {
		return nil
	}
	<-done
	return s.Err()
}

// Err returns the error that ended the serve loop, if any.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

// Addr returns the bound address, or nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL returns the address to open in a browser.
func (s *Server) URL() string {
	port := strconv.Itoa(s.cfg.Port)
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		port = strconv.Itoa(addr.Port)
	}

	host := s.cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Root returns the absolute served directory.
func (s *Server) Root() string { return s.root }

// Metrics returns the session counters.
func (s *Server) Metrics() *metrics.ServeMetrics { return s.metrics }

// Run starts the server, prints the banner to out and blocks until ctx is
// cancelled, then stops it. Bind failures are returned as *BindError.
func Run(ctx context.Context, cfg *config.Config, out io.Writer, opts ...Option) error {
	con := console.New(out)

	srv, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}

	con.Success("Server started: %s", srv.URL())
	con.Info("📂", "Serving directory: %s", srv.Root())
	if cfg.Watch {
		con.Info("🔄", "Live reload enabled via %s", cfg.ReloadPath)
	}
	con.Info("🛑", "Press Ctrl+C to stop the server.")

	select {
	case <-ctx.Done():
	case <-srv.Done():
		// Serve loop died on its own
		_ = srv.Stop(context.Background())
		return srv.Err()
	}

	con.Plain("")
	con.Info("🛑", "Server stopped by user.")
	if err := srv.Stop(context.Background()); err != nil {
		con.Warn("Forced shutdown: %v", err)
	}
	con.Plain("%s", srv.Metrics().String())
	return nil
}

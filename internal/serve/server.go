// Package serve implements the local HTTP playground: a small static file
// server over a built site plus its search bundle, for previewing a
// pagefind-indexed site without any external tooling.
package serve

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

// Config configures the playground server.
type Config struct {
	Host string
	Port int

	// SiteDir is the built site root (the same directory passed as
	// --source to the indexer).
	SiteDir string

	// BundleDir is the search bundle directory (--bundle-dir-path),
	// served alongside the site under its own path prefix so the
	// playground's JS runtime can fetch it with a relative URL.
	BundleDir string

	// BundleURLPath is the path prefix BundleDir is mounted under,
	// e.g. "/pagefind/".
	BundleURLPath string
}

// DefaultConfig returns sensible defaults for local preview.
func DefaultConfig() Config {
	return Config{
		Host:          "localhost",
		Port:          3000,
		SiteDir:       "public",
		BundleDir:     "public/pagefind",
		BundleURLPath: "/pagefind/",
	}
}

// Server serves a built site and its search bundle over HTTP.
type Server struct {
	httpServer *http.Server
	addr       string
}

// NewServer constructs a Server from cfg, mounting SiteDir at "/" and
// BundleDir at BundleURLPath.
func NewServer(cfg Config) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /__pagefind_health", handleHealth)
	mux.Handle(cfg.BundleURLPath, http.StripPrefix(
		cfg.BundleURLPath, http.FileServer(http.Dir(cfg.BundleDir))))
	mux.Handle("/", http.FileServer(http.Dir(cfg.SiteDir)))

	if !siteHasIndex(cfg.SiteDir) {
		log.Printf("serve: warning: %s has no index.html, did you run the indexer first?", cfg.SiteDir)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.addr
}

// Start runs the server until it receives SIGINT/SIGTERM, then shuts down
// gracefully within a bounded timeout.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving preview on http://%s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Stop(ctx)
}

// Stop shuts the server down, honoring ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// siteHasIndex reports whether dir looks like a built site (has an
// index.html at its root), used by callers deciding whether to warn before
// serving an empty directory.
func siteHasIndex(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "index.html"))
	return err == nil
}

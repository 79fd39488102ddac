package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/render"
	"github.com/hpungsan/crib/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewHandler builds the web UI routes over the shared stores.
func NewHandler(sheets *store.Collection, styles *store.Styles, cfg *config.Config, log logrus.FieldLogger, version string) http.Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.WithError(err).Fatal("failed to create template sub-FS")
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.WithError(err).Fatal("failed to create static sub-FS")
	}

	h := &Handlers{
		sheets:   sheets,
		styles:   styles,
		cfg:      cfg,
		markdown: render.New(cfg),
		renderer: NewRenderer(templateSub, version, log),
		log:      log,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/sheets", http.StatusFound)
	})
	mux.HandleFunc("GET /sheets", h.HandleList)
	mux.HandleFunc("POST /sheets", h.HandleCreate)
	mux.HandleFunc("GET /sheets/new", h.HandleNew)
	mux.HandleFunc("GET /sheets/search", h.HandleSearch)
	mux.HandleFunc("POST /sheets/import", h.HandleImport)
	mux.HandleFunc("GET /sheets/{id}", h.HandleView)
	mux.HandleFunc("POST /sheets/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /sheets/{id}", h.HandleDelete)
	mux.HandleFunc("GET /sheets/{id}/edit", h.HandleEdit)
	mux.HandleFunc("GET /sheets/{id}/delete", h.HandleConfirmDelete)
	mux.HandleFunc("POST /sheets/{id}/delete", h.HandleDelete)
	mux.HandleFunc("GET /sheets/{id}/export", h.HandleExport)

	mux.HandleFunc("GET /styles", h.HandleStyles)
	mux.HandleFunc("POST /styles", h.HandleSaveStyles)
	mux.HandleFunc("POST /styles/reset", h.HandleResetStyles)
	mux.HandleFunc("POST /styles/preset/{name}", h.HandlePreset)
	mux.HandleFunc("GET /styles/export", h.HandleExportStyles)
	mux.HandleFunc("POST /styles/import", h.HandleImportStyles)
	mux.HandleFunc("GET /theme.css", h.HandleTheme)

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return requestLogger(log, securityHeaders(mux))
}

// NewServer creates the HTTP server for the crib web UI, listening on the
// configured bind address and port.
func NewServer(sheets *store.Collection, styles *store.Styles, cfg *config.Config, log logrus.FieldLogger, version string) *http.Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.WebBind, cfg.WebPort),
		Handler:           NewHandler(sheets, styles, cfg, log, version),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogger logs one line per request.
func requestLogger(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request")
			return
		}
		entry.Debug("request")
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logrus.FieldLogger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Infof("crib UI running at http://%s", srv.Addr)

	if strings.HasPrefix(srv.Addr, "0.0.0.0") || strings.HasPrefix(srv.Addr, "[::]") || strings.HasPrefix(srv.Addr, ":") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

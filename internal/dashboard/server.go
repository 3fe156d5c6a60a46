// Package dashboard serves the three-page HTML interface over one
// cached dataset: description, data interaction and visualization.
package dashboard

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/datalens-cli/internal/loader"
	"github.com/KaramelBytes/datalens-cli/internal/render"
	"github.com/KaramelBytes/datalens-cli/internal/table"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the pages.
type Options struct {
	DataFile    string
	Title       string
	Description string
	SampleRows  int
	ChartWidth  int
	ChartHeight int
}

// Server is an http.Handler for the dashboard.
type Server struct {
	opt    Options
	cache  *loader.Cache
	logger *slog.Logger
	mux    *http.ServeMux
	pages  map[string]*template.Template
}

// New wires the routes. The dataset is read through cache on every request.
func New(opt Options, cache *loader.Cache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opt.SampleRows <= 0 {
		opt.SampleRows = 5
	}
	if opt.ChartWidth <= 0 || opt.ChartHeight <= 0 {
		d := render.DefaultOptions()
		opt.ChartWidth, opt.ChartHeight = d.Width, d.Height
	}
	s := &Server{opt: opt, cache: cache, logger: logger, mux: http.NewServeMux(), pages: map[string]*template.Template{}}
	for _, page := range []string{"index", "data", "charts"} {
		s.pages[page] = template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html"))
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /data", s.handleData)
	s.mux.HandleFunc("GET /data/export.csv", s.handleExport)
	s.mux.HandleFunc("GET /charts", s.handleCharts)
	s.mux.HandleFunc("GET /charts/image.png", s.handleChartImage)
	return s
}

type ctxKey struct{}

func requestLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return fallback.With("request_id", id)
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ServeHTTP tags the request with an id and logs the outcome.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	rec.Header().Set("X-Request-ID", id)
	s.mux.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	s.logger.Info("request",
		"request_id", id,
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

// dataset returns the cached table. Load failures are answered with 500.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	t, err := s.cache.Get(s.opt.DataFile)
	if err != nil {
		requestLogger(r.Context(), s.logger).Error("dataset unavailable", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return t, true
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("dashboard listening", "addr", addr)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

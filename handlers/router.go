package handlers

import (
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options configures NewRouter. Store is required.
type Options struct {
	Store Store
	// Static holds the frontend bundle served at the root, if any.
	Static fs.FS
	Logger *slog.Logger
	// Metrics receives request metrics and is exposed at /metrics.
	Metrics        *metrics.Set
	AllowedOrigins []string
	Now            func() time.Time
}

// NewRouter builds the HTTP handler for the phonebook.
func NewRouter(opts Options) http.Handler {
	h := &Handler{store: opts.Store, logger: opts.Logger, now: opts.Now}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	set := opts.Metrics
	if set == nil {
		set = metrics.NewSet()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(meterRequests(set))

	r.NotFound(unknownEndpoint)
	r.MethodNotAllowed(unknownEndpoint)

	r.Route("/api/persons", func(r chi.Router) {
		r.Get("/", h.handle(h.ListPersons))
		r.Post("/", h.handle(h.CreatePerson))
		r.Get("/{id}", h.handle(h.GetPerson))
		r.Put("/{id}", h.handle(h.UpdatePerson))
		r.Delete("/{id}", h.handle(h.DeletePerson))
	})
	r.Get("/info", h.handle(h.GetInfo))

	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		set.WritePrometheus(w)
		metrics.WriteProcessMetrics(w)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Serve static files (UI)
	if opts.Static != nil {
		r.Get("/*", staticFiles(opts.Static))
	}

	return r
}

// staticFiles serves files from fsys and falls back to unknownEndpoint
// for paths that are not files in it.
func staticFiles(fsys fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(fsys))
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() && !hasIndex(fsys, name) {
			unknownEndpoint(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

func hasIndex(fsys fs.FS, dir string) bool {
	_, err := fs.Stat(fsys, path.Join(dir, "index.html"))
	return err == nil
}

package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"rawblog/app/controllers"
	"rawblog/app/middleware"
	"rawblog/app/services"
	"rawblog/app/telemetry"
	"rawblog/app/views"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Options controls the optional parts of the router.
type Options struct {
	Renderer *views.Renderer
	// Registry receives request metrics. A nil registry disables /metrics.
	Registry    *prometheus.Registry
	MetricsPath string
	Tracer      trace.Tracer
	Logger      *log.Logger
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(svc *services.PostService, opts Options) *mux.Router {
	router := mux.NewRouter()

	logger, requestLogger := log.Default(), middleware.Logger
	if opts.Logger != nil {
		logger, requestLogger = opts.Logger, middleware.LoggerTo(opts.Logger)
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Tracing(opts.Tracer))
	if opts.Registry != nil {
		metrics := middleware.NewMetrics(opts.Registry)
		if err := metrics.TrackPosts(svc); err != nil {
			logger.Printf("[routes] post gauge not registered: %v", err)
		}
		router.Use(metrics.Middleware)

		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, telemetry.MetricsHandler(opts.Registry)).Methods("GET")
	}
	router.Use(middleware.WithService(svc))

	postController := controllers.NewPostController(opts.Renderer)

	router.HandleFunc("/healthz", healthz).Methods("GET")

	// Web routes
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/create", postController.Create).Methods("POST")

	posts := router.PathPrefix("/post").Subrouter()
	posts.HandleFunc("/{id:[0-9]+}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/edit", postController.Edit).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/update", postController.Update).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}/delete", postController.Delete).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	apiPosts := api.PathPrefix("/posts").Subrouter()
	apiPosts.HandleFunc("", postController.APIIndex).Methods("GET")
	apiPosts.HandleFunc("", postController.APICreate).Methods("POST")
	apiPosts.HandleFunc("/{id:[0-9]+}", postController.APIShow).Methods("GET")
	apiPosts.HandleFunc("/{id:[0-9]+}", postController.APIUpdate).Methods("PUT")
	apiPosts.HandleFunc("/{id:[0-9]+}", postController.APIDelete).Methods("DELETE")

	router.NotFoundHandler = http.HandlerFunc(notFound)

	return router
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]interface{}{"status": "ok"}
	if svc, ok := services.FromContext(r.Context()); ok {
		if n, err := svc.CountPosts(r.Context()); err == nil {
			status["posts"] = n
		}
	}
	json.NewEncoder(w).Encode(status)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
		return
	}
	http.NotFound(w, r)
}

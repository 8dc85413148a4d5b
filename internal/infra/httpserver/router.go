package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appinsights "github.com/bryanwahyu/insightlens/internal/application/insights"
	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
	"github.com/bryanwahyu/insightlens/internal/middleware"
)

type Router struct {
	svc *appinsights.Service
}

// NewRouter mounts the API surface with CORS, request logging and metrics.
// allowedOrigins feeds the CORS layer (the frontend runs on another port in
// development).
func NewRouter(svc *appinsights.Service, allowedOrigins []string, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.RequestLogger)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/insights", r.wrap(r.handleList))
		rt.Get("/insights/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps the domain failure taxonomy onto HTTP status codes.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err)
			case errors.Is(err, domain.ErrNotFound):
				writeError(w, http.StatusNotFound, err)
			default:
				writeError(w, http.StatusInternalServerError, err)
			}
		}
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}

// POST /api/v1/analyze
// Body: {"text": "...", "url": "..."} — at least one required.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}

	resp, err := r.svc.Analyze(req.Context(), appinsights.AnalyzeCommand{Text: body.Text, URL: body.URL})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /api/v1/insights?skip=&limit=&search=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	list, err := r.svc.List(
		req.Context(),
		middleware.ParseSkip(q.Get("skip")),
		middleware.ParseLimit(q.Get("limit")),
		q.Get("search"),
	)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /api/v1/insights/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be an integer", domain.ErrInvalidInput)
	}

	resp, err := r.svc.Get(req.Context(), domain.InsightID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

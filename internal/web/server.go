// Package web exposes the planner store over a local JSON API and serves a
// printable agenda page.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appLog "atlanend/internal/log"
	"atlanend/internal/store"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options configures a Server.
type Options struct {
	// Location is the timezone used for the calendar export and the agenda
	// dates. If nil, time.Local is used.
	Location *time.Location
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
	// CORSOrigins enables CORS for these origins when non-empty.
	CORSOrigins []string
}

// Server provides the planner API on top of a single Store.
type Server struct {
	store   *store.Store
	loc     *time.Location
	now     func() time.Time
	metrics *Metrics
	router  chi.Router
}

// NewServer constructs a new Server.
func NewServer(st *store.Store, opts Options) *Server {
	s := &Server{
		store:   st,
		loc:     opts.Location,
		now:     opts.Now,
		metrics: NewMetrics(),
		router:  chi.NewRouter(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.registerRoutes(opts.CORSOrigins)
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes(corsOrigins []string) {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.instrument)
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/agenda", s.handleAgenda)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)

		r.Get("/activities", s.handleActivities)
		r.Get("/activities/counts", s.handleCounts)
		r.Post("/activities/{id}/toggle", s.handleToggle)
		r.Put("/filter", s.handleSetFilter)

		r.Get("/schedule", s.handleSchedule)
		r.Delete("/schedule", s.handleClearSchedule)
		r.Post("/schedule/{day}", s.handleAddToSchedule)
		r.Post("/schedule/{day}/reorder", s.handleReorder)
		r.Get("/schedule/{day}/available", s.handleAvailable)
		r.Delete("/schedule/{day}/{id}", s.handleRemoveFromSchedule)
		r.Patch("/schedule/{day}/{id}", s.handleUpdateScheduled)

		r.Get("/themes", s.handleThemes)
		r.Put("/theme", s.handleSetTheme)
		r.Post("/theme/apply", s.handleApplyTheme)
		r.Put("/view", s.handleSetView)

		r.Get("/export", s.handleExport)
		r.Get("/export.ics", s.handleExportICS)
		r.Get("/share", s.handleShare)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summary())
}

// errorResponse is the body of every non-2xx JSON response. Not-found
// responses carry the unchanged state so clients can resync.
type errorResponse struct {
	Error string       `json:"error"`
	State *store.State `json:"state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeUnchanged reports an operation that did not apply.
func (s *Server) writeUnchanged(w http.ResponseWriter, status int, msg string) {
	state := s.store.Snapshot()
	writeJSON(w, status, errorResponse{Error: msg, State: &state})
}

// decode reads a JSON body into dst and runs struct validation on it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return errors.New(describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case strings.HasPrefix(fe.Tag(), "required"):
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// requestID echoes X-Request-ID or assigns a fresh one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// instrument logs each request and feeds the HTTP metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		s.metrics.observeRequest(r.Method, route, status, elapsed)
		appLog.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"elapsed", elapsed.String(),
			"request_id", w.Header().Get("X-Request-ID"),
		)
	})
}

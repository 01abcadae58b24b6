// Package http exposes the site collections and the counter widgets over HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/docu"
	"github.com/aretw0/docu/internal/render"
	"github.com/aretw0/docu/pkg/collection"
	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/widget"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Site is the read side of a docu.Site.
type Site interface {
	Collection(name string) (*collection.Collection, error)
	Collections() []*collection.Collection
	Definitions() []collection.Definition
}

// Server serves the collections of a Site and the counters of a Manager.
type Server struct {
	Site     Site
	Counters *widget.Manager
	Streams  *StreamManager

	renderer *render.Renderer
	metrics  http.Handler
	logger   *slog.Logger
	spec     *openapi3.T
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// New creates a server. The embedded OpenAPI document is loaded and
// validated once here.
func New(site Site, counters *widget.Manager, opts ...Option) (*Server, error) {
	s := &Server{
		Site:     site,
		Counters: counters,
		renderer: render.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.Streams = NewStreamManager(s.logger)

	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	s.spec = spec
	return s, nil
}

// NewHandler is a shortcut for New followed by Handler.
func NewHandler(site Site, counters *widget.Manager, opts ...Option) (http.Handler, error) {
	s, err := New(site, counters, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler()
}

// Handler builds the router.
func (s *Server) Handler() (http.Handler, error) {
	validate, err := validateRequests(s.spec, func(r *http.Request, err error) {
		s.logger.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(Spec())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/events", s.SubscribeEvents)

	r.Route("/api", func(r chi.Router) {
		r.Use(validate)

		r.Get("/collections", s.ListCollections)
		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Get("/schema", s.GetSchema)
			r.Get("/entries", s.ListEntries)
			r.Get("/entry", s.GetEntry)
			r.Get("/issues", s.ListIssues)
		})

		r.Get("/counters", s.ListCounters)
		r.Get("/counters/{counterID}", s.GetCounter)
		r.Delete("/counters/{counterID}", s.UnmountCounter)
		r.Post("/counters/{counterID}/increment", s.IncrementCounter)
	})

	r.Get("/widgets/counter/{counterID}", s.CounterWidget)
	r.Post("/widgets/counter/{counterID}", s.CounterWidgetIncrement)

	return enableCORS(r), nil
}

// NotifyReload tells event subscribers that a document changed.
func (s *Server) NotifyReload(id string) {
	s.Streams.Broadcast(TopicReload, id)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec != nil && s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "docu-http",
		"version":     strings.TrimSpace(docu.Version),
		"api_version": apiVersion,
	})
}

type collectionSummary struct {
	Name    string    `json:"name"`
	Entries int       `json:"entries"`
	Issues  int       `json:"issues"`
	BuiltAt time.Time `json:"builtAt"`
}

// ListCollections handles GET /api/collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols := s.Site.Collections()
	out := make([]collectionSummary, 0, len(cols))
	for _, c := range cols {
		out = append(out, collectionSummary{
			Name:    c.Name(),
			Entries: c.Len(),
			Issues:  len(c.Issues()),
			BuiltAt: c.BuiltAt(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSchema handles GET /api/collections/{collection}/schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")
	for _, def := range s.Site.Definitions() {
		if def.Name == name {
			writeJSON(w, http.StatusOK, def.Schema)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("%v: %s", domain.ErrCollectionNotFound, name))
}

// ListEntries handles GET /api/collections/{collection}/entries.
// Bodies are omitted; GetEntry returns them rendered.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collection(w, r)
	if !ok {
		return
	}
	entries := c.Entries()
	for i := range entries {
		entries[i].Body = ""
	}
	writeJSON(w, http.StatusOK, entries)
}

type entryView struct {
	Entry    domain.Entry  `json:"entry"`
	HTML     string        `json:"html"`
	Previous *domain.Entry `json:"previous,omitempty"`
	Next     *domain.Entry `json:"next,omitempty"`
}

// GetEntry handles GET /api/collections/{collection}/entry?id=.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collection(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	entry, err := c.Get(id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	html, err := s.renderer.HTML(entry.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		s.logger.Error("Render failed", "id", id, "err", err)
		return
	}

	prev, next, err := c.Neighbors(id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	view := entryView{Entry: entry, HTML: html}
	view.Entry.Body = ""
	if p, ok := prev.Get(); ok {
		p.Body = ""
		view.Previous = &p
	}
	if n, ok := next.Get(); ok {
		n.Body = ""
		view.Next = &n
	}
	writeJSON(w, http.StatusOK, view)
}

// ListIssues handles GET /api/collections/{collection}/issues.
func (s *Server) ListIssues(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collection(w, r)
	if !ok {
		return
	}
	issues := c.Issues()
	if issues == nil {
		issues = []collection.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) collection(w http.ResponseWriter, r *http.Request) (*collection.Collection, bool) {
	c, err := s.Site.Collection(chi.URLParam(r, "collection"))
	if err != nil {
		s.writeDomainError(w, err)
		return nil, false
	}
	return c, true
}

type counterView struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
	Label string `json:"label"`
}

func viewCounter(state domain.CounterState) counterView {
	return counterView{ID: state.ID, Count: state.Count, Label: state.Label()}
}

// ListCounters handles GET /api/counters.
func (s *Server) ListCounters(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Counters.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetCounter handles GET /api/counters/{counterID}.
func (s *Server) GetCounter(w http.ResponseWriter, r *http.Request) {
	state, err := s.Counters.Get(r.Context(), chi.URLParam(r, "counterID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCounter(state))
}

// IncrementCounter handles POST /api/counters/{counterID}/increment.
func (s *Server) IncrementCounter(w http.ResponseWriter, r *http.Request) {
	state, ok := s.increment(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewCounter(state))
}

// UnmountCounter handles DELETE /api/counters/{counterID}.
func (s *Server) UnmountCounter(w http.ResponseWriter, r *http.Request) {
	if err := s.Counters.Unmount(r.Context(), chi.URLParam(r, "counterID")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) increment(w http.ResponseWriter, r *http.Request) (domain.CounterState, bool) {
	state, err := s.Counters.Increment(r.Context(), chi.URLParam(r, "counterID"))
	if err != nil {
		s.writeDomainError(w, err)
		return domain.CounterState{}, false
	}
	if b, err := json.Marshal(viewCounter(state)); err == nil {
		s.Streams.Broadcast(CounterTopic(state.ID), string(b))
	}
	return state, true
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8" />
<title>{{.Label}}</title>
</head>
<body>
{{.Widget}}
</body>
</html>
`))

// CounterWidget handles GET /widgets/counter/{counterID}. The instance is
// mounted on first view.
func (s *Server) CounterWidget(w http.ResponseWriter, r *http.Request) {
	state, err := s.Counters.Mount(r.Context(), chi.URLParam(r, "counterID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writePage(w, r, state)
}

// CounterWidgetIncrement handles POST /widgets/counter/{counterID}: the
// increment action followed by a re-render.
func (s *Server) CounterWidgetIncrement(w http.ResponseWriter, r *http.Request) {
	state, ok := s.increment(w, r)
	if !ok {
		return
	}
	s.writePage(w, r, state)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, state domain.CounterState) {
	markup, err := widget.Render(state, r.URL.Path)
	if err != nil {
		http.Error(w, "Failed to render widget", http.StatusInternalServerError)
		s.logger.Error("Widget render failed", "counter_id", state.ID, "err", err)
		return
	}

	// Fragment requests (fetch, htmx) receive the widget alone.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Header.Get("HX-Request") != "" || r.URL.Query().Has("fragment") {
		w.Write([]byte(markup))
		return
	}
	err = pageTemplate.Execute(w, struct {
		Label  string
		Widget template.HTML
	}{state.Label(), markup})
	if err != nil {
		s.logger.Error("Page render failed", "counter_id", state.ID, "err", err)
	}
}

// SubscribeEvents handles GET /events (SSE). With ?counter=<id> it streams
// the updates of that counter, otherwise the IDs of reloaded documents.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	topic := TopicReload
	if id := r.URL.Query().Get("counter"); id != "" {
		topic = CounterTopic(id)
	}
	s.Streams.serveEvents(w, r, topic)
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCollectionNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrCounterNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, widget.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		s.logger.Error("Request failed", "err", err)
	}
}

// writeJSON encodes v before touching the response so an unencodable value
// becomes a 500 instead of a 200 with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("encode response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

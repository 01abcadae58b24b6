// Package mcp exposes the site collections and counters as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/docu"
	"github.com/aretw0/docu/pkg/collection"
	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/frontmatter"
	"github.com/aretw0/docu/pkg/schema"
	"github.com/aretw0/docu/pkg/widget"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Site is the read side of a docu.Site.
type Site interface {
	Collection(name string) (*collection.Collection, error)
	Definitions() []collection.Definition
}

// Server exposes a Site and a counter Manager as an MCP Server.
type Server struct {
	site      Site
	counters  *widget.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(site Site, counters *widget.Manager, opts ...Option) *Server {
	s := &Server{
		site:      site,
		counters:  counters,
		mcpServer: server.NewMCPServer("docu-mcp", strings.TrimSpace(docu.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EntriesResponse is the result of list_entries.
type EntriesResponse struct {
	Collection string         `json:"collection"`
	Entries    []domain.Entry `json:"entries" jsonschema_description:"Entries ordered by number, without bodies"`
	Issues     int            `json:"issues" jsonschema_description:"Number of rejected documents"`
}

// EntryResponse is the result of get_entry.
type EntryResponse struct {
	Entry    domain.Entry  `json:"entry"`
	Previous *domain.Entry `json:"previous,omitempty"`
	Next     *domain.Entry `json:"next,omitempty"`
}

// FieldError describes one failing front-matter field.
type FieldError struct {
	Key      string `json:"key"`
	Expected string `json:"expected,omitempty"`
	Reason   string `json:"reason"`
}

// ValidationResponse is the result of validate_document.
type ValidationResponse struct {
	Valid    bool             `json:"valid"`
	ID       string           `json:"id,omitempty"`
	Document *domain.Document `json:"document,omitempty"`
	Fields   map[string]any   `json:"fields,omitempty"`
	Message  string           `json:"message,omitempty"`
	Errors   []FieldError     `json:"errors,omitempty"`
}

// CounterResponse is the result of increment_counter.
type CounterResponse struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
	Label string `json:"label"`
}

type listEntriesArgs struct {
	Collection string `json:"collection"`
}

type getEntryArgs struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type validateArgs struct {
	Collection string   `json:"collection"`
	Path       string   `json:"path"`
	Markdown   string   `json:"markdown"`
	Fields     []string `json:"fields"`
}

type counterArgs struct {
	ID string `json:"id"`
}

func (s *Server) registerTools() {
	collectionArg := mcp.WithString("collection",
		mcp.Description("Collection name (default: docu)"))

	s.mcpServer.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("List the valid entries of a collection ordered by number."),
		collectionArg,
		mcp.WithOutputSchema[EntriesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListEntries))

	s.mcpServer.AddTool(mcp.NewTool("get_entry",
		mcp.WithDescription("Get one entry, its markdown body and its resolved previous/next entries."),
		collectionArg,
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry ID, e.g. guides/setup")),
		mcp.WithOutputSchema[EntryResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetEntry))

	s.mcpServer.AddTool(mcp.NewTool("validate_document",
		mcp.WithDescription("Validate a markdown document with front-matter against a collection schema."),
		collectionArg,
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Full document source, front-matter included")),
		mcp.WithString("path", mcp.Description("Path used to derive the entry ID (default: document.md)")),
		mcp.WithArray("fields", mcp.WithStringItems(),
			mcp.Description("Check only these front-matter fields, for drafts that are not complete yet")),
		mcp.WithOutputSchema[ValidationResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidateDocument))

	s.mcpServer.AddTool(mcp.NewTool("increment_counter",
		mcp.WithDescription("Apply the increment action to a counter widget instance."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Counter instance ID")),
		mcp.WithOutputSchema[CounterResponse](),
	), mcp.NewStructuredToolHandler(s.handleIncrementCounter))
}

func collectionName(name string) string {
	if name == "" {
		return collection.DocuName
	}
	return name
}

func (s *Server) handleListEntries(ctx context.Context, request mcp.CallToolRequest, args listEntriesArgs) (EntriesResponse, error) {
	c, err := s.site.Collection(collectionName(args.Collection))
	if err != nil {
		return EntriesResponse{}, err
	}
	entries := c.Entries()
	for i := range entries {
		entries[i].Body = ""
	}
	return EntriesResponse{Collection: c.Name(), Entries: entries, Issues: len(c.Issues())}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, request mcp.CallToolRequest, args getEntryArgs) (EntryResponse, error) {
	c, err := s.site.Collection(collectionName(args.Collection))
	if err != nil {
		return EntryResponse{}, err
	}
	entry, err := c.Get(args.ID)
	if err != nil {
		return EntryResponse{}, err
	}
	prev, next, err := c.Neighbors(args.ID)
	if err != nil {
		return EntryResponse{}, err
	}

	resp := EntryResponse{Entry: entry}
	if p, ok := prev.Get(); ok {
		p.Body = ""
		resp.Previous = &p
	}
	if n, ok := next.Get(); ok {
		n.Body = ""
		resp.Next = &n
	}
	return resp, nil
}

func (s *Server) handleValidateDocument(ctx context.Context, request mcp.CallToolRequest, args validateArgs) (ValidationResponse, error) {
	def, err := s.definition(collectionName(args.Collection))
	if err != nil {
		return ValidationResponse{}, err
	}
	path := args.Path
	if path == "" {
		path = "document.md"
	}

	if len(args.Fields) > 0 {
		return s.validateFields(def, path, args), nil
	}

	entry, err := collection.ParseEntry(def, path, []byte(args.Markdown))
	if err != nil {
		s.logger.Debug("MCP validate_document: rejected", "path", path, "err", err)
		return rejection(err), nil
	}
	return ValidationResponse{Valid: true, ID: entry.ID, Document: &entry.Data, Fields: entry.Fields}, nil
}

// validateFields checks a subset of the schema. The document is not decoded,
// so only the ID is reported on success.
func (s *Server) validateFields(def collection.Definition, path string, args validateArgs) ValidationResponse {
	data, _, err := frontmatter.ParseBytes([]byte(args.Markdown))
	if err != nil {
		return rejection(err)
	}
	if err := schema.ValidateFields(def.Schema, data, args.Fields...); err != nil {
		s.logger.Debug("MCP validate_document: fields rejected", "path", path, "fields", args.Fields, "err", err)
		return rejection(err)
	}
	return ValidationResponse{Valid: true, ID: collection.ResolveID(path, data)}
}

func rejection(err error) ValidationResponse {
	resp := ValidationResponse{Message: err.Error()}
	var issue collection.Issue
	if errors.As(err, &issue) && issue.Err != nil {
		resp.Message = issue.Err.Error()
	}
	for _, fe := range schema.ValidationErrors(err) {
		resp.Errors = append(resp.Errors, FieldError{Key: fe.Key, Expected: fe.Expected, Reason: fe.Reason})
	}
	return resp
}

func (s *Server) handleIncrementCounter(ctx context.Context, request mcp.CallToolRequest, args counterArgs) (CounterResponse, error) {
	state, err := s.counters.Increment(ctx, args.ID)
	if err != nil {
		return CounterResponse{}, err
	}
	return CounterResponse{ID: state.ID, Count: state.Count, Label: state.Label()}, nil
}

func (s *Server) definition(name string) (collection.Definition, error) {
	for _, def := range s.site.Definitions() {
		if def.Name == name {
			return def, nil
		}
	}
	return collection.Definition{}, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
}

func (s *Server) registerResources() {
	// EXPOSE: docu://schema
	s.mcpServer.AddResource(mcp.NewResource("docu://schema", "Front-matter schema of the docu collection",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		def, err := s.definition(collection.DocuName)
		if err != nil {
			return nil, err
		}
		jsonBytes, err := json.Marshal(def.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "docu://schema",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

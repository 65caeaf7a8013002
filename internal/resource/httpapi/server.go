// Package httpapi is a loopback-only net/http binding over
// internal/resource, grounded on the teacher's internal/rpc/http_server.go
// (health/readiness endpoints, bearer-token auth, JSON bodies) but routing
// resource nouns instead of a fixed RPC operation set.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/linguistics"
	"github.com/ikari-pl/littera/internal/linguistics/simple"
	"github.com/ikari-pl/littera/internal/resource"
)

// maxBodyBytes caps request bodies the same way the teacher's handleRPC
// does (10MB), since a Work's Bundle export/import is the only payload
// shape here that could plausibly be large.
const maxBodyBytes = 10 * 1024 * 1024

// DB resolves a live connection for the Work this server front-ends. It
// is a function rather than a stored *sql.DB so the server can be started
// before the embedded cluster is up and reconnect transparently if it is
// ever recycled (spec.md §4.1: "stops after a configurable idle lease").
type DB func(ctx context.Context) (*sql.DB, error)

// Server wraps internal/resource's registry with an HTTP transport. It
// never binds anything but loopback (spec.md §4.1: "bind loopback only;
// never listen on a routable interface").
type Server struct {
	registry   resource.Registry
	db         DB
	linguistic linguistics.Provider
	token      string
	addr       string
	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
}

// NewServer builds a Server bound to addr (host:port, host should be
// 127.0.0.1), authenticating every /v1 route with token when non-empty. It renders
// Mention surface forms with internal/linguistics/simple, the reference
// Provider; nothing in this package depends on that choice beyond this
// one construction site.
func NewServer(db DB, addr, token string) *Server {
	return &Server{registry: resource.NewRegistry(), db: db, addr: addr, token: token, linguistic: simple.New()}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /v1/{kind}", s.withAuth(s.handleList))
	mux.HandleFunc("POST /v1/{kind}", s.withAuth(s.handleCreate))
	mux.HandleFunc("GET /v1/{kind}/{id}", s.withAuth(s.handleRead))
	mux.HandleFunc("PUT /v1/{kind}/{id}", s.withAuth(s.handleUpdate))
	mux.HandleFunc("PATCH /v1/{kind}/{id}", s.withAuth(s.handleUpdate))
	mux.HandleFunc("DELETE /v1/{kind}/{id}", s.withAuth(s.handleDelete))
	mux.HandleFunc("GET /v1/alignment-gaps", s.withAuth(s.handleAlignmentGaps))
	mux.HandleFunc("GET /v1/works/{id}/export.json", s.withAuth(s.handleExportJSON))
	mux.HandleFunc("GET /v1/works/{id}/export.md", s.withAuth(s.handleExportMarkdown))
	mux.HandleFunc("POST /v1/import", s.withAuth(s.handleImport))
	mux.HandleFunc("POST /v1/sections/{id}/blocks:batch", s.withAuth(s.handleBatchUpdate))
	mux.HandleFunc("GET /v1/mentions/{id}/surface", s.withAuth(s.handleMentionSurface))
	mux.HandleFunc("GET /v1/blocks/{id}/mentions/surfaces", s.withAuth(s.handleBlockMentionSurfaces))

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	host, _, err := net.SplitHostPort(s.addr)
	if err != nil {
		return fmt.Errorf("httpapi: parse listen address %s: %w", s.addr, err)
	}
	if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		return fmt.Errorf("httpapi: refusing to listen on non-loopback address %s", s.addr)
	}
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("httpapi: listen on %s: %w", s.addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	return s.httpServer.Serve(s.listener)
}

// Addr returns the address actually bound, resolving port 0 (as in
// "127.0.0.1:0") to its assigned ephemeral port once Start has run.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.token {
				writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "reason": err.Error()})
		return
	}
	if err := db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "reason": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) resourceFor(w http.ResponseWriter, r *http.Request) (resource.Resource, *sql.DB, bool) {
	kind := resource.Kind(r.PathValue("kind"))
	res, ok := s.registry[kind]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown resource kind: %s", kind))
		return resource.Resource{}, nil, false
	}
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return resource.Resource{}, nil, false
	}
	return res, db, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	res, db, ok := s.resourceFor(w, r)
	if !ok {
		return
	}
	if res.Lister == nil {
		writeError(w, http.StatusMethodNotAllowed, "this resource cannot be listed")
		return
	}
	params := queryParams(r)
	out, err := res.Lister.List(r.Context(), db, params)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	res, db, ok := s.resourceFor(w, r)
	if !ok {
		return
	}
	if res.Reader == nil {
		writeError(w, http.StatusMethodNotAllowed, "this resource cannot be read by id")
		return
	}
	out, err := res.Reader.Read(r.Context(), db, r.PathValue("id"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	res, db, ok := s.resourceFor(w, r)
	if !ok {
		return
	}
	if res.Writer == nil {
		writeError(w, http.StatusMethodNotAllowed, "this resource cannot be created")
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := res.Writer.Create(r.Context(), db, queryParams(r), body, requestOptions(r))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	res, db, ok := s.resourceFor(w, r)
	if !ok {
		return
	}
	if res.Writer == nil {
		writeError(w, http.StatusMethodNotAllowed, "this resource cannot be updated")
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := res.Writer.Update(r.Context(), db, r.PathValue("id"), queryParams(r), body, requestOptions(r))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	res, db, ok := s.resourceFor(w, r)
	if !ok {
		return
	}
	if res.Writer == nil {
		writeError(w, http.StatusMethodNotAllowed, "this resource cannot be deleted")
		return
	}
	if err := res.Writer.Delete(r.Context(), db, r.PathValue("id"), requestOptions(r)); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMentionSurface(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out, err := command.RenderMentionSurface(r.Context(), db, r.PathValue("id"), s.linguistic, nil)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBlockMentionSurfaces renders every Mention on a Block in one
// round trip, fanning the per-Mention lookups out concurrently
// (command.RenderMentionSurfacesByBlock) rather than making a client
// issue one /v1/mentions/{id}/surface request per Mention.
func (s *Server) handleBlockMentionSurfaces(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out, err := command.RenderMentionSurfacesByBlock(r.Context(), db, r.PathValue("id"), s.linguistic, nil)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAlignmentGaps(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	sectionIDs := r.URL.Query()["section"]
	out, err := resource.AlignmentGaps(r.Context(), db, sectionIDs)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out, err := resource.ExportBundle(r.Context(), db, r.PathValue("id"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	md, err := resource.ExportMarkdown(r.Context(), db, r.PathValue("id"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(md))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	var b command.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid bundle JSON: "+err.Error())
		return
	}
	if err := resource.ImportBundle(r.Context(), db, &b, requestOptions(r)); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	db, err := s.db(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	var items []command.BlockBatchItem
	if err := json.Unmarshal(data, &items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch JSON: "+err.Error())
		return
	}
	out, err := resource.BatchUpdateBlocks(r.Context(), db, r.PathValue("id"), items, requestOptions(r))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func queryParams(r *http.Request) resource.Params {
	p := resource.Params{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	for _, key := range []string{"work_id", "document_id", "section_id", "parent_id", "block_id", "entity_id"} {
		if v := r.PathValue(key); v != "" {
			p[key] = v
		}
	}
	return p
}

func requestOptions(r *http.Request) command.Options {
	q := r.URL.Query()
	return command.Options{
		DryRun: q.Get("dry_run") == "true",
		Force:  q.Get("force") == "true",
	}
}

func readBody(r *http.Request) (resource.Body, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return resource.Body{}, nil
	}
	var b resource.Body
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return b, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeErrorFrom maps an errs.Error's Kind to an HTTP status the way
// cmd/littera's exitCode maps it to a process exit code, so both
// transports agree on failure semantics (spec.md §7).
func writeErrorFrom(w http.ResponseWriter, err error) {
	var status int
	switch errs.KindOf(err) {
	case errs.NotFound:
		status = http.StatusNotFound
	case errs.Conflict:
		status = http.StatusConflict
	case errs.InvariantViolation:
		status = http.StatusConflict
	case errs.InvalidInput:
		status = http.StatusBadRequest
	case errs.BackendUnavailable:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	writeError(w, status, err.Error())
}

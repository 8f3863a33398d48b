// Package http exposes window queries over a JSON API.
//
// The handler opens sessions for files under a configured root
// directory and serves header and grid chunks against them. Sessions
// are addressed by server-assigned IDs and stay open until deleted, so
// a scrolling client pays the indexing cost once.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/meigma/sheet"
)

// maxChunk caps per-request window dimensions so a single query cannot
// allocate unbounded result memory. Larger requests are clamped, which
// mirrors the library's short-result semantics.
const maxChunk = 10_000

// Handler serves sessions over files beneath a root directory.
type Handler struct {
	root        string
	logger      *slog.Logger
	sessionOpts []sheet.Option
	router      chi.Router

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sheet.Session
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for request diagnostics.
// If not set, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithSessionOptions sets options applied to every session the handler
// opens (delimiter, decoder limits).
func WithSessionOptions(opts ...sheet.Option) Option {
	return func(h *Handler) {
		h.sessionOpts = opts
	}
}

// NewHandler creates a Handler serving files beneath root.
func NewHandler(root string, opts ...Option) *Handler {
	h := &Handler{
		root:     root,
		sessions: make(map[uuid.UUID]*sheet.Session),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/sessions", h.handleOpen)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.handleInfo)
		r.Get("/header", h.handleHeader)
		r.Get("/grid", h.handleGrid)
		r.Delete("/", h.handleClose)
	})

	h.router = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Close releases every open session. Call it when tearing the server
// down.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for id, s := range h.sessions {
		errs = append(errs, s.Close())
		delete(h.sessions, id)
	}
	return errors.Join(errs...)
}

func (h *Handler) log() *slog.Logger {
	if h.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.logger
}

type openRequest struct {
	Path string `json:"path"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	TotalRows int64  `json:"total_rows"`
	TotalCols int64  `json:"total_cols"`
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" || !filepath.IsLocal(req.Path) {
		writeError(w, http.StatusBadRequest, "path must be relative and stay within the served root")
		return
	}

	s, err := sheet.Open(filepath.Join(h.root, req.Path), h.sessionOpts...)
	if err != nil {
		h.log().Warn("open failed", "path", req.Path, "error", err)
		switch {
		case errors.Is(err, sheet.ErrNotFound):
			writeError(w, http.StatusNotFound, "file not found")
		case errors.Is(err, sheet.ErrPermission):
			writeError(w, http.StatusForbidden, "permission denied")
		default:
			writeError(w, http.StatusInternalServerError, "could not map file")
		}
		return
	}

	id := uuid.New()
	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	h.log().Info("session opened",
		"id", id,
		"path", req.Path,
		"rows", s.TotalRows(),
		"cols", s.TotalCols(),
	)
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        id.String(),
		TotalRows: s.TotalRows(),
		TotalCols: s.TotalCols(),
	})
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer s.Close()

	writeJSON(w, http.StatusOK, sessionResponse{
		ID:        id.String(),
		TotalRows: s.TotalRows(),
		TotalCols: s.TotalCols(),
	})
}

type headerResponse struct {
	Names []string `json:"names"`
}

func (h *Handler) handleHeader(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer s.Close()

	colStart, ok := queryInt64(w, r, "col_start")
	if !ok {
		return
	}
	colCount, ok := queryCount(w, r, "col_count")
	if !ok {
		return
	}

	names := s.GetHeaderChunk(colStart, colCount)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, headerResponse{Names: names})
}

type gridResponse struct {
	Rows []sheet.RowData `json:"rows"`
}

func (h *Handler) handleGrid(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer s.Close()

	rowStart, ok := queryInt64(w, r, "row_start")
	if !ok {
		return
	}
	rowCount, ok := queryCount(w, r, "row_count")
	if !ok {
		return
	}
	colStart, ok := queryInt64(w, r, "col_start")
	if !ok {
		return
	}
	colCount, ok := queryCount(w, r, "col_count")
	if !ok {
		return
	}

	rows := s.GetGridChunk(rowStart, rowCount, colStart, colCount)
	if rows == nil {
		rows = []sheet.RowData{}
	}
	for i := range rows {
		if rows[i].Cells == nil {
			rows[i].Cells = []string{}
		}
	}
	writeJSON(w, http.StatusOK, gridResponse{Rows: rows})
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	if err := s.Close(); err != nil {
		h.log().Warn("session close failed", "id", id, "error", err)
	}
	h.log().Info("session closed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// acquire looks up the request's session and takes a reference on it,
// so a concurrent delete cannot release the mapping while a query is
// reading. Callers must Close the returned session.
func (h *Handler) acquire(w http.ResponseWriter, r *http.Request) (uuid.UUID, *sheet.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, nil, false
	}

	h.mu.RLock()
	s, ok := h.sessions[id]
	if ok {
		s.Retain()
	}
	h.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return uuid.Nil, nil, false
	}
	return id, s, true
}

func queryInt64(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return v, true
}

func queryCount(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	v, ok := queryInt64(w, r, key)
	if !ok {
		return 0, false
	}
	if v > maxChunk {
		v = maxChunk
	}
	return int(v), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

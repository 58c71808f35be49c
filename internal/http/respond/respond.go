// Package respond holds the request decoding and JSON response helpers
// shared by the handlers.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/paging"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Decode reads a JSON body into v. On failure it answers 400 and returns
// false.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	return true
}

// ID parses the named URL parameter as a UUID, answering 400 when it is not
// one.
func ID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}

	return id, true
}

// Date parses an optional YYYY-MM-DD (or RFC 3339) query value.
func Date(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			Error(w, http.StatusBadRequest, name+" must be a date (YYYY-MM-DD)")
			return nil, false
		}
	}

	return &t, true
}

// OptionalID parses an optional UUID query value.
func OptionalID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}

	id, err := uuid.Parse(s)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}

	return &id, true
}

// IDs parses a comma separated list of UUIDs.
func IDs(w http.ResponseWriter, r *http.Request, name string) ([]uuid.UUID, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}

	var ids []uuid.UUID

	for part := range strings.SplitSeq(s, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid "+name)
			return nil, false
		}

		ids = append(ids, id)
	}

	return ids, true
}

func Page(r *http.Request) paging.Params {
	q := r.URL.Query()
	return paging.Parse(q.Get("page"), q.Get("limit"))
}

type Paginated[T any] struct {
	Data       []T         `json:"data"`
	Pagination paging.Meta `json:"pagination"`
}

// List maps items into a paginated envelope.
func List[S, T any](items []S, meta paging.Meta, fn func(S) T) Paginated[T] {
	return Paginated[T]{Data: Map(items, fn), Pagination: meta}
}

// Map converts every item with fn. It never returns nil so empty lists
// encode as [].
func Map[S, T any](items []S, fn func(S) T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}

	return out
}

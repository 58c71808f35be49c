package tag

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	movementhttp "github.com/MrJamesThe3rd/tally/internal/http/movement"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/movement"
	"github.com/MrJamesThe3rd/tally/internal/tag"
)

type Handler struct {
	svc       *tag.Service
	movements *movement.Service
	authz     guard.Authorizer
}

func NewHandler(svc *tag.Service, movements *movement.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, movements: movements, authz: authz}
}

func (h *Handler) Routes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.list)
	guard.With(r, h.authz, access.PermView).Get("/{tagID}", h.get)
	guard.With(r, h.authz, access.PermView).Get("/{tagID}/movements", h.movementsByTag)
	guard.With(r, h.authz, access.PermCreate).Post("/", h.create)
	guard.With(r, h.authz, access.PermEdit).Put("/{tagID}", h.update)
	guard.With(r, h.authz, access.PermDelete).Delete("/{tagID}", h.delete)
}

type tagResponse struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"accountId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Usage     int       `json:"usageCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(t *tag.Tag) tagResponse {
	return tagResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Name:      t.Name,
		Color:     t.Color,
		Usage:     t.Usage,
		CreatedAt: t.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.List(r.Context(), guard.AccountID(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(tags, toResponse))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "tagID")
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), guard.AccountID(r), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) movementsByTag(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "tagID")
	if !ok {
		return
	}

	accountID := guard.AccountID(r)

	// 404 for tags of other accounts rather than an empty page.
	if _, err := h.svc.Get(r.Context(), accountID, id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	filter, ok := movementhttp.Filter(w, r)
	if !ok {
		return
	}

	filter.TagID = &id

	items, meta, err := h.movements.List(r.Context(), accountID, filter, respond.Page(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.List(items, meta, movementhttp.NewResponse))
}

type createRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	t, err := h.svc.Create(r.Context(), guard.AccountID(r), req.Name, req.Color)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

type updateRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "tagID")
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	t, err := h.svc.Update(r.Context(), guard.AccountID(r), id, tag.UpdateParams{Name: req.Name, Color: req.Color})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "tagID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), guard.AccountID(r), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

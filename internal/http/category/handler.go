package category

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type Handler struct {
	svc   *category.Service
	authz guard.Authorizer
}

func NewHandler(svc *category.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

// Routes serves the categories of the account in the mount path.
func (h *Handler) Routes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.list)

	r.Group(func(r chi.Router) {
		r.Use(guard.Account(h.authz, access.PermManageCategories))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

// GlobalRoutes serves the templates copied into new accounts. Anyone signed in
// can read them; changes need an admin.
func (h *Handler) GlobalRoutes(r chi.Router) {
	r.Get("/", h.listGlobal)

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAdmin)
		r.Post("/", h.createGlobal)
		r.Put("/{id}", h.updateGlobal)
		r.Delete("/{id}", h.deleteGlobal)
	})
}

type categoryResponse struct {
	ID        uuid.UUID     `json:"id"`
	AccountID *uuid.UUID    `json:"accountId,omitempty"`
	Name      string        `json:"name"`
	Type      category.Type `json:"type"`
	Order     int           `json:"order"`
	Global    bool          `json:"isGlobal"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		AccountID: c.AccountID,
		Name:      c.Name,
		Type:      c.Type,
		Order:     c.Order,
		Global:    c.Global,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type createRequest struct {
	Name  string        `json:"name"`
	Type  category.Type `json:"type"`
	Order int           `json:"order"`
}

func (req createRequest) params() category.CreateParams {
	return category.CreateParams{Name: req.Name, Type: req.Type, Order: req.Order}
}

type updateRequest struct {
	Name  *string        `json:"name,omitempty"`
	Type  *category.Type `json:"type,omitempty"`
	Order *int           `json:"order,omitempty"`
}

func (req updateRequest) params() category.UpdateParams {
	return category.UpdateParams{Name: req.Name, Type: req.Type, Order: req.Order}
}

func typeParam(r *http.Request) *category.Type {
	if s := r.URL.Query().Get("type"); s != "" {
		return new(category.Type(s))
	}

	return nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context(), guard.AccountID(r), typeParam(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(cats, toResponse))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), guard.AccountID(r), req.params())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Update(r.Context(), guard.AccountID(r), id, req.params())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), guard.AccountID(r), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listGlobal(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListGlobal(r.Context(), typeParam(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(cats, toResponse))
}

func (h *Handler) createGlobal(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.CreateGlobal(r.Context(), req.params())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) updateGlobal(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.UpdateGlobal(r.Context(), id, req.params())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) deleteGlobal(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteGlobal(r.Context(), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package movement

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/movement"
)

type Handler struct {
	svc   *movement.Service
	authz guard.Authorizer
}

func NewHandler(svc *movement.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

func (h *Handler) Routes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.list)
	guard.With(r, h.authz, access.PermView).Get("/{movementID}", h.get)
	guard.With(r, h.authz, access.PermCreate).Post("/", h.create)
	guard.With(r, h.authz, access.PermCreate).Post("/bulk", h.bulkCreate)
	guard.With(r, h.authz, access.PermEdit).Put("/{movementID}", h.update)
	guard.With(r, h.authz, access.PermEdit).Put("/{movementID}/confirm", h.confirm)
	guard.With(r, h.authz, access.PermDelete).Delete("/{movementID}", h.delete)
}

// Filter reads the list filters shared by every movement listing. It writes
// a 400 and returns false on a malformed value.
func Filter(w http.ResponseWriter, r *http.Request) (movement.ListFilter, bool) {
	q := r.URL.Query()

	var filter movement.ListFilter

	if s := q.Get("type"); s != "" {
		filter.Type = new(movement.Type(s))
	}

	if s := q.Get("state"); s != "" {
		filter.State = new(movement.State(s))
	}

	if s := q.Get("provider"); s != "" {
		filter.Provider = &s
	}

	if s := q.Get("search"); s != "" {
		filter.Search = &s
	}

	var ok bool

	if filter.CategoryID, ok = respond.OptionalID(w, r, "categoryId"); !ok {
		return filter, false
	}

	if filter.TagID, ok = respond.OptionalID(w, r, "tagId"); !ok {
		return filter, false
	}

	if filter.From, ok = respond.Date(w, r, "from"); !ok {
		return filter, false
	}

	if filter.To, ok = respond.Date(w, r, "to"); !ok {
		return filter, false
	}

	return filter, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, ok := Filter(w, r)
	if !ok {
		return
	}

	items, meta, err := h.svc.List(r.Context(), guard.AccountID(r), filter, respond.Page(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.List(items, meta, NewResponse))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "movementID")
	if !ok {
		return
	}

	m, err := h.svc.Get(r.Context(), guard.AccountID(r), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewResponse(m))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req ParamsDTO
	if !respond.Decode(w, r, &req) {
		return
	}

	m, err := h.svc.Create(r.Context(), guard.AccountID(r), req.Params(movement.OriginManual))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, NewResponse(m))
}

type bulkRequest struct {
	Movements []ParamsDTO `json:"movements"`
}

type skippedResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type bulkResponse struct {
	Created []Response        `json:"created"`
	Skipped []skippedResponse `json:"skipped"`
}

func (h *Handler) bulkCreate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := make([]movement.CreateParams, 0, len(req.Movements))
	for _, p := range req.Movements {
		params = append(params, p.Params(movement.OriginManual))
	}

	res, err := h.svc.BulkCreate(r.Context(), guard.AccountID(r), params)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, bulkResponse{
		Created: respond.Map(res.Created, NewResponse),
		Skipped: respond.Map(res.Skipped, func(s movement.Skipped) skippedResponse {
			return skippedResponse{Index: s.Index, Reason: s.Reason}
		}),
	})
}

type updateRequest struct {
	Type        *movement.Type   `json:"type,omitempty"`
	Date        *Date            `json:"date,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	CategoryID  *uuid.UUID       `json:"categoryId,omitempty"`
	Provider    *string          `json:"provider,omitempty"`
	Description *string          `json:"description,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	State       *movement.State  `json:"state,omitempty"`
	TagIDs      *[]uuid.UUID     `json:"tagIds,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "movementID")
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := movement.UpdateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Provider:    req.Provider,
		Description: req.Description,
		Notes:       req.Notes,
		State:       req.State,
		TagIDs:      req.TagIDs,
	}

	if req.Date != nil {
		params.Date = new(time.Time(*req.Date))
	}

	m, err := h.svc.Update(r.Context(), guard.AccountID(r), id, params)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewResponse(m))
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "movementID")
	if !ok {
		return
	}

	m, err := h.svc.Confirm(r.Context(), guard.AccountID(r), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewResponse(m))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "movementID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), guard.AccountID(r), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

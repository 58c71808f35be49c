package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type Handler struct {
	svc   *account.Service
	authz guard.Authorizer
}

func NewHandler(svc *account.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

// Routes serves the account collection.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

// AccountRoutes serves a single account. It expects the {accountID} URL
// parameter to be part of the mount path.
func (h *Handler) AccountRoutes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.get)
	guard.With(r, h.authz, access.PermEdit).Put("/", h.update)
	guard.With(r, h.authz, access.PermDelete).Delete("/", h.archive)

	guard.With(r, h.authz, access.PermView).Get("/members", h.members)

	r.Group(func(r chi.Router) {
		r.Use(guard.Account(h.authz, access.PermInviteUsers))
		r.Post("/members", h.invite)
		r.Put("/members/{userID}", h.changeRole)
		r.Delete("/members/{userID}", h.removeMember)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := guard.Principal(r)

	var filter account.ListFilter

	if s := q.Get("state"); s != "" {
		filter.State = new(access.AccountState(s))
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(account.Type(s))
	}

	all := q.Get("all") == "true"
	if all && !p.IsAdmin {
		respond.Error(w, http.StatusForbidden, "admin access required")
		return
	}

	accounts, err := h.svc.List(r.Context(), p, all, filter)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(accounts, toSummary))
}

type createRequest struct {
	Name     string       `json:"name"`
	Type     account.Type `json:"type"`
	Currency string       `json:"currency"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	acc, err := h.svc.Create(r.Context(), guard.Principal(r), account.CreateParams{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(acc))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Get(r.Context(), guard.Grant(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDetail(detail))
}

type updateRequest struct {
	Name     *string              `json:"name,omitempty"`
	Type     *account.Type        `json:"type,omitempty"`
	Currency *string              `json:"currency,omitempty"`
	State    *access.AccountState `json:"state,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	res, err := h.svc.Update(r.Context(), guard.Grant(r), account.UpdateParams{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
		State:    req.State,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toUpdate(res))
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Archive(r.Context(), guard.Grant(r)); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) members(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Members(r.Context(), guard.Grant(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(members, toMember))
}

type inviteRequest struct {
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
}

func (h *Handler) invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	m, err := h.svc.Invite(r.Context(), guard.Grant(r), req.Email, req.Role)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toMember(m))
}

type changeRoleRequest struct {
	Role access.Role `json:"role"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	var req changeRoleRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.ChangeRole(r.Context(), guard.Grant(r), userID, req.Role); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(r.Context(), guard.Grant(r), userID); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

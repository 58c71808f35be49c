package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/paging"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

// PublicRoutes are the sign-up and sign-in endpoints.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// Routes are the authenticated caller's own endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/profile", h.profile)
	r.Put("/profile", h.updateProfile)
	r.Put("/change-password", h.changePassword)
	r.Post("/refresh", h.refresh)
}

// AdminRoutes manage every user. The caller must be an admin.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{userID}", h.get)
	r.Put("/{userID}", h.update)
	r.Delete("/{userID}", h.delete)
	r.Put("/{userID}/reset-password", h.resetPassword)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	session, err := h.svc.Register(r.Context(), user.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSession(session))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSession(session))
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), guard.Principal(r).UserID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toProfile(p))
}

type updateProfileRequest struct {
	Name *string `json:"name"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), guard.Principal(r).UserID, req.Name)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(u))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.ChangePassword(r.Context(), guard.Principal(r).UserID, req.CurrentPassword, req.NewPassword); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	token, err := h.svc.Refresh(guard.User(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter user.ListFilter

	if s := q.Get("search"); s != "" {
		filter.Search = &s
	}

	if s := q.Get("state"); s != "" {
		filter.State = new(user.State(s))
	}

	if s := q.Get("role"); s != "" {
		filter.Role = new(user.Role(s))
	}

	page := respond.Page(r)

	users, total, err := h.svc.List(r.Context(), filter, page)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.List(users, paging.NewMeta(page, total), toResponse))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	p, err := h.svc.Profile(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toProfile(p))
}

type createRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     user.Role  `json:"role"`
	State    user.State `json:"state"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.Create(r.Context(), user.CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		State:    req.State,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(u))
}

type updateRequest struct {
	Name  *string     `json:"name,omitempty"`
	Email *string     `json:"email,omitempty"`
	Role  *user.Role  `json:"role,omitempty"`
	State *user.State `json:"state,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.Update(r.Context(), id, user.UpdateParams{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
		State: req.State,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), guard.Principal(r).UserID, id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	var req resetPasswordRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), id, req.Password); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

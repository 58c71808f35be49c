package task

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/task"
)

type Handler struct {
	svc   *task.Service
	authz guard.Authorizer
}

func NewHandler(svc *task.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

// Routes serves the caller's own tasks.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/lists", h.lists)
	r.Get("/summary", h.summary)
	r.Post("/", h.create)
	r.Get("/{taskID}", h.get)
	r.Put("/{taskID}", h.update)
	r.Put("/{taskID}/state", h.changeState)
	r.Delete("/{taskID}", h.delete)
}

// AccountRoutes lists the tasks linked to the account in the mount path.
func (h *Handler) AccountRoutes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.listAccount)
}

// filter reads the query filters. It writes a 400 and returns false on a
// malformed value.
func filter(w http.ResponseWriter, r *http.Request) (task.ListFilter, bool) {
	q := r.URL.Query()

	var f task.ListFilter

	if s := q.Get("state"); s != "" {
		f.State = new(task.State(s))
	}

	if s := q.Get("list"); s != "" {
		f.List = &s
	}

	if s := q.Get("priority"); s != "" {
		f.Priority = new(task.Priority(s))
	}

	var ok bool

	if f.From, ok = respond.Date(w, r, "from"); !ok {
		return f, false
	}

	if f.To, ok = respond.Date(w, r, "to"); !ok {
		return f, false
	}

	return f, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, ok := filter(w, r)
	if !ok {
		return
	}

	f.UserID = new(guard.Principal(r).UserID)

	if f.AccountID, ok = respond.OptionalID(w, r, "accountId"); !ok {
		return
	}

	h.respondList(w, r, f)
}

func (h *Handler) listAccount(w http.ResponseWriter, r *http.Request) {
	f, ok := filter(w, r)
	if !ok {
		return
	}

	f.AccountID = new(guard.AccountID(r))

	h.respondList(w, r, f)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, f task.ListFilter) {
	tasks, meta, err := h.svc.List(r.Context(), f, respond.Page(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.List(tasks, meta, toResponse))
}

func (h *Handler) lists(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Lists(r.Context(), guard.Principal(r).UserID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(counts, toListCount))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context(), guard.Principal(r).UserID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummary(s))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "taskID")
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), guard.Principal(r).UserID, id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

type createRequest struct {
	AccountID   *uuid.UUID    `json:"accountId,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartsAt    *time.Time    `json:"startDate,omitempty"`
	DueAt       *time.Time    `json:"dueDate,omitempty"`
	List        string        `json:"list"`
	Priority    task.Priority `json:"priority"`
	AssigneeID  *uuid.UUID    `json:"assignedTo,omitempty"`
	CategoryID  *uuid.UUID    `json:"categoryId,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p := guard.Principal(r)

	// Linking a task to an account needs write access to it.
	if req.AccountID != nil {
		if _, err := h.authz.Authorize(r.Context(), p, *req.AccountID, access.PermCreate); err != nil {
			httperr.Write(w, r, err)
			return
		}
	}

	t, err := h.svc.Create(r.Context(), p.UserID, task.CreateParams{
		AccountID:   req.AccountID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		DueAt:       req.DueAt,
		List:        req.List,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

type updateRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	StartsAt    *time.Time     `json:"startDate,omitempty"`
	DueAt       *time.Time     `json:"dueDate,omitempty"`
	State       *task.State    `json:"state,omitempty"`
	List        *string        `json:"list,omitempty"`
	Priority    *task.Priority `json:"priority,omitempty"`
	AssigneeID  *uuid.UUID     `json:"assignedTo,omitempty"`
	Comment     string         `json:"comment,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "taskID")
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	t, err := h.svc.Update(r.Context(), guard.Principal(r).UserID, id, task.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		DueAt:       req.DueAt,
		State:       req.State,
		List:        req.List,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		Comment:     req.Comment,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

type changeStateRequest struct {
	State   task.State `json:"state"`
	Comment string     `json:"comment"`
}

func (h *Handler) changeState(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "taskID")
	if !ok {
		return
	}

	var req changeStateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	entry, err := h.svc.ChangeState(r.Context(), guard.Principal(r).UserID, id, req.State, req.Comment)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toHistory(*entry))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), guard.Principal(r).UserID, id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

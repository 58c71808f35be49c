package calendar

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/calendar"
	"github.com/MrJamesThe3rd/tally/internal/http/guard"
	"github.com/MrJamesThe3rd/tally/internal/http/httperr"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type Handler struct {
	svc   *calendar.Service
	authz guard.Authorizer
}

func NewHandler(svc *calendar.Service, authz guard.Authorizer) *Handler {
	return &Handler{svc: svc, authz: authz}
}

// EventRoutes serves /accounts/{accountID}/events.
func (h *Handler) EventRoutes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.listEvents)
	guard.With(r, h.authz, access.PermView).Get("/{eventID}", h.getEvent)
	guard.With(r, h.authz, access.PermCreate).Post("/", h.createEvent)
	guard.With(r, h.authz, access.PermEdit).Put("/{eventID}", h.updateEvent)
	guard.With(r, h.authz, access.PermDelete).Delete("/{eventID}", h.deleteEvent)
	guard.With(r, h.authz, access.PermCreate).Post("/{eventID}/reminders", h.addReminder)
}

// ReminderRoutes serves /accounts/{accountID}/reminders.
func (h *Handler) ReminderRoutes(r chi.Router) {
	guard.With(r, h.authz, access.PermView).Get("/", h.listReminders)
	guard.With(r, h.authz, access.PermCreate).Post("/", h.remind)
	guard.With(r, h.authz, access.PermDelete).Delete("/{reminderID}", h.deleteReminder)
}

// AdminRoutes expose the delivery queue to whoever sends notifications.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/pending", h.pending)
	r.Put("/{reminderID}/sent", h.markSent)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	from, ok := respond.Date(w, r, "from")
	if !ok {
		return
	}

	to, ok := respond.Date(w, r, "to")
	if !ok {
		return
	}

	events, err := h.svc.ListEvents(r.Context(), guard.AccountID(r), from, to)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(events, toEvent))
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "eventID")
	if !ok {
		return
	}

	e, err := h.svc.GetEvent(r.Context(), guard.AccountID(r), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toEvent(e))
}

type reminderRequest struct {
	MinutesBefore *int             `json:"minutesBefore,omitempty"`
	Channel       calendar.Channel `json:"channel"`
	Message       string           `json:"message"`
	RemindAt      *time.Time       `json:"remindAt,omitempty"`
}

func (req reminderRequest) params() calendar.ReminderParams {
	return calendar.ReminderParams{
		MinutesBefore: req.MinutesBefore,
		Channel:       req.Channel,
		Message:       req.Message,
		RemindAt:      req.RemindAt,
	}
}

type createEventRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	StartsAt    time.Time           `json:"startDate"`
	EndsAt      *time.Time          `json:"endDate,omitempty"`
	Type        calendar.EventType  `json:"type"`
	Amount      *decimal.Decimal    `json:"amount,omitempty"`
	Recurrence  calendar.Recurrence `json:"recurrence"`
	CategoryID  *uuid.UUID          `json:"categoryId,omitempty"`
	MovementID  *uuid.UUID          `json:"movementId,omitempty"`
	Reminders   []reminderRequest   `json:"reminders"`
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.CreateEvent(r.Context(), guard.AccountID(r), guard.Principal(r).UserID, calendar.EventParams{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Type:        req.Type,
		Amount:      req.Amount,
		Recurrence:  req.Recurrence,
		CategoryID:  req.CategoryID,
		MovementID:  req.MovementID,
		Reminders:   respond.Map(req.Reminders, reminderRequest.params),
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toEvent(e))
}

type updateEventRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	StartsAt    *time.Time           `json:"startDate,omitempty"`
	EndsAt      *time.Time           `json:"endDate,omitempty"`
	Type        *calendar.EventType  `json:"type,omitempty"`
	Amount      *decimal.Decimal     `json:"amount,omitempty"`
	Recurrence  *calendar.Recurrence `json:"recurrence,omitempty"`
	CategoryID  *uuid.UUID           `json:"categoryId,omitempty"`
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "eventID")
	if !ok {
		return
	}

	var req updateEventRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.UpdateEvent(r.Context(), guard.AccountID(r), id, calendar.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Type:        req.Type,
		Amount:      req.Amount,
		Recurrence:  req.Recurrence,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toEvent(e))
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "eventID")
	if !ok {
		return
	}

	if err := h.svc.DeleteEvent(r.Context(), guard.AccountID(r), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "eventID")
	if !ok {
		return
	}

	var req reminderRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	rem, err := h.svc.AddReminder(r.Context(), guard.AccountID(r), id, req.params())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toReminder(*rem))
}

func (h *Handler) listReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.svc.AccountReminders(r.Context(), guard.AccountID(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(reminders, toReminder))
}

type remindRequest struct {
	Message  string           `json:"message"`
	RemindAt time.Time        `json:"remindAt"`
	Channel  calendar.Channel `json:"channel"`
}

func (h *Handler) remind(w http.ResponseWriter, r *http.Request) {
	var req remindRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	rem, err := h.svc.Remind(r.Context(), guard.AccountID(r), guard.Principal(r).UserID, req.Message, req.RemindAt, req.Channel)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toReminder(*rem))
}

func (h *Handler) deleteReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "reminderID")
	if !ok {
		return
	}

	if err := h.svc.DeleteReminder(r.Context(), guard.AccountID(r), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	due, err := h.svc.Due(r.Context())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Map(due, toDue))
}

func (h *Handler) markSent(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r, "reminderID")
	if !ok {
		return
	}

	if err := h.svc.MarkSent(r.Context(), id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package calendar

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/calendar"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type eventResponse struct {
	ID           uuid.UUID           `json:"id"`
	AccountID    uuid.UUID           `json:"accountId"`
	UserID       uuid.UUID           `json:"userId"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	StartsAt     time.Time           `json:"startDate"`
	EndsAt       *time.Time          `json:"endDate,omitempty"`
	Type         calendar.EventType  `json:"type"`
	Amount       *decimal.Decimal    `json:"amount,omitempty"`
	CategoryID   *uuid.UUID          `json:"categoryId,omitempty"`
	CategoryName string              `json:"categoryName,omitempty"`
	MovementID   *uuid.UUID          `json:"movementId,omitempty"`
	Recurrence   calendar.Recurrence `json:"recurrence"`
	Reminders    []reminderResponse  `json:"reminders,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type reminderResponse struct {
	ID            uuid.UUID        `json:"id"`
	EventID       uuid.UUID        `json:"eventId"`
	EventTitle    string           `json:"eventTitle,omitempty"`
	Message       string           `json:"message,omitempty"`
	RemindAt      *time.Time       `json:"remindAt,omitempty"`
	MinutesBefore int              `json:"minutesBefore"`
	Channel       calendar.Channel `json:"channel"`
	Active        bool             `json:"active"`
	Sent          bool             `json:"sent"`
	SentAt        *time.Time       `json:"sentAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type dueResponse struct {
	reminderResponse
	EventStartsAt time.Time `json:"eventStartDate"`
	UserID        uuid.UUID `json:"userId"`
	UserName      string    `json:"userName"`
	UserEmail     string    `json:"userEmail"`
}

func toEvent(e *calendar.Event) eventResponse {
	resp := eventResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		UserID:       e.UserID,
		Title:        e.Title,
		Description:  e.Description,
		StartsAt:     e.StartsAt,
		EndsAt:       e.EndsAt,
		Type:         e.Type,
		CategoryID:   e.CategoryID,
		CategoryName: e.CategoryName,
		MovementID:   e.MovementID,
		Recurrence:   e.Recurrence,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if e.Amount.Valid {
		resp.Amount = &e.Amount.Decimal
	}

	if e.Reminders != nil {
		resp.Reminders = respond.Map(e.Reminders, toReminder)
	}

	return resp
}

func toReminder(r calendar.Reminder) reminderResponse {
	return reminderResponse{
		ID:            r.ID,
		EventID:       r.EventID,
		EventTitle:    r.EventTitle,
		Message:       r.Message,
		RemindAt:      r.RemindAt,
		MinutesBefore: r.MinutesBefore,
		Channel:       r.Channel,
		Active:        r.Active,
		Sent:          r.Sent,
		SentAt:        r.SentAt,
		CreatedAt:     r.CreatedAt,
	}
}

func toDue(d calendar.Due) dueResponse {
	return dueResponse{
		reminderResponse: toReminder(d.Reminder),
		EventStartsAt:    d.EventStartsAt,
		UserID:           d.UserID,
		UserName:         d.UserName,
		UserEmail:        d.UserEmail,
	}
}

package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=calendar
type Repository interface {
	ListEvents(ctx context.Context, accountID uuid.UUID, from, to *time.Time) ([]*Event, error)
	GetEvent(ctx context.Context, accountID, id uuid.UUID) (*Event, error)
	CategoryInScope(ctx context.Context, accountID, categoryID uuid.UUID) (bool, error)
	MovementInAccount(ctx context.Context, accountID, movementID uuid.UUID) (bool, error)
	// CreateEvent stores the event and its reminders in one transaction.
	CreateEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, e *Event) error
	DeleteEvent(ctx context.Context, accountID, id uuid.UUID) error

	Reminders(ctx context.Context, eventID uuid.UUID) ([]Reminder, error)
	AccountReminders(ctx context.Context, accountID uuid.UUID) ([]Reminder, error)
	AddReminder(ctx context.Context, r *Reminder) error
	DeleteReminder(ctx context.Context, accountID, id uuid.UUID) error
	Due(ctx context.Context, now time.Time) ([]Due, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type ReminderParams struct {
	MinutesBefore *int
	Channel       Channel
	Message       string
	RemindAt      *time.Time
}

type EventParams struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      *time.Time
	// Type is derived from Recurrence when empty.
	Type       EventType
	Amount     *decimal.Decimal
	Recurrence Recurrence
	CategoryID *uuid.UUID
	MovementID *uuid.UUID
	Reminders  []ReminderParams
}

type EventUpdate struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Type        *EventType
	Amount      *decimal.Decimal
	Recurrence  *Recurrence
	CategoryID  *uuid.UUID
}

func (s *Service) ListEvents(ctx context.Context, accountID uuid.UUID, from, to *time.Time) ([]*Event, error) {
	events, err := s.repo.ListEvents(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func (s *Service) GetEvent(ctx context.Context, accountID, id uuid.UUID) (*Event, error) {
	e, err := s.repo.GetEvent(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	e.Reminders, err = s.repo.Reminders(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}

	return e, nil
}

func validateEvent(e *Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}

	if e.StartsAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalid)
	}

	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("%w: end time is before start time", ErrInvalid)
	}

	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalid, e.Type)
	}

	if !e.Recurrence.Valid() {
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalid, e.Recurrence)
	}

	if e.Amount.Valid && !e.Amount.Decimal.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalid)
	}

	return nil
}

func newReminder(p ReminderParams) (Reminder, error) {
	r := Reminder{
		MinutesBefore: DefaultMinutesBefore,
		Channel:       p.Channel,
		Message:       strings.TrimSpace(p.Message),
		RemindAt:      p.RemindAt,
		Active:        true,
	}

	if p.MinutesBefore != nil {
		r.MinutesBefore = *p.MinutesBefore
	}

	if r.MinutesBefore < 0 {
		return Reminder{}, fmt.Errorf("%w: minutes before cannot be negative", ErrInvalid)
	}

	if r.Channel == "" {
		r.Channel = ChannelApp
	}

	if !r.Channel.Valid() {
		return Reminder{}, fmt.Errorf("%w: channel must be app, email or sms", ErrInvalid)
	}

	return r, nil
}

func (s *Service) checkRefs(ctx context.Context, accountID uuid.UUID, categoryID, movementID *uuid.UUID) error {
	if categoryID != nil {
		ok, err := s.repo.CategoryInScope(ctx, accountID, *categoryID)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}

		if !ok {
			return ErrInvalidCategory
		}
	}

	if movementID != nil {
		ok, err := s.repo.MovementInAccount(ctx, accountID, *movementID)
		if err != nil {
			return fmt.Errorf("check movement: %w", err)
		}

		if !ok {
			return ErrInvalidMovement
		}
	}

	return nil
}

func (s *Service) CreateEvent(ctx context.Context, accountID, userID uuid.UUID, params EventParams) (*Event, error) {
	e := &Event{
		AccountID:   accountID,
		UserID:      userID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		StartsAt:    params.StartsAt,
		EndsAt:      params.EndsAt,
		Type:        params.Type,
		Recurrence:  params.Recurrence,
		CategoryID:  params.CategoryID,
		MovementID:  params.MovementID,
	}

	if e.Recurrence == "" {
		e.Recurrence = RecurrenceNone
	}

	if e.Type == "" {
		e.Type = TypeFor(e.Recurrence)
	}

	if params.Amount != nil {
		e.Amount = decimal.NewNullDecimal(params.Amount.Round(2))
	}

	if err := validateEvent(e); err != nil {
		return nil, err
	}

	for _, rp := range params.Reminders {
		r, err := newReminder(rp)
		if err != nil {
			return nil, err
		}

		e.Reminders = append(e.Reminders, r)
	}

	if err := s.checkRefs(ctx, accountID, e.CategoryID, e.MovementID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, accountID, id uuid.UUID, params EventUpdate) (*Event, error) {
	e, err := s.repo.GetEvent(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		e.Title = strings.TrimSpace(*params.Title)
	}

	if params.Description != nil {
		e.Description = strings.TrimSpace(*params.Description)
	}

	if params.StartsAt != nil {
		e.StartsAt = *params.StartsAt
	}

	if params.EndsAt != nil {
		e.EndsAt = params.EndsAt
	}

	if params.Recurrence != nil {
		e.Recurrence = *params.Recurrence
	}

	if params.Type != nil {
		e.Type = *params.Type
	}

	if params.Amount != nil {
		e.Amount = decimal.NewNullDecimal(params.Amount.Round(2))
	}

	var categoryID *uuid.UUID
	if params.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *params.CategoryID) {
		categoryID = params.CategoryID
		e.CategoryID = params.CategoryID
	}

	if err := validateEvent(e); err != nil {
		return nil, err
	}

	if err := s.checkRefs(ctx, accountID, categoryID, nil); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, accountID, id uuid.UUID) error {
	return s.repo.DeleteEvent(ctx, accountID, id)
}

// AddReminder attaches a reminder to an event of the account.
func (s *Service) AddReminder(ctx context.Context, accountID, eventID uuid.UUID, params ReminderParams) (*Reminder, error) {
	r, err := newReminder(params)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.GetEvent(ctx, accountID, eventID)
	if err != nil {
		return nil, err
	}

	r.EventID = e.ID
	r.EventTitle = e.Title

	if err := s.repo.AddReminder(ctx, &r); err != nil {
		return nil, fmt.Errorf("add reminder: %w", err)
	}

	return &r, nil
}

// Remind creates a standalone reminder. A reminder-type event is created to
// hold it.
func (s *Service) Remind(ctx context.Context, accountID, userID uuid.UUID, message string, at time.Time, channel Channel) (*Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalid)
	}

	r, err := newReminder(ReminderParams{MinutesBefore: new(0), Channel: channel, Message: message, RemindAt: &at})
	if err != nil {
		return nil, err
	}

	e := &Event{
		AccountID:  accountID,
		UserID:     userID,
		Title:      message,
		StartsAt:   at,
		Type:       EventReminder,
		Recurrence: RecurrenceNone,
		Reminders:  []Reminder{r},
	}

	if err := validateEvent(e); err != nil {
		return nil, err
	}

	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create reminder event: %w", err)
	}

	return &e.Reminders[0], nil
}

func (s *Service) AccountReminders(ctx context.Context, accountID uuid.UUID) ([]Reminder, error) {
	return s.repo.AccountReminders(ctx, accountID)
}

func (s *Service) DeleteReminder(ctx context.Context, accountID, id uuid.UUID) error {
	return s.repo.DeleteReminder(ctx, accountID, id)
}

// Due lists active unsent reminders whose window has opened for events that
// have not started yet.
func (s *Service) Due(ctx context.Context) ([]Due, error) {
	return s.repo.Due(ctx, s.now())
}

func (s *Service) MarkSent(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkSent(ctx, id, s.now())
}

package calendar

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInvalid          = errors.New("invalid event")
	ErrInvalidCategory  = errors.New("invalid category for this account")
	ErrInvalidMovement  = errors.New("movement not found in this account")
)

type EventType string

const (
	EventOneTimePayment   EventType = "one_time_payment"
	EventRecurringPayment EventType = "recurring_payment"
	EventReminder         EventType = "reminder"
)

func (t EventType) Valid() bool {
	return t == EventOneTimePayment || t == EventRecurringPayment || t == EventReminder
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
	RecurrenceCustom  Recurrence = "custom"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly, RecurrenceCustom:
		return true
	}

	return false
}

// TypeFor is the event type implied by a recurrence when none is given.
func TypeFor(r Recurrence) EventType {
	if r == "" || r == RecurrenceNone {
		return EventOneTimePayment
	}

	return EventRecurringPayment
}

type Channel string

const (
	ChannelApp   Channel = "app"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func (c Channel) Valid() bool {
	return c == ChannelApp || c == ChannelEmail || c == ChannelSMS
}

const DefaultMinutesBefore = 60

type Event struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	UserID       uuid.UUID
	Title        string
	Description  string
	StartsAt     time.Time
	EndsAt       *time.Time
	Type         EventType
	Amount       decimal.NullDecimal
	CategoryID   *uuid.UUID
	CategoryName string // Loaded via JOIN
	MovementID   *uuid.UUID
	Recurrence   Recurrence
	Reminders    []Reminder
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Reminder struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	EventTitle    string // Loaded via JOIN
	Message       string
	RemindAt      *time.Time
	MinutesBefore int
	Channel       Channel
	Active        bool
	Sent          bool
	SentAt        *time.Time
	CreatedAt     time.Time
}

// Due is a reminder whose notification window has opened, with the
// recipient it should go to.
type Due struct {
	Reminder
	EventStartsAt time.Time
	UserID        uuid.UUID
	UserName      string
	UserEmail     string
}

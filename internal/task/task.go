package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("task not found")
	ErrInvalid   = errors.New("invalid task")
	ErrSameState = errors.New("task is already in this state")
)

type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
)

func (s State) Valid() bool {
	switch s {
	case StatePending, StateInProgress, StateCompleted, StateCancelled:
		return true
	}

	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

const DefaultList = "general"

type Task struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	AccountID    *uuid.UUID
	AccountName  string // Loaded via JOIN
	Title        string
	Description  string
	StartsAt     *time.Time
	DueAt        *time.Time
	State        State
	List         string
	Priority     Priority
	AssigneeID   *uuid.UUID
	AssigneeName string // Loaded via JOIN
	CategoryID   *uuid.UUID
	History      []HistoryEntry
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HistoryEntry records one state transition. From is nil for the entry
// written on creation.
type HistoryEntry struct {
	ID        uuid.UUID
	From      *State
	To        State
	UserID    *uuid.UUID
	UserName  string
	Comment   string
	CreatedAt time.Time
}

type ListCount struct {
	Name       string
	Total      int
	Pending    int
	InProgress int
	Completed  int
}

type Summary struct {
	Total        int
	Pending      int
	InProgress   int
	Completed    int
	Cancelled    int
	HighPriority int
	Overdue      int
}

package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/paging"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=task
type Repository interface {
	List(ctx context.Context, filter ListFilter, page paging.Params) ([]*Task, int, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*Task, error)
	History(ctx context.Context, taskID uuid.UUID) ([]HistoryEntry, error)
	Lists(ctx context.Context, userID uuid.UUID) ([]ListCount, error)
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Lock(ctx context.Context, userID, id uuid.UUID) (*Task, error)
	Insert(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	AddHistory(ctx context.Context, taskID uuid.UUID, h *HistoryEntry) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	// UserID limits the result to tasks the user created.
	UserID *uuid.UUID
	// AccountID limits the result to tasks linked to the account.
	AccountID *uuid.UUID
	State     *State
	List      *string
	Priority  *Priority
	From      *time.Time
	To        *time.Time
}

type CreateParams struct {
	AccountID   *uuid.UUID
	Title       string
	Description string
	StartsAt    *time.Time
	DueAt       *time.Time
	List        string
	Priority    Priority
	AssigneeID  *uuid.UUID
	CategoryID  *uuid.UUID
}

type UpdateParams struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	DueAt       *time.Time
	State       *State
	List        *string
	Priority    *Priority
	AssigneeID  *uuid.UUID
	// Comment is stored on the history entry when State changes.
	Comment string
}

const createdComment = "task created"

func (s *Service) inTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page paging.Params) ([]*Task, paging.Meta, error) {
	page = page.Normalize()

	tasks, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, paging.Meta{}, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, paging.NewMeta(page, total), nil
}

// Get returns the caller's task with its history, newest first.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Task, error) {
	t, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	t.History, err = s.repo.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load task history: %w", err)
	}

	return t, nil
}

func (s *Service) Lists(ctx context.Context, userID uuid.UUID) ([]ListCount, error) {
	return s.repo.Lists(ctx, userID)
}

func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	return s.repo.Summary(ctx, userID)
}

func validate(t *Task) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}

	if !t.Priority.Valid() {
		return fmt.Errorf("%w: priority must be low, medium or high", ErrInvalid)
	}

	if !t.State.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalid, t.State)
	}

	if t.StartsAt != nil && t.DueAt != nil && t.DueAt.Before(*t.StartsAt) {
		return fmt.Errorf("%w: due date is before start date", ErrInvalid)
	}

	return nil
}

// Create stores a pending task and its first history entry.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Task, error) {
	t := &Task{
		UserID:      userID,
		AccountID:   params.AccountID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		StartsAt:    params.StartsAt,
		DueAt:       params.DueAt,
		State:       StatePending,
		List:        strings.TrimSpace(params.List),
		Priority:    params.Priority,
		AssigneeID:  params.AssigneeID,
		CategoryID:  params.CategoryID,
	}

	if t.List == "" {
		t.List = DefaultList
	}

	if t.Priority == "" {
		t.Priority = PriorityMedium
	}

	if err := validate(t); err != nil {
		return nil, err
	}

	err := s.inTx(ctx, func(tx Tx) error {
		if err := tx.Insert(ctx, t); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}

		return tx.AddHistory(ctx, t.ID, &HistoryEntry{To: StatePending, UserID: &userID, Comment: createdComment})
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Task, error) {
	var t *Task

	err := s.inTx(ctx, func(tx Tx) error {
		var err error

		t, err = tx.Lock(ctx, userID, id)
		if err != nil {
			return err
		}

		old := t.State
		applyUpdate(t, params)

		if err := validate(t); err != nil {
			return err
		}

		if err := tx.Update(ctx, t); err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		if t.State == old {
			return nil
		}

		return tx.AddHistory(ctx, id, &HistoryEntry{From: &old, To: t.State, UserID: &userID, Comment: params.Comment})
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func applyUpdate(t *Task, p UpdateParams) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}

	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}

	if p.StartsAt != nil {
		t.StartsAt = p.StartsAt
	}

	if p.DueAt != nil {
		t.DueAt = p.DueAt
	}

	if p.State != nil {
		t.State = *p.State
	}

	if p.List != nil && strings.TrimSpace(*p.List) != "" {
		t.List = strings.TrimSpace(*p.List)
	}

	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if p.AssigneeID != nil {
		t.AssigneeID = p.AssigneeID
	}
}

// ChangeState moves the task to state and appends a history entry. Moving to
// the current state is refused.
func (s *Service) ChangeState(ctx context.Context, userID, id uuid.UUID, state State, comment string) (*HistoryEntry, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalid, state)
	}

	var entry *HistoryEntry

	err := s.inTx(ctx, func(tx Tx) error {
		t, err := tx.Lock(ctx, userID, id)
		if err != nil {
			return err
		}

		if t.State == state {
			return ErrSameState
		}

		old := t.State
		t.State = state

		if err := tx.Update(ctx, t); err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		entry = &HistoryEntry{From: &old, To: state, UserID: &userID, Comment: strings.TrimSpace(comment)}

		return tx.AddHistory(ctx, id, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/paging"
	"github.com/MrJamesThe3rd/tally/internal/task"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTaskColumns = `
	t.id, t.user_id, t.account_id, a.name, t.title, t.description, t.starts_at, t.due_at,
	t.state, t.list, t.priority, t.assignee_id, u.name, t.category_id, t.created_at, t.updated_at
`

const fromTasks = `
	FROM tasks t
	LEFT JOIN accounts a ON a.id = t.account_id
	LEFT JOIN users u ON u.id = t.assignee_id`

func scanTask(s scanner) (*task.Task, error) {
	var t task.Task

	var accountName, desc, assigneeName sql.NullString

	if err := s.Scan(
		&t.ID, &t.UserID, &t.AccountID, &accountName, &t.Title, &desc, &t.StartsAt, &t.DueAt,
		&t.State, &t.List, &t.Priority, &t.AssigneeID, &assigneeName, &t.CategoryID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.AccountName = accountName.String
	t.Description = desc.String
	t.AssigneeName = assigneeName.String

	return &t, nil
}

func (s *Store) List(ctx context.Context, filter task.ListFilter, page paging.Params) ([]*task.Task, int, error) {
	where := ` WHERE TRUE`

	var args []any

	argIdx := 1

	add := func(clause string, v any) {
		where += fmt.Sprintf(clause, argIdx)

		args = append(args, v)
		argIdx++
	}

	if filter.UserID != nil {
		add(" AND t.user_id = $%d", *filter.UserID)
	}

	if filter.AccountID != nil {
		add(" AND t.account_id = $%d", *filter.AccountID)
	}

	if filter.State != nil {
		add(" AND t.state = $%d", *filter.State)
	}

	if filter.List != nil {
		add(" AND t.list = $%d", *filter.List)
	}

	if filter.Priority != nil {
		add(" AND t.priority = $%d", *filter.Priority)
	}

	if filter.From != nil {
		add(" AND t.starts_at >= $%d", *filter.From)
	}

	if filter.To != nil {
		add(" AND t.due_at <= $%d", *filter.To)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	query := `SELECT ` + selectTaskColumns + fromTasks + where + fmt.Sprintf(`
		ORDER BY
			CASE t.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
			t.due_at NULLS LAST,
			t.created_at DESC
		LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)

	rows, err := s.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning task: %w", err)
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, total, nil
}

func getTask(ctx context.Context, q querier, userID, id uuid.UUID, lock bool) (*task.Task, error) {
	query := `SELECT ` + selectTaskColumns + fromTasks + ` WHERE t.id = $1 AND t.user_id = $2`
	if lock {
		query += ` FOR UPDATE OF t`
	}

	t, err := scanTask(q.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.ErrNotFound
		}

		return nil, fmt.Errorf("getting task: %w", err)
	}

	return t, nil
}

func (s *Store) Get(ctx context.Context, userID, id uuid.UUID) (*task.Task, error) {
	return getTask(ctx, s.db, userID, id, false)
}

func (s *Store) History(ctx context.Context, taskID uuid.UUID) ([]task.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.from_state, h.to_state, h.user_id, u.name, h.comment, h.created_at
		FROM task_history h
		LEFT JOIN users u ON u.id = h.user_id
		WHERE h.task_id = $1
		ORDER BY h.created_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading task history: %w", err)
	}
	defer rows.Close()

	var entries []task.HistoryEntry

	for rows.Next() {
		var h task.HistoryEntry

		var from, name, comment sql.NullString

		if err := rows.Scan(&h.ID, &from, &h.To, &h.UserID, &name, &comment, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}

		if from.Valid {
			h.From = new(task.State(from.String))
		}

		h.UserName = name.String
		h.Comment = comment.String
		entries = append(entries, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task history: %w", err)
	}

	return entries, nil
}

func (s *Store) Lists(ctx context.Context, userID uuid.UUID) ([]task.ListCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT list, COUNT(*),
			COUNT(*) FILTER (WHERE state = 'pending'),
			COUNT(*) FILTER (WHERE state = 'in_progress'),
			COUNT(*) FILTER (WHERE state = 'completed')
		FROM tasks
		WHERE user_id = $1
		GROUP BY list
		ORDER BY list`, userID)
	if err != nil {
		return nil, fmt.Errorf("counting task lists: %w", err)
	}
	defer rows.Close()

	var lists []task.ListCount

	for rows.Next() {
		var l task.ListCount
		if err := rows.Scan(&l.Name, &l.Total, &l.Pending, &l.InProgress, &l.Completed); err != nil {
			return nil, fmt.Errorf("scanning task list: %w", err)
		}

		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task lists: %w", err)
	}

	return lists, nil
}

func (s *Store) Summary(ctx context.Context, userID uuid.UUID) (*task.Summary, error) {
	var sum task.Summary

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE state = 'pending'),
			COUNT(*) FILTER (WHERE state = 'in_progress'),
			COUNT(*) FILTER (WHERE state = 'completed'),
			COUNT(*) FILTER (WHERE state = 'cancelled'),
			COUNT(*) FILTER (WHERE priority = 'high' AND state NOT IN ('completed', 'cancelled')),
			COUNT(*) FILTER (WHERE due_at < NOW() AND state NOT IN ('completed', 'cancelled'))
		FROM tasks
		WHERE user_id = $1`, userID,
	).Scan(&sum.Total, &sum.Pending, &sum.InProgress, &sum.Completed, &sum.Cancelled, &sum.HighPriority, &sum.Overdue)
	if err != nil {
		return nil, fmt.Errorf("summarizing tasks: %w", err)
	}

	return &sum, nil
}

func (s *Store) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return task.ErrNotFound
	}

	return nil
}

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (task.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Lock(ctx context.Context, userID, id uuid.UUID) (*task.Task, error) {
	return getTask(ctx, t.tx, userID, id, true)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (t *txStore) Insert(ctx context.Context, tk *task.Task) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO tasks (user_id, account_id, title, description, starts_at, due_at, state, list, priority, assignee_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		tk.UserID, tk.AccountID, tk.Title, nullString(tk.Description), tk.StartsAt, tk.DueAt,
		tk.State, tk.List, tk.Priority, tk.AssigneeID, tk.CategoryID,
	).Scan(&tk.ID, &tk.CreatedAt, &tk.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, tk *task.Task) error {
	err := t.tx.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, starts_at = $3, due_at = $4, state = $5,
			list = $6, priority = $7, assignee_id = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING updated_at`,
		tk.Title, nullString(tk.Description), tk.StartsAt, tk.DueAt, tk.State,
		tk.List, tk.Priority, tk.AssigneeID, tk.ID, tk.UserID,
	).Scan(&tk.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.ErrNotFound
		}

		return fmt.Errorf("updating task: %w", err)
	}

	return nil
}

func (t *txStore) AddHistory(ctx context.Context, taskID uuid.UUID, h *task.HistoryEntry) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO task_history (task_id, from_state, to_state, user_id, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		taskID, h.From, h.To, h.UserID, nullString(h.Comment),
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording task history: %w", err)
	}

	return nil
}

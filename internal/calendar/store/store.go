package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/calendar"
	"github.com/MrJamesThe3rd/tally/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectEventColumns = `
	e.id, e.account_id, e.user_id, e.title, e.description, e.starts_at, e.ends_at,
	e.type, e.amount, e.category_id, c.name, e.movement_id, e.recurrence, e.created_at, e.updated_at
`

const fromEvents = `
	FROM calendar_events e
	LEFT JOIN categories c ON c.id = e.category_id`

func scanEvent(s scanner) (*calendar.Event, error) {
	var e calendar.Event

	var desc, categoryName sql.NullString

	if err := s.Scan(
		&e.ID, &e.AccountID, &e.UserID, &e.Title, &desc, &e.StartsAt, &e.EndsAt,
		&e.Type, &e.Amount, &e.CategoryID, &categoryName, &e.MovementID, &e.Recurrence, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Description = desc.String
	e.CategoryName = categoryName.String

	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}

func (s *Store) ListEvents(ctx context.Context, accountID uuid.UUID, from, to *time.Time) ([]*calendar.Event, error) {
	query := `SELECT ` + selectEventColumns + fromEvents + ` WHERE e.account_id = $1`
	args := []any{accountID}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND e.starts_at >= $%d", len(args))
	}

	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND e.starts_at <= $%d", len(args))
	}

	query += ` ORDER BY e.starts_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*calendar.Event

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

func (s *Store) GetEvent(ctx context.Context, accountID, id uuid.UUID) (*calendar.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+selectEventColumns+fromEvents+` WHERE e.id = $1 AND e.account_id = $2`, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, calendar.ErrEventNotFound
		}

		return nil, fmt.Errorf("getting event: %w", err)
	}

	return e, nil
}

func (s *Store) CategoryInScope(ctx context.Context, accountID, categoryID uuid.UUID) (bool, error) {
	var ok bool

	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE id = $1 AND (is_global OR account_id = $2)
		)`, categoryID, accountID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking category scope: %w", err)
	}

	return ok, nil
}

func (s *Store) MovementInAccount(ctx context.Context, accountID, movementID uuid.UUID) (bool, error) {
	var ok bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM movements WHERE id = $1 AND account_id = $2)`, movementID, accountID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking movement: %w", err)
	}

	return ok, nil
}

func insertReminder(ctx context.Context, tx *sql.Tx, r *calendar.Reminder) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO reminders (event_id, message, remind_at, minutes_before, channel, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		r.EventID, nullString(r.Message), r.RemindAt, r.MinutesBefore, r.Channel, r.Active,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating reminder: %w", err)
	}

	return nil
}

func (s *Store) CreateEvent(ctx context.Context, e *calendar.Event) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO calendar_events
				(account_id, user_id, title, description, starts_at, ends_at, type, amount, category_id, movement_id, recurrence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at`,
			e.AccountID, e.UserID, e.Title, nullString(e.Description), e.StartsAt, e.EndsAt,
			e.Type, e.Amount, e.CategoryID, e.MovementID, e.Recurrence,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating event: %w", err)
		}

		for i := range e.Reminders {
			r := &e.Reminders[i]
			r.EventID = e.ID
			r.EventTitle = e.Title

			if err := insertReminder(ctx, tx, r); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *Store) UpdateEvent(ctx context.Context, e *calendar.Event) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE calendar_events
		SET title = $1, description = $2, starts_at = $3, ends_at = $4, type = $5,
			amount = $6, category_id = $7, recurrence = $8, updated_at = NOW()
		WHERE id = $9 AND account_id = $10
		RETURNING updated_at`,
		e.Title, nullString(e.Description), e.StartsAt, e.EndsAt, e.Type,
		e.Amount, e.CategoryID, e.Recurrence, e.ID, e.AccountID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return calendar.ErrEventNotFound
		}

		return fmt.Errorf("updating event: %w", err)
	}

	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	return expectOne(res, calendar.ErrEventNotFound)
}

const selectReminderColumns = `
	r.id, r.event_id, e.title, r.message, r.remind_at, r.minutes_before, r.channel,
	r.active, r.sent, r.sent_at, r.created_at
`

func scanReminder(s scanner) (calendar.Reminder, error) {
	var r calendar.Reminder

	var msg sql.NullString

	err := s.Scan(
		&r.ID, &r.EventID, &r.EventTitle, &msg, &r.RemindAt, &r.MinutesBefore, &r.Channel,
		&r.Active, &r.Sent, &r.SentAt, &r.CreatedAt,
	)
	r.Message = msg.String

	return r, err
}

func (s *Store) queryReminders(ctx context.Context, query string, args ...any) ([]calendar.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer rows.Close()

	var reminders []calendar.Reminder

	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}

		reminders = append(reminders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reminders: %w", err)
	}

	return reminders, nil
}

func (s *Store) Reminders(ctx context.Context, eventID uuid.UUID) ([]calendar.Reminder, error) {
	return s.queryReminders(ctx, `
		SELECT `+selectReminderColumns+`
		FROM reminders r
		JOIN calendar_events e ON e.id = r.event_id
		WHERE r.event_id = $1
		ORDER BY r.minutes_before`, eventID)
}

func (s *Store) AccountReminders(ctx context.Context, accountID uuid.UUID) ([]calendar.Reminder, error) {
	return s.queryReminders(ctx, `
		SELECT `+selectReminderColumns+`
		FROM reminders r
		JOIN calendar_events e ON e.id = r.event_id
		WHERE e.account_id = $1 AND NOT r.sent
		ORDER BY e.starts_at - r.minutes_before * INTERVAL '1 minute'`, accountID)
}

func (s *Store) AddReminder(ctx context.Context, r *calendar.Reminder) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return insertReminder(ctx, tx, r)
	})
}

func (s *Store) DeleteReminder(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM reminders r
		USING calendar_events e
		WHERE r.id = $1 AND r.event_id = e.id AND e.account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}

	return expectOne(res, calendar.ErrReminderNotFound)
}

func (s *Store) Due(ctx context.Context, now time.Time) ([]calendar.Due, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectReminderColumns+`, e.starts_at, u.id, u.name, u.email
		FROM reminders r
		JOIN calendar_events e ON e.id = r.event_id
		JOIN users u ON u.id = e.user_id
		WHERE r.active AND NOT r.sent
			AND COALESCE(r.remind_at, e.starts_at - r.minutes_before * INTERVAL '1 minute') <= $1
			AND e.starts_at >= $1
		ORDER BY e.starts_at`, now)
	if err != nil {
		return nil, fmt.Errorf("listing due reminders: %w", err)
	}
	defer rows.Close()

	var due []calendar.Due

	for rows.Next() {
		var d calendar.Due

		var msg sql.NullString

		if err := rows.Scan(
			&d.ID, &d.EventID, &d.EventTitle, &msg, &d.RemindAt, &d.MinutesBefore, &d.Channel,
			&d.Active, &d.Sent, &d.SentAt, &d.CreatedAt,
			&d.EventStartsAt, &d.UserID, &d.UserName, &d.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("scanning due reminder: %w", err)
		}

		d.Message = msg.String
		due = append(due, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating due reminders: %w", err)
	}

	return due, nil
}

func (s *Store) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET sent = TRUE, sent_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("marking reminder sent: %w", err)
	}

	return expectOne(res, calendar.ErrReminderNotFound)
}

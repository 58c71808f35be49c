package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/paging"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const userColumns = `id, name, email, password_hash, role, state, created_at, updated_at`

func scanUser(s scanner) (*user.User, error) {
	var u user.User
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.State, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getOne(ctx, "id = $1", id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (s *Store) Create(ctx context.Context, u *user.User) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.State,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, filter user.ListFilter, page paging.Params) ([]*user.User, int, error) {
	where := " WHERE 1 = 1"

	var args []any

	argIdx := 1

	if filter.Search != nil {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	if filter.State != nil {
		where += fmt.Sprintf(" AND state = $%d", argIdx)

		args = append(args, *filter.State)
		argIdx++
	}

	if filter.Role != nil {
		where += fmt.Sprintf(" AND role = $%d", argIdx)

		args = append(args, *filter.Role)
		argIdx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

	rows, err := s.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating users: %w", err)
	}

	return users, total, nil
}

func (s *Store) Update(ctx context.Context, u *user.User) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, role = $3, state = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`,
		u.Name, u.Email, u.Role, u.State, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.ErrNotFound
		}

		if database.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

func (s *Store) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return expectOne(res)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (s *Store) Accounts(ctx context.Context, userID uuid.UUID) ([]*user.AccountRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.type, a.currency, a.state, m.role
		FROM accounts a
		JOIN account_members m ON m.account_id = a.id
		WHERE m.user_id = $1
		ORDER BY a.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user accounts: %w", err)
	}
	defer rows.Close()

	var out []*user.AccountRef

	for rows.Next() {
		var a user.AccountRef
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &a.State, &a.Role); err != nil {
			return nil, fmt.Errorf("scanning user account: %w", err)
		}

		out = append(out, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user accounts: %w", err)
	}

	return out, nil
}

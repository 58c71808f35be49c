package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/database"
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

const categoryColumns = `id, account_id, name, type, display_order, is_global, created_at, updated_at`

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category
	if err := s.Scan(&c.ID, &c.AccountID, &c.Name, &c.Type, &c.Order, &c.Global, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) List(ctx context.Context, accountID *uuid.UUID, typ *category.Type) ([]*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE (is_global = TRUE OR account_id = $1)`
	args := []any{accountID}

	if typ != nil {
		query += " AND (type = $2 OR type = 'both')"

		args = append(args, *typ)
	}

	query += " ORDER BY is_global DESC, display_order ASC, name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return out, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

// NameExists compares names case-insensitively within one scope: the
// account's own categories, or the globals when accountID is nil.
func (s *Store) NameExists(ctx context.Context, accountID *uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE name ILIKE $1
			  AND id <> $2
			  AND CASE WHEN $3::uuid IS NULL THEN is_global = TRUE ELSE account_id = $3::uuid END
		)`, name, exclude, accountID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking category name: %w", err)
	}

	return exists, nil
}

func (s *Store) Create(ctx context.Context, c *category.Category) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (account_id, name, type, display_order, is_global)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		c.AccountID, c.Name, c.Type, c.Order, c.Global,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, c *category.Category) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories
		SET name = $1, type = $2, display_order = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		c.Name, c.Type, c.Order, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return category.ErrNotFound
		}

		return fmt.Errorf("updating category: %w", err)
	}

	return nil
}

func (s *Store) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	var used bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM movements WHERE category_id = $1)`, id).Scan(&used); err != nil {
		return false, fmt.Errorf("checking category usage: %w", err)
	}

	return used, nil
}

// Delete relies on the movements foreign key as a second guard against
// removing a category that gained a movement after the usage check.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return category.ErrInUse
		}

		return fmt.Errorf("deleting category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return category.ErrNotFound
	}

	return nil
}

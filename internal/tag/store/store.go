package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/tag"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const tagQuery = `
	SELECT t.id, t.account_id, t.name, t.color, t.created_at, COUNT(mt.movement_id)
	FROM tags t
	LEFT JOIN movement_tags mt ON mt.tag_id = t.id
	WHERE t.account_id = $1`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTag(s scanner) (*tag.Tag, error) {
	var t tag.Tag
	if err := s.Scan(&t.ID, &t.AccountID, &t.Name, &t.Color, &t.CreatedAt, &t.Usage); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) List(ctx context.Context, accountID uuid.UUID) ([]*tag.Tag, error) {
	rows, err := s.db.QueryContext(ctx, tagQuery+` GROUP BY t.id ORDER BY t.name`, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []*tag.Tag

	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}

		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return tags, nil
}

func (s *Store) Get(ctx context.Context, accountID, id uuid.UUID) (*tag.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, tagQuery+` AND t.id = $2 GROUP BY t.id`, accountID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tag.ErrNotFound
		}

		return nil, fmt.Errorf("getting tag: %w", err)
	}

	return t, nil
}

func (s *Store) NameExists(ctx context.Context, accountID uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tags WHERE account_id = $1 AND name ILIKE $2 AND id <> $3
		)`, accountID, name, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking tag name: %w", err)
	}

	return exists, nil
}

func (s *Store) Create(ctx context.Context, t *tag.Tag) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (account_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		t.AccountID, t.Name, t.Color,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating tag: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, t *tag.Tag) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tags SET name = $1, color = $2 WHERE id = $3 AND account_id = $4`,
		t.Name, t.Color, t.ID, t.AccountID)
	if err != nil {
		return fmt.Errorf("updating tag: %w", err)
	}

	return expectOne(res)
}

// Delete also drops the tag from every movement through the cascade on
// movement_tags.
func (s *Store) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return tag.ErrNotFound
	}

	return nil
}

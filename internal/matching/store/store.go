package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, rawDescription string) (string, error) {
	query := `
		SELECT provider
		FROM provider_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var provider string

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return provider, nil
}

func (s *Store) Upsert(ctx context.Context, m *matching.Mapping) error {
	query := `
		INSERT INTO provider_mappings (raw_pattern, provider)
		VALUES ($1, $2)
		ON CONFLICT (LOWER(raw_pattern)) DO UPDATE SET provider = EXCLUDED.provider
		RETURNING id, raw_pattern, created_at
	`

	err := s.db.QueryRowContext(ctx, query, m.RawPattern, m.Provider).Scan(&m.ID, &m.RawPattern, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context) ([]matching.Mapping, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, raw_pattern, provider, created_at
		FROM provider_mappings
		ORDER BY provider, raw_pattern`)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	var mappings []matching.Mapping

	for rows.Next() {
		var m matching.Mapping
		if err := rows.Scan(&m.ID, &m.RawPattern, &m.Provider, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}

		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}

	return mappings, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM provider_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return matching.ErrNotFound
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/document"
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

const selectColumns = `d.id, d.movement_id, d.url, d.file_name, d.file_type, d.origin, d.size_bytes, d.created_at`

func scanDocument(s scanner) (*document.Document, error) {
	var d document.Document

	var name sql.NullString

	var size sql.NullInt64

	if err := s.Scan(&d.ID, &d.MovementID, &d.URL, &name, &d.FileType, &d.Origin, &size, &d.CreatedAt); err != nil {
		return nil, err
	}

	d.FileName = name.String
	if size.Valid {
		d.Size = &size.Int64
	}

	return &d, nil
}

func (s *Store) MovementExists(ctx context.Context, accountID, movementID uuid.UUID) (bool, error) {
	var ok bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM movements WHERE id = $1 AND account_id = $2)`,
		movementID, accountID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking movement: %w", err)
	}

	return ok, nil
}

func (s *Store) List(ctx context.Context, movementID uuid.UUID) ([]*document.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM documents d WHERE d.movement_id = $1 ORDER BY d.created_at DESC`,
		movementID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document

	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

func (s *Store) Get(ctx context.Context, accountID, id uuid.UUID) (*document.Document, error) {
	d, err := scanDocument(s.db.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM documents d
		JOIN movements m ON m.id = d.movement_id
		WHERE d.id = $1 AND m.account_id = $2`, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("getting document: %w", err)
	}

	return d, nil
}

func (s *Store) Create(ctx context.Context, docs []*document.Document) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, d := range docs {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO documents (movement_id, url, file_name, file_type, origin, size_bytes)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at`,
				d.MovementID, d.URL, d.FileName, d.FileType, d.Origin, d.Size,
			).Scan(&d.ID, &d.CreatedAt)
			if err != nil {
				return fmt.Errorf("creating document: %w", err)
			}
		}

		return nil
	})
}

func (s *Store) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents d
		USING movements m
		WHERE d.id = $1 AND m.id = d.movement_id AND m.account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return document.ErrNotFound
	}

	return nil
}

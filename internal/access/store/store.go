package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/access"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Membership(ctx context.Context, userID, accountID uuid.UUID) (*access.Membership, error) {
	query := `
		SELECT m.account_id, m.user_id, m.role, m.access_type, a.state
		FROM account_members m
		JOIN accounts a ON a.id = m.account_id
		WHERE m.user_id = $1 AND m.account_id = $2
	`

	var m access.Membership

	err := s.db.QueryRowContext(ctx, query, userID, accountID).Scan(
		&m.AccountID, &m.UserID, &m.Role, &m.AccessType, &m.AccountState,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting membership: %w", err)
	}

	return &m, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/movement"
	"github.com/MrJamesThe3rd/tally/internal/paging"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectMovementColumns = `
	m.id, m.account_id, m.type, m.operation_date, m.amount, m.category_id,
	c.name, c.type, m.provider, m.description, m.notes, m.origin, m.state,
	m.created_at, m.updated_at
`

const fromMovements = `
	FROM movements m
	JOIN categories c ON c.id = m.category_id`

// scanMovement reads a row in selectMovementColumns order.
func scanMovement(s scanner) (*movement.Movement, error) {
	var m movement.Movement

	var catName, catType string

	var provider, desc, notes sql.NullString

	if err := s.Scan(
		&m.ID, &m.AccountID, &m.Type, &m.Date, &m.Amount, &m.CategoryID,
		&catName, &catType, &provider, &desc, &notes, &m.Origin, &m.State,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.Category = &movement.CategoryRef{ID: m.CategoryID, Name: catName, Type: catType}
	m.Provider = provider.String
	m.Description = desc.String
	m.Notes = notes.String

	return &m, nil
}

func collect(rows *sql.Rows) ([]*movement.Movement, error) {
	defer rows.Close()

	var items []*movement.Movement

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movements: %w", err)
	}

	return items, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func buildFilter(accountID uuid.UUID, filter movement.ListFilter) (string, []any) {
	where := ` WHERE m.account_id = $1`
	args := []any{accountID}
	argIdx := 2

	add := func(clause string, v any) {
		where += fmt.Sprintf(clause, argIdx)

		args = append(args, v)
		argIdx++
	}

	if filter.Type != nil {
		add(" AND m.type = $%d", *filter.Type)
	}

	if filter.State != nil {
		add(" AND m.state = $%d", *filter.State)
	}

	if filter.CategoryID != nil {
		add(" AND m.category_id = $%d", *filter.CategoryID)
	}

	if filter.TagID != nil {
		add(" AND EXISTS (SELECT 1 FROM movement_tags mt WHERE mt.movement_id = m.id AND mt.tag_id = $%d)", *filter.TagID)
	}

	if filter.From != nil {
		add(" AND m.operation_date >= $%d", *filter.From)
	}

	if filter.To != nil {
		add(" AND m.operation_date <= $%d", *filter.To)
	}

	if filter.Provider != nil {
		add(" AND m.provider ILIKE '%%' || $%d || '%%'", *filter.Provider)
	}

	if filter.Search != nil {
		n := argIdx
		where += fmt.Sprintf(
			" AND (m.description ILIKE '%%' || $%d || '%%' OR m.provider ILIKE '%%' || $%d || '%%' OR m.notes ILIKE '%%' || $%d || '%%')",
			n, n, n)

		args = append(args, *filter.Search)
	}

	return where, args
}

func (s *Store) List(ctx context.Context, accountID uuid.UUID, filter movement.ListFilter, page paging.Params) ([]*movement.Movement, int, error) {
	where, args := buildFilter(accountID, filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting movements: %w", err)
	}

	n := len(args)
	query := `SELECT ` + selectMovementColumns + fromMovements + where +
		fmt.Sprintf(" ORDER BY m.operation_date DESC, m.created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)

	rows, err := s.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing movements: %w", err)
	}

	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func getMovement(ctx context.Context, q querier, accountID, id uuid.UUID, lock bool) (*movement.Movement, error) {
	query := `SELECT ` + selectMovementColumns + fromMovements + ` WHERE m.id = $1 AND m.account_id = $2`
	if lock {
		query += ` FOR UPDATE OF m`
	}

	m, err := scanMovement(q.QueryRowContext(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movement.ErrNotFound
		}

		return nil, fmt.Errorf("getting movement: %w", err)
	}

	return m, nil
}

func (s *Store) Get(ctx context.Context, accountID, id uuid.UUID) (*movement.Movement, error) {
	return getMovement(ctx, s.db, accountID, id, false)
}

func (s *Store) TagsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]movement.TagRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mt.movement_id, t.id, t.name, t.color
		FROM movement_tags mt
		JOIN tags t ON t.id = mt.tag_id
		WHERE mt.movement_id = ANY($1::uuid[])
		ORDER BY t.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("loading movement tags: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]movement.TagRef)

	for rows.Next() {
		var movementID uuid.UUID

		var t movement.TagRef
		if err := rows.Scan(&movementID, &t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scanning movement tag: %w", err)
		}

		out[movementID] = append(out[movementID], t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movement tags: %w", err)
	}

	return out, nil
}

func (s *Store) Documents(ctx context.Context, movementID uuid.UUID) ([]movement.DocumentRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, file_name, file_type
		FROM documents
		WHERE movement_id = $1
		ORDER BY created_at`, movementID)
	if err != nil {
		return nil, fmt.Errorf("loading movement documents: %w", err)
	}
	defer rows.Close()

	var docs []movement.DocumentRef

	for rows.Next() {
		var d movement.DocumentRef

		var name sql.NullString
		if err := rows.Scan(&d.ID, &d.URL, &name, &d.FileType); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		d.FileName = name.String
		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

func (s *Store) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movements WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("deleting movement: %w", err)
	}

	return expectOne(res, movement.ErrNotFound)
}

// Confirm only touches rows still pending review, so a concurrent confirm
// reports ErrNotPending instead of rewriting the row.
func (s *Store) Confirm(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE movements
		SET state = 'confirmed', updated_at = NOW()
		WHERE id = $1 AND account_id = $2 AND state = 'pending_review'`, id, accountID)
	if err != nil {
		return fmt.Errorf("confirming movement: %w", err)
	}

	return expectOne(res, movement.ErrNotPending)
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

type txStore struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (movement.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func importLockKey(accountID uuid.UUID, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write(accountID[:])
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

func (s *Store) BeginImport(ctx context.Context, accountID uuid.UUID, minDate, maxDate time.Time) (movement.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(accountID, minDate, maxDate)); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &txStore{tx: tx}, nil
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// CategoryInScope reports whether the category is global or belongs to the
// account.
func (t *txStore) CategoryInScope(ctx context.Context, accountID, categoryID uuid.UUID) (bool, error) {
	var ok bool

	err := t.tx.QueryRowContext(ctx, `
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

// DefaultCategory picks the account's first category usable for typ,
// falling back to the globals.
func (t *txStore) DefaultCategory(ctx context.Context, accountID uuid.UUID, typ movement.Type) (uuid.UUID, error) {
	var id uuid.UUID

	err := t.tx.QueryRowContext(ctx, `
		SELECT id FROM categories
		WHERE (is_global OR account_id = $1) AND (type = $2 OR type = 'both')
		ORDER BY is_global, display_order, name
		LIMIT 1`, accountID, typ,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, movement.ErrInvalidCategory
		}

		return uuid.Nil, fmt.Errorf("finding default category: %w", err)
	}

	return id, nil
}

func (t *txStore) Lock(ctx context.Context, accountID, id uuid.UUID) (*movement.Movement, error) {
	return getMovement(ctx, t.tx, accountID, id, true)
}

func (t *txStore) Insert(ctx context.Context, m *movement.Movement) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO movements (account_id, type, operation_date, amount, category_id, provider, description, notes, origin, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		m.AccountID, m.Type, m.Date, m.Amount, m.CategoryID,
		nullString(m.Provider), nullString(m.Description), nullString(m.Notes),
		m.Origin, m.State,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating movement: %w", err)
	}

	return nil
}

func (t *txStore) Update(ctx context.Context, m *movement.Movement) error {
	err := t.tx.QueryRowContext(ctx, `
		UPDATE movements
		SET type = $1, operation_date = $2, amount = $3, category_id = $4,
			provider = $5, description = $6, notes = $7, state = $8, updated_at = NOW()
		WHERE id = $9 AND account_id = $10
		RETURNING updated_at`,
		m.Type, m.Date, m.Amount, m.CategoryID,
		nullString(m.Provider), nullString(m.Description), nullString(m.Notes), m.State,
		m.ID, m.AccountID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return movement.ErrNotFound
		}

		return fmt.Errorf("updating movement: %w", err)
	}

	return nil
}

func (t *txStore) AccountTags(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT id FROM tags WHERE account_id = $1 AND id = ANY($2::uuid[])`, accountID, ids)
	if err != nil {
		return nil, fmt.Errorf("filtering tags: %w", err)
	}
	defer rows.Close()

	var owned []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning tag id: %w", err)
		}

		owned = append(owned, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag ids: %w", err)
	}

	return owned, nil
}

func (t *txStore) ReplaceTags(ctx context.Context, movementID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM movement_tags WHERE movement_id = $1`, movementID); err != nil {
		return fmt.Errorf("clearing movement tags: %w", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO movement_tags (movement_id, tag_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`, movementID, tagIDs)
	if err != nil {
		return fmt.Errorf("inserting movement tags: %w", err)
	}

	return nil
}

// FindDuplicates returns the account's movements that share date, amount,
// type and description with any of params.
func (t *txStore) FindDuplicates(ctx context.Context, accountID uuid.UUID, params []movement.CreateParams) ([]*movement.Movement, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date        string
		Amount      string
		Type        movement.Type
		Description string
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Date:        p.Date.Format(time.DateOnly),
			Amount:      p.Amount.StringFixed(2),
			Type:        p.Type,
			Description: p.Description,
		}] = struct{}{}
	}

	rows, err := t.tx.QueryContext(ctx, `SELECT `+selectMovementColumns+fromMovements+`
		WHERE m.account_id = $1 AND m.operation_date >= $2 AND m.operation_date <= $3
		ORDER BY m.operation_date`, accountID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	candidates, err := collect(rows)
	if err != nil {
		return nil, err
	}

	var duplicates []*movement.Movement

	for _, m := range candidates {
		k := lookupKey{
			Date:        m.Date.Format(time.DateOnly),
			Amount:      m.Amount.StringFixed(2),
			Type:        m.Type,
			Description: m.Description,
		}

		if _, found := keySet[k]; found {
			duplicates = append(duplicates, m)
		}
	}

	return duplicates, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/access"
	"github.com/MrJamesThe3rd/tally/internal/account"
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

const accountColumns = `a.id, a.name, a.type, a.currency, a.owner_id, a.state, a.created_at, a.updated_at`

func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account
	if err := s.Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &a.OwnerID, &a.State, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}

	return &a, nil
}

// summaryQuery projects an account for one viewer ($1, may be NULL). Only
// confirmed movements count towards the balance.
const summaryQuery = `
	SELECT ` + accountColumns + `,
		COALESCE(m.role, ''), COALESCE(m.access_type, ''),
		u.name, u.email,
		COALESCE(b.income, 0), COALESCE(b.expenses, 0),
		(SELECT COUNT(*) FROM account_members am WHERE am.account_id = a.id)
	FROM accounts a
	JOIN users u ON u.id = a.owner_id
	LEFT JOIN account_members m ON m.account_id = a.id AND m.user_id = $1
	LEFT JOIN LATERAL (
		SELECT
			SUM(CASE WHEN mv.type = 'income' THEN mv.amount ELSE 0 END) AS income,
			SUM(CASE WHEN mv.type = 'expense' THEN mv.amount ELSE 0 END) AS expenses
		FROM movements mv
		WHERE mv.account_id = a.id AND mv.state = 'confirmed'
	) b ON TRUE
	WHERE 1 = 1`

func scanSummary(s scanner) (*account.Summary, error) {
	var sum account.Summary

	var role, accessType string

	if err := s.Scan(
		&sum.ID, &sum.Name, &sum.Type, &sum.Currency, &sum.OwnerID, &sum.State, &sum.CreatedAt, &sum.UpdatedAt,
		&role, &accessType,
		&sum.Owner.Name, &sum.Owner.Email,
		&sum.Balance.Income, &sum.Balance.Expenses,
		&sum.MemberCount,
	); err != nil {
		return nil, err
	}

	sum.Role = access.Role(role)
	sum.AccessType = access.AccessType(accessType)
	sum.Balance.Total = sum.Balance.Income.Sub(sum.Balance.Expenses)

	return &sum, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter account.ListFilter) ([]*account.Summary, error) {
	query := summaryQuery
	args := []any{filter.UserID}
	argIdx := 2

	if filter.UserID != nil {
		query += " AND m.user_id IS NOT NULL"
	}

	if filter.State != nil {
		query += fmt.Sprintf(" AND a.state = $%d", argIdx)

		args = append(args, *filter.State)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND a.type = $%d", argIdx)

		args = append(args, *filter.Type)
	}

	query += " ORDER BY a.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Summary

	for rows.Next() {
		a, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) GetSummary(ctx context.Context, id, viewerID uuid.UUID) (*account.Summary, error) {
	query := summaryQuery + " AND a.id = $2"

	sum, err := scanSummary(s.db.QueryRowContext(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return sum, nil
}

const memberColumns = `u.id, u.name, u.email, m.role, m.access_type, m.created_at`

func scanMember(s scanner) (*account.Member, error) {
	var m account.Member
	if err := s.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.AccessType, &m.JoinedAt); err != nil {
		return nil, err
	}

	return &m, nil
}

func (s *Store) ListMembers(ctx context.Context, accountID uuid.UUID) ([]*account.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM account_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.account_id = $1
		ORDER BY (m.role = 'owner') DESC, m.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*account.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}

	return members, nil
}

func (s *Store) SetState(ctx context.Context, id uuid.UUID, state access.AccountState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET state = $1, updated_at = NOW() WHERE id = $2`, state, id)
	if err != nil {
		return fmt.Errorf("updating account state: %w", err)
	}

	return expectOne(res, account.ErrNotFound)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*account.UserRef, error) {
	var u account.UserRef

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE LOWER(email) = LOWER($1)`, email,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrUserNotFound
		}

		return nil, fmt.Errorf("finding user: %w", err)
	}

	return &u, nil
}

func (s *Store) GetMember(ctx context.Context, accountID, userID uuid.UUID) (*account.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM account_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.account_id = $1 AND m.user_id = $2`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrMemberNotFound
		}

		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, nil
}

func (s *Store) AddMember(ctx context.Context, accountID, userID uuid.UUID, role access.Role, accessType access.AccessType) error {
	return insertMembership(ctx, s.db, accountID, userID, role, accessType)
}

// The owner row is excluded so a concurrent request cannot rewrite it even
// after the service checked.
func (s *Store) UpdateMemberRole(ctx context.Context, accountID, userID uuid.UUID, role access.Role) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE account_members SET role = $1
		WHERE account_id = $2 AND user_id = $3 AND role <> 'owner'`,
		role, accountID, userID)
	if err != nil {
		return fmt.Errorf("updating member role: %w", err)
	}

	return expectOne(res, account.ErrMemberNotFound)
}

func (s *Store) RemoveMember(ctx context.Context, accountID, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM account_members
		WHERE account_id = $1 AND user_id = $2 AND role <> 'owner'`,
		accountID, userID)
	if err != nil {
		return fmt.Errorf("removing member: %w", err)
	}

	return expectOne(res, account.ErrMemberNotFound)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMembership(ctx context.Context, db execer, accountID, userID uuid.UUID, role access.Role, accessType access.AccessType) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO account_members (user_id, account_id, role, access_type)
		VALUES ($1, $2, $3, $4)`,
		userID, accountID, role, accessType)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return account.ErrAlreadyMember
		}

		if database.IsForeignKeyViolation(err) {
			return account.ErrUserNotFound
		}

		return fmt.Errorf("inserting membership: %w", err)
	}

	return nil
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

type accountTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (account.Tx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("beginning account tx: %w", err)
	}

	return &accountTx{tx: tx}, nil
}

func (t *accountTx) Commit() error { return t.tx.Commit() }

// Rollback after a successful Commit is a no-op.
func (t *accountTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

// LockAccount takes the account row lock so concurrent currency changes on
// the same account run one after the other.
func (t *accountTx) LockAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a WHERE a.id = $1 FOR UPDATE`

	a, err := scanAccount(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("locking account: %w", err)
	}

	return a, nil
}

func (t *accountTx) MemberRole(ctx context.Context, accountID, userID uuid.UUID) (access.Role, error) {
	var role access.Role

	err := t.tx.QueryRowContext(ctx,
		`SELECT role FROM account_members WHERE account_id = $1 AND user_id = $2`,
		accountID, userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("getting member role: %w", err)
	}

	return role, nil
}

func (t *accountTx) InsertAccount(ctx context.Context, a *account.Account) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO accounts (name, type, currency, owner_id, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		a.Name, a.Type, a.Currency, a.OwnerID, a.State,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

func (t *accountTx) InsertMembership(ctx context.Context, accountID, userID uuid.UUID, role access.Role, accessType access.AccessType) error {
	return insertMembership(ctx, t.tx, accountID, userID, role, accessType)
}

func (t *accountTx) GlobalCategories(ctx context.Context) ([]account.CategoryTemplate, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT name, type, display_order
		FROM categories
		WHERE is_global = TRUE
		ORDER BY type, display_order, name`)
	if err != nil {
		return nil, fmt.Errorf("listing global categories: %w", err)
	}
	defer rows.Close()

	var out []account.CategoryTemplate

	for rows.Next() {
		var c account.CategoryTemplate
		if err := rows.Scan(&c.Name, &c.Type, &c.Order); err != nil {
			return nil, fmt.Errorf("scanning global category: %w", err)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating global categories: %w", err)
	}

	return out, nil
}

func (t *accountTx) InsertCategoryCopy(ctx context.Context, accountID uuid.UUID, c account.CategoryTemplate) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO categories (account_id, name, type, display_order, is_global)
		VALUES ($1, $2, $3, $4, FALSE)`,
		accountID, c.Name, c.Type, c.Order)
	if err != nil {
		return fmt.Errorf("copying category: %w", err)
	}

	return nil
}

func (t *accountTx) amounts(ctx context.Context, query string, accountID uuid.UUID) ([]account.Amount, error) {
	rows, err := t.tx.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []account.Amount

	for rows.Next() {
		var a account.Amount
		if err := rows.Scan(&a.ID, &a.Value); err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (t *accountTx) MovementAmounts(ctx context.Context, accountID uuid.UUID) ([]account.Amount, error) {
	out, err := t.amounts(ctx, `SELECT id, amount FROM movements WHERE account_id = $1 ORDER BY id FOR UPDATE`, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing movement amounts: %w", err)
	}

	return out, nil
}

func (t *accountTx) UpdateMovementAmount(ctx context.Context, id uuid.UUID, value decimal.Decimal) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE movements SET amount = $1, updated_at = NOW() WHERE id = $2`, value, id); err != nil {
		return fmt.Errorf("updating movement amount: %w", err)
	}

	return nil
}

func (t *accountTx) EventAmounts(ctx context.Context, accountID uuid.UUID) ([]account.Amount, error) {
	out, err := t.amounts(ctx,
		`SELECT id, amount FROM calendar_events WHERE account_id = $1 AND amount IS NOT NULL ORDER BY id FOR UPDATE`, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing event amounts: %w", err)
	}

	return out, nil
}

func (t *accountTx) UpdateEventAmount(ctx context.Context, id uuid.UUID, value decimal.Decimal) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE calendar_events SET amount = $1, updated_at = NOW() WHERE id = $2`, value, id); err != nil {
		return fmt.Errorf("updating event amount: %w", err)
	}

	return nil
}

func (t *accountTx) UpdateAccount(ctx context.Context, a *account.Account) error {
	err := t.tx.QueryRowContext(ctx, `
		UPDATE accounts
		SET name = $1, type = $2, currency = $3, state = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`,
		a.Name, a.Type, a.Currency, a.State, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.ErrNotFound
		}

		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

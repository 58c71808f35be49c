package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/movement"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var truncUnits = map[report.Grouping]string{
	report.GroupDay:     "day",
	report.GroupWeek:    "week",
	report.GroupMonth:   "month",
	report.GroupQuarter: "quarter",
	report.GroupYear:    "year",
}

const sums = `
	COALESCE(SUM(CASE WHEN m.type = 'income' THEN m.amount END), 0),
	COALESCE(SUM(CASE WHEN m.type = 'expense' THEN m.amount END), 0),
	COUNT(*)`

// filter builds the confirmed-movements WHERE clause for an account and range.
type filter struct {
	where  string
	args   []any
	argIdx int
}

func newFilter(accountID uuid.UUID, r report.Range) *filter {
	f := &filter{where: ` WHERE m.account_id = $1 AND m.state = 'confirmed'`, args: []any{accountID}, argIdx: 2}

	if r.From != nil {
		f.add(" AND m.operation_date >= $%d", *r.From)
	}

	if r.To != nil {
		f.add(" AND m.operation_date <= $%d", *r.To)
	}

	return f
}

func (f *filter) add(clause string, v any) {
	f.where += fmt.Sprintf(clause, f.argIdx)

	f.args = append(f.args, v)
	f.argIdx++
}

func (f *filter) next() string {
	s := fmt.Sprintf("$%d", f.argIdx)
	f.argIdx++

	return s
}

func balance(t *report.Totals) {
	t.Balance = t.Income.Sub(t.Expenses)
}

func (s *Store) Totals(ctx context.Context, accountID uuid.UUID, g report.Grouping, r report.Range) ([]report.PeriodTotal, error) {
	unit, ok := truncUnits[g]
	if !ok {
		return nil, fmt.Errorf("%w: unknown grouping %q", report.ErrInvalid, g)
	}

	bucket := fmt.Sprintf("DATE_TRUNC('%s', m.operation_date::timestamp)", unit)
	f := newFilter(accountID, r)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bucket+`,`+sums+`
		FROM movements m`+f.where+`
		GROUP BY 1
		ORDER BY 1 DESC`, f.args...)
	if err != nil {
		return nil, fmt.Errorf("summing by period: %w", err)
	}
	defer rows.Close()

	var totals []report.PeriodTotal

	for rows.Next() {
		var start time.Time

		var t report.Totals

		if err := rows.Scan(&start, &t.Income, &t.Expenses, &t.Count); err != nil {
			return nil, fmt.Errorf("scanning period total: %w", err)
		}

		balance(&t)
		totals = append(totals, report.NewPeriodTotal(g, start, t))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating period totals: %w", err)
	}

	return totals, nil
}

func (s *Store) Sum(ctx context.Context, accountID uuid.UUID, r report.Range) (report.Totals, error) {
	f := newFilter(accountID, r)

	var t report.Totals

	if err := s.db.QueryRowContext(ctx, `SELECT `+sums+` FROM movements m`+f.where, f.args...).
		Scan(&t.Income, &t.Expenses, &t.Count); err != nil {
		return report.Totals{}, fmt.Errorf("summing movements: %w", err)
	}

	balance(&t)

	return t, nil
}

func (s *Store) ByCategory(
	ctx context.Context, accountID uuid.UUID, typ movement.Type, r report.Range, categoryIDs []uuid.UUID, limit int,
) ([]report.CategoryShare, error) {
	f := newFilter(accountID, r)
	f.add(" AND m.type = $%d", typ)

	if len(categoryIDs) > 0 {
		f.add(" AND m.category_id = ANY($%d::uuid[])", categoryIDs)
	}

	query := `
		SELECT c.id, c.name, SUM(m.amount), COUNT(*)
		FROM movements m
		JOIN categories c ON c.id = m.category_id` + f.where + `
		GROUP BY c.id, c.name
		ORDER BY 3 DESC, c.name`

	args := f.args
	if limit > 0 {
		query += ` LIMIT ` + f.next()
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summing by category: %w", err)
	}
	defer rows.Close()

	var shares []report.CategoryShare

	for rows.Next() {
		var c report.CategoryShare
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Total, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		shares = append(shares, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return shares, nil
}

func (s *Store) CategoryTotals(ctx context.Context, accountID uuid.UUID, r report.Range) ([]report.CategoryTotal, error) {
	f := newFilter(accountID, r)

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, m.type, SUM(m.amount)
		FROM movements m
		JOIN categories c ON c.id = m.category_id`+f.where+`
		GROUP BY c.id, c.name, m.type
		ORDER BY c.name, m.type`, f.args...)
	if err != nil {
		return nil, fmt.Errorf("summing by category and type: %w", err)
	}
	defer rows.Close()

	var totals []report.CategoryTotal

	for rows.Next() {
		var t report.CategoryTotal
		if err := rows.Scan(&t.CategoryID, &t.Name, &t.Type, &t.Total); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return totals, nil
}

// NoProvider labels expenses booked without a provider.
const NoProvider = "No provider"

func (s *Store) ByProvider(ctx context.Context, accountID uuid.UUID, r report.Range, limit int) ([]report.ProviderSpend, error) {
	f := newFilter(accountID, r)
	f.where += ` AND m.type = 'expense'`

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(m.provider, ''), '`+NoProvider+`') AS provider, SUM(m.amount), COUNT(*)
		FROM movements m`+f.where+`
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT `+f.next(), append(f.args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("summing by provider: %w", err)
	}
	defer rows.Close()

	var providers []report.ProviderSpend

	for rows.Next() {
		var p report.ProviderSpend
		if err := rows.Scan(&p.Provider, &p.Total, &p.Count); err != nil {
			return nil, fmt.Errorf("scanning provider total: %w", err)
		}

		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating provider totals: %w", err)
	}

	return providers, nil
}

func (s *Store) PendingCount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movements WHERE account_id = $1 AND state = 'pending_review'`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting pending movements: %w", err)
	}

	return n, nil
}

func (s *Store) Recent(ctx context.Context, accountID uuid.UUID, limit int) ([]report.RecentMovement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.type, m.operation_date, m.amount, c.name, m.provider, m.state
		FROM movements m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.account_id = $1
		ORDER BY m.operation_date DESC, m.created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent movements: %w", err)
	}
	defer rows.Close()

	var recent []report.RecentMovement

	for rows.Next() {
		var m report.RecentMovement

		var category, provider sql.NullString

		if err := rows.Scan(&m.ID, &m.Type, &m.Date, &m.Amount, &category, &provider, &m.State); err != nil {
			return nil, fmt.Errorf("scanning recent movement: %w", err)
		}

		m.Category = category.String
		m.Provider = provider.String
		recent = append(recent, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent movements: %w", err)
	}

	return recent, nil
}

func (s *Store) Accounts(ctx context.Context) ([]report.AccountTotals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.type, a.currency, u.name,
			COALESCE(SUM(CASE WHEN m.type = 'income' AND m.state = 'confirmed' THEN m.amount END), 0),
			COALESCE(SUM(CASE WHEN m.type = 'expense' AND m.state = 'confirmed' THEN m.amount END), 0),
			COUNT(m.id)
		FROM accounts a
		JOIN users u ON u.id = a.owner_id
		LEFT JOIN movements m ON m.account_id = a.id
		WHERE a.state = 'active'
		GROUP BY a.id, a.name, a.type, a.currency, u.name
		ORDER BY a.name`)
	if err != nil {
		return nil, fmt.Errorf("summing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []report.AccountTotals

	for rows.Next() {
		var a report.AccountTotals
		if err := rows.Scan(&a.AccountID, &a.Name, &a.Type, &a.Currency, &a.Owner, &a.Income, &a.Expenses, &a.Count); err != nil {
			return nil, fmt.Errorf("scanning account totals: %w", err)
		}

		balance(&a.Totals)
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account totals: %w", err)
	}

	return accounts, nil
}

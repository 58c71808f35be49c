package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/movement"
)

const (
	DefaultTrendMonths = 12
	MaxTrendMonths     = 24
	DefaultTopLimit    = 20
	MaxTopLimit        = 100
	dashboardTop       = 5
	dashboardRecent    = 5
)

// Every Repository method aggregates confirmed movements only, except
// PendingCount and Recent.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	Totals(ctx context.Context, accountID uuid.UUID, g Grouping, r Range) ([]PeriodTotal, error)
	Sum(ctx context.Context, accountID uuid.UUID, r Range) (Totals, error)
	// ByCategory returns per-category sums ordered by total descending.
	// A zero limit returns every category.
	ByCategory(ctx context.Context, accountID uuid.UUID, typ movement.Type, r Range, categoryIDs []uuid.UUID, limit int) ([]CategoryShare, error)
	CategoryTotals(ctx context.Context, accountID uuid.UUID, r Range) ([]CategoryTotal, error)
	ByProvider(ctx context.Context, accountID uuid.UUID, r Range, limit int) ([]ProviderSpend, error)
	PendingCount(ctx context.Context, accountID uuid.UUID) (int, error)
	Recent(ctx context.Context, accountID uuid.UUID, limit int) ([]RecentMovement, error)
	Accounts(ctx context.Context) ([]AccountTotals, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

var hundred = decimal.NewFromInt(100)

// percentOf is part as a percentage of whole, zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}

	return part.Div(whole).Mul(hundred).Round(2)
}

// change is the percentage change from before to after. Growth from zero
// counts as 100%.
func change(before, after decimal.Decimal) decimal.Decimal {
	if before.IsZero() {
		if after.IsPositive() {
			return hundred
		}

		return decimal.Zero
	}

	return after.Sub(before).Div(before).Mul(hundred).Round(2)
}

func (s *Service) Totals(ctx context.Context, accountID uuid.UUID, g Grouping, r Range) ([]PeriodTotal, error) {
	if g == "" {
		g = GroupYear
	}

	if !g.Valid() {
		return nil, fmt.Errorf("%w: unknown grouping %q", ErrInvalid, g)
	}

	totals, err := s.repo.Totals(ctx, accountID, g, r)
	if err != nil {
		return nil, fmt.Errorf("totals by period: %w", err)
	}

	return totals, nil
}

func (s *Service) ByCategory(ctx context.Context, accountID uuid.UUID, typ movement.Type, r Range) (*Breakdown, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", ErrInvalid, typ)
	}

	shares, err := s.repo.ByCategory(ctx, accountID, typ, r, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("totals by category: %w", err)
	}

	b := &Breakdown{Type: typ, Total: decimal.Zero, Categories: shares, Range: r}
	for _, c := range shares {
		b.Total = b.Total.Add(c.Total)
	}

	for i := range b.Categories {
		b.Categories[i].Percent = percentOf(b.Categories[i].Total, b.Total)
	}

	return b, nil
}

// TopCategories ranks categories of one movement type by total.
func (s *Service) TopCategories(ctx context.Context, accountID uuid.UUID, typ movement.Type, r Range, limit int) ([]CategoryShare, error) {
	if typ == "" {
		typ = movement.TypeExpense
	}

	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", ErrInvalid, typ)
	}

	b, err := s.ByCategory(ctx, accountID, typ, r)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultTopLimit
	}

	return b.Categories[:min(len(b.Categories), limit, MaxTopLimit)], nil
}

// Compare sums both ranges per category and type, ordering rows by the
// size of the difference.
func (s *Service) Compare(ctx context.Context, accountID uuid.UUID, a, b Range) (*Comparison, error) {
	if a.From == nil || a.To == nil || b.From == nil || b.To == nil {
		return nil, fmt.Errorf("%w: both periods need a start and end date", ErrInvalid)
	}

	totalsA, err := s.repo.CategoryTotals(ctx, accountID, a)
	if err != nil {
		return nil, fmt.Errorf("totals for first period: %w", err)
	}

	totalsB, err := s.repo.CategoryTotals(ctx, accountID, b)
	if err != nil {
		return nil, fmt.Errorf("totals for second period: %w", err)
	}

	type key struct {
		id  uuid.UUID
		typ movement.Type
	}

	rows := map[key]*ComparisonRow{}

	var order []key

	row := func(t CategoryTotal) *ComparisonRow {
		k := key{t.CategoryID, t.Type}
		if r, ok := rows[k]; ok {
			return r
		}

		r := &ComparisonRow{CategoryID: t.CategoryID, Name: t.Name, Type: t.Type}
		rows[k] = r
		order = append(order, k)

		return r
	}

	cmpResult := &Comparison{
		A: summarize(a, totalsA),
		B: summarize(b, totalsB),
	}

	for _, t := range totalsA {
		row(t).A = t.Total
	}

	for _, t := range totalsB {
		row(t).B = t.Total
	}

	for _, k := range order {
		r := rows[k]
		r.Difference = r.B.Sub(r.A)
		r.ChangePct = change(r.A, r.B)
		cmpResult.Rows = append(cmpResult.Rows, *r)
	}

	slices.SortStableFunc(cmpResult.Rows, func(x, y ComparisonRow) int {
		return y.Difference.Abs().Cmp(x.Difference.Abs())
	})

	cmpResult.Change.Income = change(cmpResult.A.Income, cmpResult.B.Income)
	cmpResult.Change.Expenses = change(cmpResult.A.Expenses, cmpResult.B.Expenses)
	cmpResult.Change.Balance = change(cmpResult.A.Balance, cmpResult.B.Balance)

	return cmpResult, nil
}

func summarize(r Range, totals []CategoryTotal) PeriodSummary {
	sum := PeriodSummary{Range: r, Income: decimal.Zero, Expenses: decimal.Zero}

	for _, t := range totals {
		if t.Type == movement.TypeIncome {
			sum.Income = sum.Income.Add(t.Total)
		} else {
			sum.Expenses = sum.Expenses.Add(t.Total)
		}
	}

	sum.Balance = sum.Income.Sub(sum.Expenses)

	return sum
}

func (s *Service) ByProvider(ctx context.Context, accountID uuid.UUID, r Range, limit int) ([]ProviderSpend, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	providers, err := s.repo.ByProvider(ctx, accountID, r, min(limit, MaxTopLimit))
	if err != nil {
		return nil, fmt.Errorf("spending by provider: %w", err)
	}

	return providers, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Trends returns monthly totals for the last months, oldest first, with
// their averages.
func (s *Service) Trends(ctx context.Context, accountID uuid.UUID, months int) (*Trends, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	months = min(months, MaxTrendMonths)
	since := monthStart(s.now()).AddDate(0, -(months - 1), 0)

	totals, err := s.repo.Totals(ctx, accountID, GroupMonth, Range{From: &since})
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}

	slices.SortFunc(totals, func(a, b PeriodTotal) int { return a.Start.Compare(b.Start) })

	tr := &Trends{Months: totals, Averages: Totals{Income: decimal.Zero, Expenses: decimal.Zero, Balance: decimal.Zero}}
	if len(totals) == 0 {
		return tr, nil
	}

	for _, t := range totals {
		tr.Averages.Income = tr.Averages.Income.Add(t.Income)
		tr.Averages.Expenses = tr.Averages.Expenses.Add(t.Expenses)
		tr.Averages.Count += t.Count
	}

	n := decimal.NewFromInt(int64(len(totals)))
	tr.Averages.Income = tr.Averages.Income.Div(n).Round(2)
	tr.Averages.Expenses = tr.Averages.Expenses.Div(n).Round(2)
	tr.Averages.Balance = tr.Averages.Income.Sub(tr.Averages.Expenses)
	tr.Averages.Count /= len(totals)

	return tr, nil
}

// MostExpensiveMonth finds the month with the highest expenses, optionally
// within one year.
func (s *Service) MostExpensiveMonth(ctx context.Context, accountID uuid.UUID, year int) (*PeriodTotal, error) {
	var r Range
	if year > 0 {
		r = YearRange(year)
	}

	totals, err := s.repo.Totals(ctx, accountID, GroupMonth, r)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	var top *PeriodTotal

	for i := range totals {
		if !totals[i].Expenses.IsPositive() {
			continue
		}

		if top == nil || totals[i].Expenses.GreaterThan(top.Expenses) {
			top = &totals[i]
		}
	}

	if top == nil {
		return nil, ErrNoData
	}

	return top, nil
}

// NetIncome subtracts the expenses booked in the deduction categories from
// gross income.
func (s *Service) NetIncome(ctx context.Context, accountID uuid.UUID, r Range, deductions []uuid.UUID) (*NetIncome, error) {
	sum, err := s.repo.Sum(ctx, accountID, r)
	if err != nil {
		return nil, fmt.Errorf("summing movements: %w", err)
	}

	ni := &NetIncome{Gross: sum.Income, Deducted: decimal.Zero, Range: r}

	if len(deductions) > 0 {
		ni.Deductions, err = s.repo.ByCategory(ctx, accountID, movement.TypeExpense, r, deductions, 0)
		if err != nil {
			return nil, fmt.Errorf("summing deductions: %w", err)
		}

		for _, d := range ni.Deductions {
			ni.Deducted = ni.Deducted.Add(d.Total)
		}
	}

	ni.Net = ni.Gross.Sub(ni.Deducted)

	return ni, nil
}

func (s *Service) Dashboard(ctx context.Context, accountID uuid.UUID) (*Dashboard, error) {
	thisMonth := monthStart(s.now())
	lastMonth := thisMonth.AddDate(0, -1, 0)
	lastMonthEnd := thisMonth.AddDate(0, 0, -1)

	current, err := s.repo.Sum(ctx, accountID, Range{From: &thisMonth})
	if err != nil {
		return nil, fmt.Errorf("current month totals: %w", err)
	}

	previous, err := s.repo.Sum(ctx, accountID, Range{From: &lastMonth, To: &lastMonthEnd})
	if err != nil {
		return nil, fmt.Errorf("previous month totals: %w", err)
	}

	allTime, err := s.repo.Sum(ctx, accountID, Range{})
	if err != nil {
		return nil, fmt.Errorf("all-time totals: %w", err)
	}

	d := &Dashboard{CurrentMonth: current, Balance: allTime.Balance}
	d.VsLastMonth.Income = change(previous.Income, current.Income)
	d.VsLastMonth.Expenses = change(previous.Expenses, current.Expenses)

	if d.PendingReview, err = s.repo.PendingCount(ctx, accountID); err != nil {
		return nil, fmt.Errorf("counting pending movements: %w", err)
	}

	top, err := s.repo.ByCategory(ctx, accountID, movement.TypeExpense, Range{From: &thisMonth}, nil, dashboardTop)
	if err != nil {
		return nil, fmt.Errorf("top expense categories: %w", err)
	}

	for i := range top {
		top[i].Percent = percentOf(top[i].Total, current.Expenses)
	}

	d.TopExpenses = top

	if d.Recent, err = s.repo.Recent(ctx, accountID, dashboardRecent); err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}

	return d, nil
}

// Accounts summarizes every active account. Admin only.
func (s *Service) Accounts(ctx context.Context) ([]AccountTotals, error) {
	accounts, err := s.repo.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("account totals: %w", err)
	}

	slices.SortStableFunc(accounts, func(a, b AccountTotals) int { return cmp.Compare(a.Name, b.Name) })

	return accounts, nil
}

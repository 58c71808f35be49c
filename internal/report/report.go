// Package report aggregates confirmed movements into totals, category
// breakdowns and period comparisons.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/movement"
)

var (
	ErrInvalid = errors.New("invalid report request")
	ErrNoData  = errors.New("no matching movements")
)

type Grouping string

const (
	GroupDay     Grouping = "day"
	GroupWeek    Grouping = "week"
	GroupMonth   Grouping = "month"
	GroupQuarter Grouping = "quarter"
	GroupYear    Grouping = "year"
)

func (g Grouping) Valid() bool {
	switch g {
	case GroupDay, GroupWeek, GroupMonth, GroupQuarter, GroupYear:
		return true
	}

	return false
}

// Range bounds operation dates inclusively. Nil ends are open.
type Range struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// YearRange covers January 1st to December 31st of year.
func YearRange(year int) Range {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	return Range{From: &from, To: &to}
}

type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int             `json:"count"`
}

type PeriodTotal struct {
	Period  string    `json:"period"`
	Start   time.Time `json:"start"`
	Year    int       `json:"year"`
	Month   int       `json:"month,omitempty"`
	Quarter int       `json:"quarter,omitempty"`
	Totals
}

type CategoryShare struct {
	CategoryID uuid.UUID       `json:"categoryId"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percent    decimal.Decimal `json:"percent"`
}

type Breakdown struct {
	Type       movement.Type   `json:"type"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryShare `json:"categories"`
	Range      Range           `json:"range"`
}

// CategoryTotal is one category/type sum used when comparing periods.
type CategoryTotal struct {
	CategoryID uuid.UUID
	Name       string
	Type       movement.Type
	Total      decimal.Decimal
}

type ComparisonRow struct {
	CategoryID uuid.UUID       `json:"categoryId"`
	Name       string          `json:"name"`
	Type       movement.Type   `json:"type"`
	A          decimal.Decimal `json:"periodA"`
	B          decimal.Decimal `json:"periodB"`
	Difference decimal.Decimal `json:"difference"`
	ChangePct  decimal.Decimal `json:"changePercent"`
}

type PeriodSummary struct {
	Range    Range           `json:"range"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type Comparison struct {
	Rows   []ComparisonRow `json:"comparison"`
	A      PeriodSummary   `json:"periodA"`
	B      PeriodSummary   `json:"periodB"`
	Change struct {
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
		Balance  decimal.Decimal `json:"balance"`
	} `json:"change"`
}

type ProviderSpend struct {
	Provider string          `json:"provider"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type Trends struct {
	Months   []PeriodTotal `json:"months"`
	Averages Totals        `json:"averages"`
}

type NetIncome struct {
	Gross      decimal.Decimal `json:"gross"`
	Deductions []CategoryShare `json:"deductions"`
	Deducted   decimal.Decimal `json:"deducted"`
	Net        decimal.Decimal `json:"net"`
	Range      Range           `json:"range"`
}

type RecentMovement struct {
	ID       uuid.UUID       `json:"id"`
	Type     movement.Type   `json:"type"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Provider string          `json:"provider,omitempty"`
	State    movement.State  `json:"state"`
}

type Dashboard struct {
	CurrentMonth Totals `json:"currentMonth"`
	VsLastMonth  struct {
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
	} `json:"vsLastMonth"`
	Balance       decimal.Decimal  `json:"balance"`
	PendingReview int              `json:"pendingReview"`
	TopExpenses   []CategoryShare  `json:"topExpenses"`
	Recent        []RecentMovement `json:"recent"`
}

type AccountTotals struct {
	AccountID uuid.UUID `json:"accountId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	Owner     string    `json:"owner"`
	Totals
}

// Label names the period starting at t, e.g. 2025-03, 2025-Q1 or 2025-W09.
func Label(g Grouping, t time.Time) string {
	switch g {
	case GroupDay:
		return t.Format("2006-01-02")
	case GroupWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupMonth:
		return t.Format("2006-01")
	case GroupQuarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), quarter(t))
	default:
		return t.Format("2006")
	}
}

func quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// NewPeriodTotal fills the period fields for a bucket starting at start.
func NewPeriodTotal(g Grouping, start time.Time, totals Totals) PeriodTotal {
	p := PeriodTotal{Period: Label(g, start), Start: start, Year: start.Year(), Totals: totals}

	switch g {
	case GroupMonth:
		p.Month = int(start.Month())
	case GroupQuarter:
		p.Quarter = quarter(start)
	}

	return p
}

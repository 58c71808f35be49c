package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/movement"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

var accountID = uuid.New()

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLabel(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		g    report.Grouping
		want string
	}{
		{report.GroupDay, "2025-03-03"},
		{report.GroupWeek, "2025-W10"},
		{report.GroupMonth, "2025-03"},
		{report.GroupQuarter, "2025-Q1"},
		{report.GroupYear, "2025"},
	}

	for _, tt := range tests {
		t.Run(string(tt.g), func(t *testing.T) {
			assert.Equal(t, tt.want, report.Label(tt.g, day))
		})
	}
}

func TestService_Totals(t *testing.T) {
	t.Run("DefaultsToYear", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := report.NewMockRepository(ctrl)

		repo.EXPECT().Totals(gomock.Any(), accountID, report.GroupYear, report.Range{}).Return(nil, nil)

		_, err := report.NewService(repo).Totals(context.Background(), accountID, "", report.Range{})
		require.NoError(t, err)
	})

	t.Run("UnknownGrouping", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := report.NewMockRepository(ctrl)

		_, err := report.NewService(repo).Totals(context.Background(), accountID, "decade", report.Range{})
		assert.ErrorIs(t, err, report.ErrInvalid)
	})
}

func TestService_ByCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	repo.EXPECT().ByCategory(gomock.Any(), accountID, movement.TypeExpense, report.Range{}, nil, 0).Return([]report.CategoryShare{
		{Name: "Rent", Total: dec("600")},
		{Name: "Food", Total: dec("300")},
		{Name: "Fun", Total: dec("100")},
	}, nil)

	got, err := report.NewService(repo).ByCategory(context.Background(), accountID, movement.TypeExpense, report.Range{})
	require.NoError(t, err)

	assert.Equal(t, "1000", got.Total.String())
	assert.Equal(t, "60", got.Categories[0].Percent.String())
	assert.Equal(t, "30", got.Categories[1].Percent.String())
	assert.Equal(t, "10", got.Categories[2].Percent.String())
}

func TestService_Compare(t *testing.T) {
	food, rent, salary := uuid.New(), uuid.New(), uuid.New()
	jan := report.YearRange(2025)
	feb := report.YearRange(2026)

	t.Run("MergesAndOrdersByDifference", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := report.NewMockRepository(ctrl)

		repo.EXPECT().CategoryTotals(gomock.Any(), accountID, jan).Return([]report.CategoryTotal{
			{CategoryID: food, Name: "Food", Type: movement.TypeExpense, Total: dec("200")},
			{CategoryID: salary, Name: "Salary", Type: movement.TypeIncome, Total: dec("1000")},
		}, nil)
		repo.EXPECT().CategoryTotals(gomock.Any(), accountID, feb).Return([]report.CategoryTotal{
			{CategoryID: food, Name: "Food", Type: movement.TypeExpense, Total: dec("250")},
			{CategoryID: rent, Name: "Rent", Type: movement.TypeExpense, Total: dec("500")},
			{CategoryID: salary, Name: "Salary", Type: movement.TypeIncome, Total: dec("1000")},
		}, nil)

		got, err := report.NewService(repo).Compare(context.Background(), accountID, jan, feb)
		require.NoError(t, err)

		require.Len(t, got.Rows, 3)
		assert.Equal(t, "Rent", got.Rows[0].Name)
		assert.Equal(t, "100", got.Rows[0].ChangePct.String())
		assert.Equal(t, "Food", got.Rows[1].Name)
		assert.Equal(t, "50", got.Rows[1].Difference.String())
		assert.Equal(t, "25", got.Rows[1].ChangePct.String())
		assert.Equal(t, "0", got.Rows[2].Difference.String())

		assert.Equal(t, "800", got.A.Balance.String())
		assert.Equal(t, "250", got.B.Balance.String())
		assert.Equal(t, "275", got.Change.Expenses.String())
		assert.Equal(t, "-68.75", got.Change.Balance.String())
	})

	t.Run("MissingBounds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := report.NewMockRepository(ctrl)

		_, err := report.NewService(repo).Compare(context.Background(), accountID, jan, report.Range{})
		assert.ErrorIs(t, err, report.ErrInvalid)
	})
}

func TestService_MostExpensiveMonth(t *testing.T) {
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("PicksHighestExpenses", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := report.NewMockRepository(ctrl)

		repo.EXPECT().Totals(gomock.Any(), accountID, report.GroupMonth, report.YearRange(2025)).Return([]report.PeriodTotal{
			report.NewPeriodTotal(report.GroupMonth, april, report.Totals{Expenses: dec("80")}),
			report.NewPeriodTotal(report.GroupMonth, march, report.Totals{Expenses: dec("120")}),
		}, nil)

		got, err := report.NewService(repo).MostExpensiveMonth(context.Background(), accountID, 2025)
		require.NoError(t, err)
		assert.Equal(t, "2025-03", got.Period)
		assert.Equal(t, 3, got.Month)
	})

	t.Run("NoExpenses", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := report.NewMockRepository(ctrl)

		repo.EXPECT().Totals(gomock.Any(), accountID, report.GroupMonth, report.Range{}).Return([]report.PeriodTotal{
			report.NewPeriodTotal(report.GroupMonth, march, report.Totals{Income: dec("10"), Expenses: decimal.Zero}),
		}, nil)

		_, err := report.NewService(repo).MostExpensiveMonth(context.Background(), accountID, 0)
		assert.ErrorIs(t, err, report.ErrNoData)
	})
}

func TestService_NetIncome(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)
	taxes := uuid.New()

	repo.EXPECT().Sum(gomock.Any(), accountID, report.Range{}).Return(report.Totals{Income: dec("2000"), Expenses: dec("900")}, nil)
	repo.EXPECT().ByCategory(gomock.Any(), accountID, movement.TypeExpense, report.Range{}, []uuid.UUID{taxes}, 0).
		Return([]report.CategoryShare{{CategoryID: taxes, Name: "Taxes", Total: dec("450.50")}}, nil)

	got, err := report.NewService(repo).NetIncome(context.Background(), accountID, report.Range{}, []uuid.UUID{taxes})
	require.NoError(t, err)
	assert.Equal(t, "1549.5", got.Net.String())
}

func TestService_Trends(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().Totals(gomock.Any(), accountID, report.GroupMonth, gomock.Any()).Return([]report.PeriodTotal{
		report.NewPeriodTotal(report.GroupMonth, feb, report.Totals{Income: dec("300"), Expenses: dec("100"), Count: 3}),
		report.NewPeriodTotal(report.GroupMonth, jan, report.Totals{Income: dec("100"), Expenses: dec("50"), Count: 1}),
	}, nil)

	got, err := report.NewService(repo).Trends(context.Background(), accountID, 100)
	require.NoError(t, err)

	require.Len(t, got.Months, 2)
	assert.Equal(t, "2025-01", got.Months[0].Period)
	assert.Equal(t, "200", got.Averages.Income.String())
	assert.Equal(t, "75", got.Averages.Expenses.String())
	assert.Equal(t, "125", got.Averages.Balance.String())
	assert.Equal(t, 2, got.Averages.Count)
}

func TestService_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().Sum(gomock.Any(), accountID, gomock.Any()).Return(report.Totals{Income: dec("1500"), Expenses: dec("500"), Balance: dec("1000")}, nil),
		repo.EXPECT().Sum(gomock.Any(), accountID, gomock.Any()).Return(report.Totals{Income: dec("1000"), Expenses: dec("1000")}, nil),
		repo.EXPECT().Sum(gomock.Any(), accountID, report.Range{}).Return(report.Totals{Balance: dec("4200")}, nil),
	)
	repo.EXPECT().PendingCount(gomock.Any(), accountID).Return(3, nil)
	repo.EXPECT().ByCategory(gomock.Any(), accountID, movement.TypeExpense, gomock.Any(), nil, 5).
		Return([]report.CategoryShare{{Name: "Food", Total: dec("125")}}, nil)
	repo.EXPECT().Recent(gomock.Any(), accountID, 5).Return(nil, nil)

	got, err := report.NewService(repo).Dashboard(context.Background(), accountID)
	require.NoError(t, err)

	assert.Equal(t, "1000", got.CurrentMonth.Balance.String())
	assert.Equal(t, "50", got.VsLastMonth.Income.String())
	assert.Equal(t, "-50", got.VsLastMonth.Expenses.String())
	assert.Equal(t, "4200", got.Balance.String())
	assert.Equal(t, 3, got.PendingReview)
	assert.Equal(t, "25", got.TopExpenses[0].Percent.String())
}

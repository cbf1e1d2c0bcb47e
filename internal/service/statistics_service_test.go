package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/stats"
)

var statsNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return statsNow }

func TestGetStatistics_CategoryPercentages(t *testing.T) {
	env := newTestEnv(t, withClock(fixedClock))
	ctx := context.Background()
	acc := env.account(t, "Checking", "1000")

	cats, err := env.svc.Category.ListCategories(ctx, env.owner, nil)
	require.NoError(t, err)
	var food, rent Category
	for _, c := range cats {
		switch c.Name {
		case "Food":
			food = c
		case "Rent":
			rent = c
		}
	}
	require.False(t, food.ID.IsNil())
	require.False(t, rent.ID.IsNil())

	for cat, amount := range map[Category]string{food: "30", rent: "70"} {
		draft := env.draft(acc, TransactionTypeExpense, amount)
		draft.CategoryID = cat.ID
		draft.Date = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
		_, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, draft)
		require.NoError(t, err)
	}
	income := env.draft(acc, TransactionTypeIncome, "500")
	income.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = env.svc.Transaction.CreateTransaction(ctx, env.owner, income)
	require.NoError(t, err)

	// Outside the month window.
	old := env.draft(acc, TransactionTypeExpense, "999")
	old.Date = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	_, err = env.svc.Transaction.CreateTransaction(ctx, env.owner, old)
	require.NoError(t, err)

	result, err := env.svc.Statistics.GetStatistics(ctx, env.owner, "month")
	require.NoError(t, err)

	assert.Equal(t, stats.PeriodMonth, result.Period)
	assert.True(t, decimal.NewFromInt(500).Equal(result.TotalIncome))
	assert.True(t, decimal.NewFromInt(100).Equal(result.TotalExpense))
	assert.True(t, decimal.NewFromInt(400).Equal(result.Net))

	require.Len(t, result.CategoryBreakdown, 2)
	assert.Equal(t, "Rent", result.CategoryBreakdown[0].Name)
	assert.True(t, decimal.NewFromInt(70).Equal(result.CategoryBreakdown[0].Percentage))
	assert.Equal(t, "Food", result.CategoryBreakdown[1].Name)
	assert.True(t, decimal.NewFromInt(30).Equal(result.CategoryBreakdown[1].Percentage))

	assert.Len(t, result.TimeSeries, 15)
	require.Len(t, result.MonthlyTrend, stats.TrendMonths)
	may := result.MonthlyTrend[stats.TrendMonths-2]
	assert.True(t, decimal.NewFromInt(999).Equal(may.Expense))
}

func TestGetStatistics_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t, withClock(fixedClock))

	_, err := env.svc.Statistics.GetStatistics(context.Background(), env.owner, "decade")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetStatistics_CacheInvalidatedByWrite(t *testing.T) {
	env := newTestEnv(t, withClock(fixedClock), withCaches(t))
	ctx := context.Background()
	acc := env.account(t, "Checking", "0")

	first, err := env.svc.Statistics.GetStatistics(ctx, env.owner, "")
	require.NoError(t, err)
	assert.True(t, first.TotalExpense.IsZero())
	env.svc.Statistics.statsCache.Wait()

	cached, err := env.svc.Statistics.GetStatistics(ctx, env.owner, "")
	require.NoError(t, err)
	assert.Same(t, first, cached)

	_, err = env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeExpense, "12"))
	require.NoError(t, err)

	fresh, err := env.svc.Statistics.GetStatistics(ctx, env.owner, "")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(fresh.TotalExpense))
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t, withClock(fixedClock), withCaches(t))
	ctx := context.Background()
	a := env.account(t, "A", "100")
	b := env.account(t, "B", "50.5")

	for i := 0; i < 12; i++ {
		_, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(a, TransactionTypeIncome, "1"))
		require.NoError(t, err)
	}
	_, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(b, TransactionTypeExpense, "0.5"))
	require.NoError(t, err)

	dash, err := env.svc.Statistics.GetDashboard(ctx, env.owner)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(12).Equal(dash.MonthlyIncome))
	assert.True(t, decimal.RequireFromString("0.5").Equal(dash.MonthlyExpense))
	assert.True(t, decimal.NewFromInt(162).Equal(dash.TotalBalance))
	assert.Len(t, dash.Accounts, 2)
	assert.Len(t, dash.RecentTransactions, recentTransactions)
}

package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/stats"
)

// Statistics is the aggregate view of one period.
type Statistics struct {
	Period            stats.Period
	From              time.Time
	To                time.Time
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	Net               decimal.Decimal
	CategoryBreakdown []stats.CategoryStat
	TimeSeries        []stats.PeriodStat
	MonthlyTrend      []stats.PeriodStat
}

// Dashboard is the landing view: current month totals, balances and the
// latest transactions.
type Dashboard struct {
	MonthlyIncome      decimal.Decimal
	MonthlyExpense     decimal.Decimal
	TotalBalance       decimal.Decimal
	Accounts           []Account
	RecentTransactions []Transaction
}

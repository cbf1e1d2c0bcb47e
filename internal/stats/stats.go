// Package stats derives read-only aggregates from a set of transactions.
// Every function is pure: the caller supplies the entries and the clock.
package stats

import (
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// TrendMonths is the length of the trailing monthly trend.
const TrendMonths = 6

const (
	unknownCategoryName  = "Unknown"
	unknownCategoryIcon  = "wallet"
	unknownCategoryColor = "#6b7280"
)

var hundred = decimal.NewFromInt(100)

// ParsePeriod maps an empty value to the month period.
func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(value), nil
	}
	return "", apperrors.Validation("period", "must be week, month or year")
}

// Entry is the part of a transaction the aggregations look at.
type Entry struct {
	Date       time.Time
	Type       transaction.Type
	Amount     decimal.Decimal
	CategoryID uuid.UUID
}

func FromTransactions(txs []*transaction.Transaction) []Entry {
	entries := make([]Entry, len(txs))
	for i, tx := range txs {
		entries[i] = Entry{
			Date:       tx.Date,
			Type:       tx.Type,
			Amount:     tx.Amount,
			CategoryID: tx.CategoryID,
		}
	}
	return entries
}

// CategoryInfo is the display data attached to a category total.
type CategoryInfo struct {
	Name  string
	Icon  string
	Color string
}

type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

type CategoryStat struct {
	CategoryID uuid.UUID
	Name       string
	Icon       string
	Color      string
	Total      decimal.Decimal
	Percentage decimal.Decimal
}

type PeriodStat struct {
	Date    time.Time
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Day truncates t to its calendar date in its own location, expressed in UTC
// to match the DATE column.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Window returns the inclusive date range covered by period.
func Window(period Period, now time.Time) (from, to time.Time) {
	today := Day(now)
	switch period {
	case PeriodWeek:
		return today.AddDate(0, 0, -6), today
	case PeriodYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today
	default:
		return monthStart(today), today
	}
}

// TrendWindow returns the inclusive date range covered by MonthlyTrend.
func TrendWindow(now time.Time, months int) (from, to time.Time) {
	today := Day(now)
	return monthStart(today).AddDate(0, -(months - 1), 0), today
}

func ComputeTotals(entries []Entry) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case transaction.TypeIncome:
			income = income.Add(e.Amount)
		case transaction.TypeExpense:
			expense = expense.Add(e.Amount)
		}
	}
	return Totals{Income: income, Expense: expense, Net: income.Sub(expense)}
}

// CategoryBreakdown groups expenses by category. Percentage is the share of
// total expense rounded to two places, or zero when there is no expense.
// Results are ordered by total descending, then name.
func CategoryBreakdown(entries []Entry, categories map[uuid.UUID]CategoryInfo) []CategoryStat {
	byCategory := make(map[uuid.UUID]*CategoryStat)
	totalExpense := decimal.Zero
	for _, e := range entries {
		if e.Type != transaction.TypeExpense {
			continue
		}
		totalExpense = totalExpense.Add(e.Amount)
		stat, ok := byCategory[e.CategoryID]
		if !ok {
			stat = &CategoryStat{
				CategoryID: e.CategoryID,
				Name:       unknownCategoryName,
				Icon:       unknownCategoryIcon,
				Color:      unknownCategoryColor,
				Total:      decimal.Zero,
			}
			if info, found := categories[e.CategoryID]; found {
				stat.Name = info.Name
				stat.Icon = info.Icon
				stat.Color = info.Color
			}
			byCategory[e.CategoryID] = stat
		}
		stat.Total = stat.Total.Add(e.Amount)
	}

	result := make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		stat.Percentage = decimal.Zero
		if totalExpense.IsPositive() {
			stat.Percentage = stat.Total.Div(totalExpense).Mul(hundred).Round(2)
		}
		result = append(result, *stat)
	}
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Total.Cmp(result[j].Total); c != 0 {
			return c > 0
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].CategoryID.String() < result[j].CategoryID.String()
	})
	return result
}

// TimeSeries buckets income and expense for period. Week and month use one
// bucket per day, year one bucket per month. Empty buckets are zero.
func TimeSeries(entries []Entry, period Period, now time.Time) []PeriodStat {
	from, to := Window(period, now)
	if period == PeriodYear {
		return monthlyBuckets(entries, from, to)
	}
	return dailyBuckets(entries, from, to)
}

// MonthlyTrend buckets income and expense for the trailing months calendar
// months, current month included.
func MonthlyTrend(entries []Entry, now time.Time, months int) []PeriodStat {
	if months < 1 {
		return nil
	}
	from, to := TrendWindow(now, months)
	return monthlyBuckets(entries, from, to)
}

func dailyBuckets(entries []Entry, from, to time.Time) []PeriodStat {
	var buckets []PeriodStat
	index := make(map[time.Time]int)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		index[d] = len(buckets)
		buckets = append(buckets, PeriodStat{
			Date:    d,
			Label:   d.Format(time.DateOnly),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		})
	}
	for _, e := range entries {
		if i, ok := index[Day(e.Date)]; ok {
			addTo(&buckets[i], e)
		}
	}
	return buckets
}

func monthlyBuckets(entries []Entry, from, to time.Time) []PeriodStat {
	var buckets []PeriodStat
	index := make(map[time.Time]int)
	for m := monthStart(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		index[m] = len(buckets)
		buckets = append(buckets, PeriodStat{
			Date:    m,
			Label:   m.Format("Jan"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		})
	}
	for _, e := range entries {
		d := Day(e.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		if i, ok := index[monthStart(d)]; ok {
			addTo(&buckets[i], e)
		}
	}
	return buckets
}

func addTo(bucket *PeriodStat, e Entry) {
	switch e.Type {
	case transaction.TypeIncome:
		bucket.Income = bucket.Income.Add(e.Amount)
	case transaction.TypeExpense:
		bucket.Expense = bucket.Expense.Add(e.Amount)
	}
}

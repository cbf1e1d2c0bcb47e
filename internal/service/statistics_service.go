package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/finance-server/internal/cache"
	"github.com/carson-networks/finance-server/internal/stats"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/category"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

const recentTransactions = 10

// StatisticsService derives read-only aggregates. Results are cached per
// owner until the owner's next committed write.
type StatisticsService struct {
	store          storage.Store
	statsCache     *cache.Cache[*Statistics]
	dashboardCache *cache.Cache[*Dashboard]
	clock          func() time.Time
}

func NewStatisticsService(store storage.Store, statsCache *cache.Cache[*Statistics], dashboardCache *cache.Cache[*Dashboard], clock func() time.Time) *StatisticsService {
	if clock == nil {
		clock = time.Now
	}
	return &StatisticsService{
		store:          store,
		statsCache:     statsCache,
		dashboardCache: dashboardCache,
		clock:          clock,
	}
}

// GetStatistics aggregates the owner's transactions over period. An empty
// period means the current month.
func (s *StatisticsService) GetStatistics(ctx context.Context, ownerID uuid.UUID, period string) (*Statistics, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	p, err := stats.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	result, _, err := s.statsCache.GetOrLoad(ownerID, "stats:"+string(p), func() (*Statistics, error) {
		return s.loadStatistics(ctx, ownerID, p)
	})
	return result, err
}

func (s *StatisticsService) loadStatistics(ctx context.Context, ownerID uuid.UUID, period stats.Period) (*Statistics, error) {
	now := s.clock()
	from, to := stats.Window(period, now)
	trendFrom, trendTo := stats.TrendWindow(now, stats.TrendMonths)
	reader := s.store.Read()

	var (
		inPeriod   []*transaction.Transaction
		inTrend    []*transaction.Transaction
		categories []*category.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inPeriod, err = reader.Transactions.ListInRange(gctx, ownerID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		inTrend, err = reader.Transactions.ListInRange(gctx, ownerID, trendFrom, trendTo)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = reader.Categories.ListVisible(gctx, ownerID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info := make(map[uuid.UUID]stats.CategoryInfo, len(categories))
	for _, c := range categories {
		info[c.ID] = stats.CategoryInfo{Name: c.Name, Icon: c.Icon, Color: c.Color}
	}

	entries := stats.FromTransactions(inPeriod)
	totals := stats.ComputeTotals(entries)
	return &Statistics{
		Period:            period,
		From:              from,
		To:                to,
		TotalIncome:       totals.Income,
		TotalExpense:      totals.Expense,
		Net:               totals.Net,
		CategoryBreakdown: stats.CategoryBreakdown(entries, info),
		TimeSeries:        stats.TimeSeries(entries, period, now),
		MonthlyTrend:      stats.MonthlyTrend(stats.FromTransactions(inTrend), now, stats.TrendMonths),
	}, nil
}

// GetDashboard returns month-to-date totals, every account with the summed
// balance, and the latest transactions.
func (s *StatisticsService) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	result, _, err := s.dashboardCache.GetOrLoad(ownerID, "dashboard", func() (*Dashboard, error) {
		return s.loadDashboard(ctx, ownerID)
	})
	return result, err
}

func (s *StatisticsService) loadDashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	now := s.clock()
	from, to := stats.Window(stats.PeriodMonth, now)
	reader := s.store.Read()

	var (
		month    []*transaction.Transaction
		accounts *account.AccountListResult
		recent   *transaction.TransactionListResult
		dash     Dashboard
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		month, err = reader.Transactions.ListInRange(gctx, ownerID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		dash.TotalBalance, err = reader.Accounts.TotalBalance(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = reader.Accounts.List(gctx, ownerID, &account.AccountFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = reader.Transactions.List(gctx, ownerID, &transaction.TransactionFilter{Limit: recentTransactions})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := stats.ComputeTotals(stats.FromTransactions(month))
	dash.MonthlyIncome = totals.Income
	dash.MonthlyExpense = totals.Expense
	dash.Accounts = accountsFromStorage(accounts.Accounts)
	dash.RecentTransactions = transactionsFromStorage(recent.Transactions)
	return &dash, nil
}

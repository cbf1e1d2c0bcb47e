package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/cache"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.TransactionEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) recorded() []events.TransactionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.TransactionEvent(nil), p.events...)
}

type testEnv struct {
	svc       *Service
	store     *memory.Store
	publisher *recordingPublisher
	owner     uuid.UUID
	income    uuid.UUID
	expense   uuid.UUID
}

type envOption func(*Dependencies)

func withClock(clock func() time.Time) envOption {
	return func(d *Dependencies) { d.Clock = clock }
}

func withCaches(t *testing.T) envOption {
	return func(d *Dependencies) {
		statsCache, err := cache.New[*Statistics]("stats", time.Minute, 1000)
		require.NoError(t, err)
		dashCache, err := cache.New[*Dashboard]("dashboard", time.Minute, 1000)
		require.NoError(t, err)
		t.Cleanup(statsCache.Close)
		t.Cleanup(dashCache.Close)
		d.StatsCache = statsCache
		d.DashboardCache = dashCache
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	store := memory.NewStore()
	delegator := operator.NewOperatorDelegator(store, 4,
		operator.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	publisher := &recordingPublisher{}
	deps := Dependencies{
		Store:     store,
		Processor: delegator,
		Publisher: publisher,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	env := &testEnv{
		svc:       NewService(deps),
		store:     store,
		publisher: publisher,
		owner:     uuid.Must(uuid.NewV4()),
	}
	cats, err := env.svc.Category.ListCategories(context.Background(), env.owner, nil)
	require.NoError(t, err)
	for _, c := range cats {
		switch {
		case c.Type == TransactionTypeIncome && env.income.IsNil():
			env.income = c.ID
		case c.Type == TransactionTypeExpense && env.expense.IsNil():
			env.expense = c.ID
		}
	}
	return env
}

func (e *testEnv) account(t *testing.T, name, opening string) uuid.UUID {
	t.Helper()
	acc, err := e.svc.Account.CreateAccount(context.Background(), e.owner, NewAccount{
		Name:           name,
		Type:           AccountTypeBank,
		OpeningBalance: decimal.RequireFromString(opening),
	})
	require.NoError(t, err)
	return acc.ID
}

func (e *testEnv) balance(t *testing.T, accountID uuid.UUID) decimal.Decimal {
	t.Helper()
	acc, err := e.svc.Account.GetAccount(context.Background(), e.owner, accountID)
	require.NoError(t, err)
	return acc.Balance
}

func (e *testEnv) draft(accountID uuid.UUID, txType TransactionType, amount string) TransactionDraft {
	categoryID := e.expense
	if txType == TransactionTypeIncome {
		categoryID = e.income
	}
	return TransactionDraft{
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     decimal.RequireFromString(amount),
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

// assertConsistent checks that every account balance equals its opening
// balance plus the signed sum of its stored transactions.
func (e *testEnv) assertConsistent(t *testing.T, opening map[uuid.UUID]decimal.Decimal) {
	t.Helper()
	ctx := context.Background()
	expected := make(map[uuid.UUID]decimal.Decimal, len(opening))
	for id, amount := range opening {
		expected[id] = amount
	}

	var cursor *TransactionCursor
	for {
		page, next, err := e.svc.Transaction.ListTransactions(ctx, e.owner, TransactionFilter{}, cursor)
		require.NoError(t, err)
		for _, tx := range page {
			if tx.Type == TransactionTypeIncome {
				expected[tx.AccountID] = expected[tx.AccountID].Add(tx.Amount)
			} else {
				expected[tx.AccountID] = expected[tx.AccountID].Sub(tx.Amount)
			}
		}
		if next == nil {
			break
		}
		cursor = next
	}

	for id, want := range expected {
		got := e.balance(t, id)
		assert.Truef(t, want.Equal(got), "account %s: want %s got %s\n%s", id, want, got, spew.Sdump(expected))
	}
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func TestNewService_NilOwnerIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Transaction.CreateTransaction(ctx, uuid.Nil, TransactionDraft{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, _, err = env.svc.Account.ListAccounts(ctx, uuid.Nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = env.svc.Category.ListCategories(ctx, uuid.Nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = env.svc.Checklist.ListItems(ctx, uuid.Nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = env.svc.Statistics.GetStatistics(ctx, uuid.Nil, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = env.svc.Statistics.GetDashboard(ctx, uuid.Nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestProcessorErrorIsReturnedWithoutSideEffects(t *testing.T) {
	processor := &mockProcessor{}
	publisher := &recordingPublisher{}
	svc := NewService(Dependencies{Store: memory.NewStore(), Processor: processor, Publisher: publisher})
	owner := uuid.Must(uuid.NewV4())

	processor.On("Process", mock.Anything, mock.AnythingOfType("*actions.CreateTransaction")).
		Return(apperrors.Conflict(assert.AnError))

	_, err := svc.Transaction.CreateTransaction(context.Background(), owner, TransactionDraft{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.NewFromInt(1),
	})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Empty(t, publisher.recorded())
	processor.AssertExpectations(t)
}

func TestCreateTransaction_DateIsNormalized(t *testing.T) {
	processor := &mockProcessor{}
	svc := NewService(Dependencies{Store: memory.NewStore(), Processor: processor})
	owner := uuid.Must(uuid.NewV4())
	local := time.FixedZone("UTC+9", 9*60*60)

	processor.On("Process", mock.Anything, mock.MatchedBy(func(a *actions.CreateTransaction) bool {
		return a.Create.UserID == owner &&
			a.Create.Date.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	})).Return(assert.AnError)

	_, err := svc.Transaction.CreateTransaction(context.Background(), owner, TransactionDraft{
		Date: time.Date(2025, 3, 2, 1, 30, 0, 0, local),
	})

	assert.ErrorIs(t, err, assert.AnError)
	processor.AssertExpectations(t)
}

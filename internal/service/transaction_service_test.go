package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/events"
)

func TestCreateTransaction_AppliesEffectAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "100")

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeExpense, "30.25"))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("69.75").Equal(env.balance(t, acc)))

	published := env.publisher.recorded()
	require.Len(t, published, 1)
	assert.Equal(t, events.KindTransactionCreated, published[0].Kind)
	assert.Equal(t, created.ID, published[0].TransactionID)
	assert.Equal(t, "2025-06-10", published[0].Date)
	assert.True(t, decimal.RequireFromString("69.75").Equal(published[0].Balances[acc]))
}

func TestCreateTransaction_ConcurrentCreatesAllApply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "0")

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeIncome, "10"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.True(t, decimal.NewFromInt(n*10).Equal(env.balance(t, acc)))
	env.assertConsistent(t, map[uuid.UUID]decimal.Decimal{acc: decimal.Zero})
}

func TestCreateTransaction_RejectedLeavesBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "100")

	draft := env.draft(acc, TransactionTypeExpense, "0")
	_, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, draft)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	draft = env.draft(uuid.Must(uuid.NewV4()), TransactionTypeExpense, "5")
	_, err = env.svc.Transaction.CreateTransaction(ctx, env.owner, draft)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.True(t, decimal.NewFromInt(100).Equal(env.balance(t, acc)))
	assert.Empty(t, env.publisher.recorded())
}

func TestUpdateTransaction_MovesBetweenAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	x := env.account(t, "X", "500")
	y := env.account(t, "Y", "20")

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(x, TransactionTypeExpense, "50"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(450).Equal(env.balance(t, x)))

	amount := decimal.NewFromInt(75)
	updated, err := env.svc.Transaction.UpdateTransaction(ctx, env.owner, created.ID, TransactionPatch{
		AccountID: &y,
		Amount:    &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, y, updated.AccountID)

	assert.True(t, decimal.NewFromInt(500).Equal(env.balance(t, x)))
	assert.True(t, decimal.NewFromInt(-55).Equal(env.balance(t, y)))

	published := env.publisher.recorded()
	require.Len(t, published, 2)
	event := published[1]
	assert.Equal(t, events.KindTransactionUpdated, event.Kind)
	require.NotNil(t, event.PreviousAccountID)
	assert.Equal(t, x, *event.PreviousAccountID)
	assert.Len(t, event.Balances, 2)

	env.assertConsistent(t, map[uuid.UUID]decimal.Decimal{
		x: decimal.NewFromInt(500),
		y: decimal.NewFromInt(20),
	})
}

func TestUpdateTransaction_FlipTypeOnSameAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "1000")

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeIncome, "600"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1600).Equal(env.balance(t, acc)))

	expense := TransactionTypeExpense
	amount := decimal.NewFromInt(1800)
	_, err = env.svc.Transaction.UpdateTransaction(ctx, env.owner, created.ID, TransactionPatch{
		Type:       &expense,
		Amount:     &amount,
		CategoryID: &env.expense,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-200).Equal(env.balance(t, acc)))

	require.NoError(t, env.svc.Transaction.DeleteTransaction(ctx, env.owner, created.ID))
	assert.True(t, decimal.NewFromInt(1000).Equal(env.balance(t, acc)))
}

func TestUpdateTransaction_IdenticalPatchKeepsBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "100")

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeExpense, "40"))
	require.NoError(t, err)

	amount := created.Amount
	_, err = env.svc.Transaction.UpdateTransaction(ctx, env.owner, created.ID, TransactionPatch{Amount: &amount})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(60).Equal(env.balance(t, acc)))
}

func TestUpdateTransaction_CategoryTypeMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "100")

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeExpense, "40"))
	require.NoError(t, err)

	_, err = env.svc.Transaction.UpdateTransaction(ctx, env.owner, created.ID, TransactionPatch{CategoryID: &env.income})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.True(t, decimal.NewFromInt(60).Equal(env.balance(t, acc)))
}

func TestDeleteTransaction_ReversesExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "150")

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeExpense, "50"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(env.balance(t, acc)))

	require.NoError(t, env.svc.Transaction.DeleteTransaction(ctx, env.owner, created.ID))
	assert.True(t, decimal.NewFromInt(150).Equal(env.balance(t, acc)))

	_, err = env.svc.Transaction.GetTransaction(ctx, env.owner, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = env.svc.Transaction.DeleteTransaction(ctx, env.owner, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.True(t, decimal.NewFromInt(150).Equal(env.balance(t, acc)))
}

func TestTransactions_OtherOwnerSeesNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "100")
	stranger := uuid.Must(uuid.NewV4())

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeExpense, "10"))
	require.NoError(t, err)

	_, err = env.svc.Transaction.GetTransaction(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	err = env.svc.Transaction.DeleteTransaction(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	amount := decimal.NewFromInt(500)
	_, err = env.svc.Transaction.UpdateTransaction(ctx, stranger, created.ID, TransactionPatch{Amount: &amount})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.svc.Transaction.CreateTransaction(ctx, stranger, env.draft(acc, TransactionTypeExpense, "10"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.True(t, decimal.NewFromInt(90).Equal(env.balance(t, acc)))

	got, err := env.svc.Transaction.GetTransaction(ctx, env.owner, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Amount), "amount %s", got.Amount)
}

func TestListTransactions_Paginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.account(t, "Checking", "0")

	for i := 0; i < 5; i++ {
		draft := env.draft(acc, TransactionTypeIncome, "1")
		draft.Date = time.Date(2025, 6, 1+i, 0, 0, 0, 0, time.UTC)
		_, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, draft)
		require.NoError(t, err)
	}

	page, next, err := env.svc.Transaction.ListTransactions(ctx, env.owner, TransactionFilter{}, &TransactionCursor{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), page[0].Date)

	// Rows created after the first page do not shift later pages.
	_, err = env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeIncome, "1"))
	require.NoError(t, err)

	var seen []Transaction
	seen = append(seen, page...)
	for next != nil {
		page, next, err = env.svc.Transaction.ListTransactions(ctx, env.owner, TransactionFilter{}, next)
		require.NoError(t, err)
		seen = append(seen, page...)
	}
	require.Len(t, seen, 5)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), seen[4].Date)

	income := TransactionTypeIncome
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	filtered, _, err := env.svc.Transaction.ListTransactions(ctx, env.owner, TransactionFilter{Type: &income, From: &from, To: &to}, nil)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestTransactions_RandomSequenceStaysConsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	opening := map[uuid.UUID]decimal.Decimal{}
	var accounts []uuid.UUID
	for _, name := range []string{"A", "B", "C"} {
		id := env.account(t, name, "250")
		opening[id] = decimal.NewFromInt(250)
		accounts = append(accounts, id)
	}

	var live []uuid.UUID
	for i := 0; i < 200; i++ {
		acc := accounts[rng.Intn(len(accounts))]
		txType := TransactionTypeExpense
		if rng.Intn(2) == 0 {
			txType = TransactionTypeIncome
		}
		amount := decimal.New(int64(rng.Intn(100000)+1), -2)

		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			draft := env.draft(acc, txType, amount.String())
			created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, draft)
			require.NoError(t, err)
			live = append(live, created.ID)
		case op == 1:
			id := live[rng.Intn(len(live))]
			categoryID := env.expense
			if txType == TransactionTypeIncome {
				categoryID = env.income
			}
			_, err := env.svc.Transaction.UpdateTransaction(ctx, env.owner, id, TransactionPatch{
				AccountID:  &acc,
				Type:       &txType,
				CategoryID: &categoryID,
				Amount:     &amount,
			})
			require.NoError(t, err)
		default:
			idx := rng.Intn(len(live))
			require.NoError(t, env.svc.Transaction.DeleteTransaction(ctx, env.owner, live[idx]))
			live = append(live[:idx], live[idx+1:]...)
		}
	}

	env.assertConsistent(t, opening)
}

func TestDeleteTransaction_PublishFailureKeepsCommit(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = assert.AnError
	ctx := context.Background()
	acc := env.account(t, "Checking", "10")

	created, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeIncome, "5"))
	require.NoError(t, err)
	require.NoError(t, env.svc.Transaction.DeleteTransaction(ctx, env.owner, created.ID))

	assert.True(t, decimal.NewFromInt(10).Equal(env.balance(t, acc)))
	assert.Len(t, env.publisher.recorded(), 2)
}

// stalledPublisher never delivers; it returns only when its context ends.
type stalledPublisher struct {
	hadDeadline chan bool
}

func (p *stalledPublisher) Publish(ctx context.Context, _ events.TransactionEvent) error {
	_, ok := ctx.Deadline()
	p.hadDeadline <- ok
	<-ctx.Done()
	return ctx.Err()
}

func (p *stalledPublisher) Close() error { return nil }

func TestCreateTransaction_StalledPublisherDoesNotHoldCaller(t *testing.T) {
	publisher := &stalledPublisher{hadDeadline: make(chan bool, 1)}
	env := newTestEnv(t, func(d *Dependencies) {
		d.Publisher = publisher
		d.PublishTimeout = 50 * time.Millisecond
	})
	acc := env.account(t, "Checking", "100")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := env.svc.Transaction.CreateTransaction(ctx, env.owner, env.draft(acc, TransactionTypeExpense, "30"))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second)
	assert.True(t, <-publisher.hadDeadline)
	assert.True(t, decimal.NewFromInt(70).Equal(env.balance(t, acc)))
}

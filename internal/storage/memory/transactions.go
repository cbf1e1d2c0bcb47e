package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

var (
	errForeignKey = errors.New("memory: foreign key violation")
	errCheck      = errors.New("memory: check constraint violation")
)

type transactionTable struct {
	s *Store
	u *unit
}

func (t *transactionTable) FindByID(_ context.Context, ownerID, id uuid.UUID) (*transaction.Transaction, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	return t.find(ownerID, id)
}

// FindByIDForUpdate is FindByID; the open unit already excludes other writers.
func (t *transactionTable) FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*transaction.Transaction, error) {
	return t.FindByID(ctx, ownerID, id)
}

func (t *transactionTable) find(ownerID, id uuid.UUID) (*transaction.Transaction, error) {
	tx, ok := t.s.transactions[id]
	if !ok || tx.UserID != ownerID {
		return nil, apperrors.NotFound("transaction")
	}
	return cloneTransaction(tx), nil
}

func (t *transactionTable) List(_ context.Context, ownerID uuid.UUID, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &transaction.TransactionFilter{}
	}

	var rows []*transaction.Transaction
	for _, tx := range t.s.transactions {
		if tx.UserID != ownerID || !matches(&tx, filter) {
			continue
		}
		rows = append(rows, cloneTransaction(tx))
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})

	if filter.Offset >= len(rows) {
		return &transaction.TransactionListResult{}, nil
	}
	rows = rows[filter.Offset:]
	if filter.Limit > 0 && len(rows) > filter.Limit+1 {
		rows = rows[:filter.Limit+1]
	}
	return transaction.Page(rows, filter, t.s.now()), nil
}

func (t *transactionTable) ListInRange(_ context.Context, ownerID uuid.UUID, from, to time.Time) ([]*transaction.Transaction, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	var rows []*transaction.Transaction
	for _, tx := range t.s.transactions {
		if tx.UserID != ownerID || tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		rows = append(rows, cloneTransaction(tx))
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows, nil
}

func (t *transactionTable) Insert(_ context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if err := t.constraints(create.AccountID, create.CategoryID, create.Type, create.Amount.IsPositive()); err != nil {
		return nil, apperrors.Storage("insert transaction", err)
	}
	tx := transaction.Transaction{
		ID:          newID(),
		UserID:      create.UserID,
		AccountID:   create.AccountID,
		CategoryID:  create.CategoryID,
		Type:        create.Type,
		Amount:      create.Amount,
		Description: copyString(create.Description),
		Date:        create.Date,
		CreatedAt:   t.s.now(),
	}
	t.s.transactions[tx.ID] = tx
	t.u.record(func() { delete(t.s.transactions, tx.ID) })
	return cloneTransaction(tx), nil
}

func (t *transactionTable) Update(_ context.Context, ownerID, id uuid.UUID, update *transaction.TransactionUpdate) (*transaction.Transaction, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	prev, ok := t.s.transactions[id]
	if !ok || prev.UserID != ownerID {
		return nil, apperrors.NotFound("transaction")
	}
	if err := t.constraints(update.AccountID, update.CategoryID, update.Type, update.Amount.IsPositive()); err != nil {
		return nil, apperrors.Storage("update transaction", err)
	}
	next := prev
	next.AccountID = update.AccountID
	next.CategoryID = update.CategoryID
	next.Type = update.Type
	next.Amount = update.Amount
	next.Description = copyString(update.Description)
	next.Date = update.Date
	t.s.transactions[id] = next
	t.u.record(func() { t.s.transactions[id] = prev })
	return cloneTransaction(next), nil
}

func (t *transactionTable) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	if err := t.check(); err != nil {
		return err
	}
	prev, ok := t.s.transactions[id]
	if !ok || prev.UserID != ownerID {
		return apperrors.NotFound("transaction")
	}
	delete(t.s.transactions, id)
	t.u.record(func() { t.s.transactions[id] = prev })
	return nil
}

func (t *transactionTable) CountByAccount(_ context.Context, ownerID, accountID uuid.UUID) (int64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	var n int64
	for _, tx := range t.s.transactions {
		if tx.UserID == ownerID && tx.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (t *transactionTable) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	var n int64
	for _, tx := range t.s.transactions {
		if tx.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// constraints mirrors the foreign keys and checks of the SQL schema.
func (t *transactionTable) constraints(accountID, categoryID uuid.UUID, txType transaction.Type, positive bool) error {
	if _, ok := t.s.accounts[accountID]; !ok {
		return errForeignKey
	}
	if _, ok := t.s.categories[categoryID]; !ok {
		return errForeignKey
	}
	if !txType.Valid() || !positive {
		return errCheck
	}
	return nil
}

func (t *transactionTable) check() error {
	if t.u == nil {
		return nil
	}
	return t.u.check()
}

func matches(tx *transaction.Transaction, filter *transaction.TransactionFilter) bool {
	if filter.Type != nil && tx.Type != *filter.Type {
		return false
	}
	if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
		return false
	}
	if filter.CategoryID != nil && tx.CategoryID != *filter.CategoryID {
		return false
	}
	if filter.From != nil && tx.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && tx.Date.After(*filter.To) {
		return false
	}
	if filter.MaxCreationTime != nil && tx.CreatedAt.After(*filter.MaxCreationTime) {
		return false
	}
	return true
}

func cloneTransaction(tx transaction.Transaction) *transaction.Transaction {
	tx.Description = copyString(tx.Description)
	return &tx
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

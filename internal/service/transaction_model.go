package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type TransactionType = transaction.Type

const (
	TransactionTypeIncome  = transaction.TypeIncome
	TransactionTypeExpense = transaction.TypeExpense
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
	CreatedAt   time.Time
}

// TransactionDraft is the input of CreateTransaction.
type TransactionDraft struct {
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
}

// TransactionPatch is the input of UpdateTransaction. Nil fields keep their
// stored value; an empty Description clears it.
type TransactionPatch struct {
	AccountID   *uuid.UUID
	CategoryID  *uuid.UUID
	Type        *TransactionType
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// TransactionFilter narrows ListTransactions. From and To are inclusive dates.
type TransactionFilter struct {
	Type      *TransactionType
	AccountID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		CategoryID:  row.CategoryID,
		Type:        row.Type,
		Amount:      row.Amount,
		Description: row.Description,
		Date:        row.Date,
		CreatedAt:   row.CreatedAt,
	}
}

func transactionsFromStorage(rows []*transaction.Transaction) []Transaction {
	if len(rows) == 0 {
		return nil
	}
	converted := make([]Transaction, len(rows))
	for i, row := range rows {
		converted[i] = transactionFromStorage(row)
	}
	return converted
}

func (p TransactionPatch) toStorage() transaction.Patch {
	patch := transaction.Patch{
		AccountID:   p.AccountID,
		CategoryID:  p.CategoryID,
		Type:        p.Type,
		Amount:      p.Amount,
		Description: p.Description,
	}
	if p.Date != nil {
		d := dateOnly(*p.Date)
		patch.Date = &d
	}
	return patch
}

// dateOnly keeps the calendar date of t.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package transaction

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const TableName = "transactions"

var columns = []any{"id", "user_id", "account_id", "category_id", "type", "amount", "description", "date", "created_at"}

// Type is the direction of a transaction. Categories share the same values.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a transaction record.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	AccountID   uuid.UUID       `db:"account_id"`
	CategoryID  uuid.UUID       `db:"category_id"`
	Type        Type            `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Description *string         `db:"description"`
	Date        time.Time       `db:"date"`
	CreatedAt   time.Time       `db:"created_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
}

// TransactionUpdate is the complete new state written over an existing row.
type TransactionUpdate struct {
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
}

// Patch is a partial update. Nil fields keep the original value; an empty
// Description clears it.
type Patch struct {
	AccountID   *uuid.UUID
	CategoryID  *uuid.UUID
	Type        *Type
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// Apply merges the patch onto original and returns the new state.
func (p *Patch) Apply(original Transaction) Transaction {
	merged := original
	if p == nil {
		return merged
	}
	if p.AccountID != nil {
		merged.AccountID = *p.AccountID
	}
	if p.CategoryID != nil {
		merged.CategoryID = *p.CategoryID
	}
	if p.Type != nil {
		merged.Type = *p.Type
	}
	if p.Amount != nil {
		merged.Amount = *p.Amount
	}
	if p.Description != nil {
		if *p.Description == "" {
			merged.Description = nil
		} else {
			desc := *p.Description
			merged.Description = &desc
		}
	}
	if p.Date != nil {
		merged.Date = *p.Date
	}
	return merged
}

// ToUpdate converts a full transaction state into the update written to storage.
func (t *Transaction) ToUpdate() *TransactionUpdate {
	return &TransactionUpdate{
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
	}
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	Type            *Type
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionListResult contains a page of transactions and an optional next cursor.
type TransactionListResult struct {
	Transactions []*Transaction
	NextCursor   *TransactionCursor
}

package account

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const TableName = "accounts"

var columns = []any{"id", "user_id", "name", "type", "balance", "color", "icon", "created_at"}

// Account represents an account record.
type Account struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Name      string          `db:"name"`
	Type      AccountType     `db:"type"`
	Balance   decimal.Decimal `db:"balance"`
	Color     string          `db:"color"`
	Icon      string          `db:"icon"`
	CreatedAt time.Time       `db:"created_at"`
}

// AccountFilter specifies filters for listing accounts. A zero Limit lists everything.
type AccountFilter struct {
	Limit  int
	Offset int
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountListResult contains a page of accounts and an optional next cursor.
type AccountListResult struct {
	Accounts   []*Account
	NextCursor *AccountCursor
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	UserID         uuid.UUID
	Name           string
	Type           AccountType
	OpeningBalance decimal.Decimal
	Color          string
	Icon           string
}

// AccountPatch changes display metadata. Nil fields are left alone; balance is never part of it.
type AccountPatch struct {
	Name  *string
	Type  *AccountType
	Color *string
	Icon  *string
}

// Apply returns a copy of acc with the patch applied.
func (p *AccountPatch) Apply(acc Account) Account {
	if p == nil {
		return acc
	}
	if p.Name != nil {
		acc.Name = *p.Name
	}
	if p.Type != nil {
		acc.Type = *p.Type
	}
	if p.Color != nil {
		acc.Color = *p.Color
	}
	if p.Icon != nil {
		acc.Icon = *p.Icon
	}
	return acc
}

type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCredit, AccountTypeSavings, AccountTypeInvestment:
		return true
	}
	return false
}

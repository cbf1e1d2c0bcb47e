package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/account"
)

// AccountType represents an account type in the service layer.
type AccountType = account.AccountType

const (
	AccountTypeCash       = account.AccountTypeCash
	AccountTypeBank       = account.AccountTypeBank
	AccountTypeCredit     = account.AccountTypeCredit
	AccountTypeSavings    = account.AccountTypeSavings
	AccountTypeInvestment = account.AccountTypeInvestment
)

// Account represents an account in the service layer.
type Account struct {
	ID        uuid.UUID
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Color     string
	Icon      string
	CreatedAt time.Time
}

// NewAccount is the input of CreateAccount.
type NewAccount struct {
	Name           string
	Type           AccountType
	OpeningBalance decimal.Decimal
	Color          string
	Icon           string
}

// AccountPatch is the input of UpdateAccount. Balance is not editable.
type AccountPatch struct {
	Name  *string
	Type  *AccountType
	Color *string
	Icon  *string
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

func accountFromStorage(row *account.Account) Account {
	return Account{
		ID:        row.ID,
		Name:      row.Name,
		Type:      row.Type,
		Balance:   row.Balance,
		Color:     row.Color,
		Icon:      row.Icon,
		CreatedAt: row.CreatedAt,
	}
}

func accountsFromStorage(rows []*account.Account) []Account {
	if len(rows) == 0 {
		return nil
	}
	converted := make([]Account, len(rows))
	for i, row := range rows {
		converted[i] = accountFromStorage(row)
	}
	return converted
}

package transaction

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string  `json:"id" doc:"Transaction UUID"`
	AccountID   string  `json:"accountID" doc:"Account UUID"`
	CategoryID  string  `json:"categoryID" doc:"Category UUID"`
	Type        string  `json:"type" enum:"income,expense" doc:"Transaction type"`
	Amount      string  `json:"amount" doc:"Positive decimal amount"`
	Description *string `json:"description,omitempty" doc:"Free text description"`
	Date        string  `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
	CreatedAt   string  `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromService(tx service.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		CategoryID:  tx.CategoryID.String(),
		Type:        string(tx.Type),
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Date:        tx.Date.Format(time.DateOnly),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339Nano),
	}
}

// TransactionIDPath is the path parameter shared by the single-transaction endpoints.
type TransactionIDPath struct {
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	return id, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
	}
	return date, nil
}

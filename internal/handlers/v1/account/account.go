package account

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID        string `json:"id" doc:"Account UUID"`
	Name      string `json:"name" doc:"Account name"`
	Type      string `json:"type" enum:"cash,bank,credit,savings,investment" doc:"Account type"`
	Balance   string `json:"balance" doc:"Decimal balance"`
	Color     string `json:"color" doc:"Display color"`
	Icon      string `json:"icon" doc:"Display icon"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromService(acc service.Account) Account {
	return Account{
		ID:        acc.ID.String(),
		Name:      acc.Name,
		Type:      string(acc.Type),
		Balance:   acc.Balance.String(),
		Color:     acc.Color,
		Icon:      acc.Icon,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
	}
}

// AccountIDPath is the path parameter shared by the single-account endpoints.
type AccountIDPath struct {
	ID string `path:"id" format:"uuid" doc:"Account UUID"`
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	return id, nil
}

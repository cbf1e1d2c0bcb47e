package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// UpdateTransactionBody is a partial update. Omitted fields keep their value;
// an empty description clears it.
type UpdateTransactionBody struct {
	AccountID   *string `json:"accountID,omitempty" format:"uuid" doc:"Account UUID"`
	CategoryID  *string `json:"categoryID,omitempty" format:"uuid" doc:"Category UUID"`
	Type        *string `json:"type,omitempty" enum:"income,expense" doc:"Transaction type"`
	Amount      *string `json:"amount,omitempty" doc:"Positive decimal amount"`
	Description *string `json:"description,omitempty" maxLength:"500" doc:"Free text description, empty to clear"`
	Date        *string `json:"date,omitempty" format:"date" doc:"Calendar date (YYYY-MM-DD)"`
}

// UpdateTransactionInput is the Huma input for updating a transaction.
type UpdateTransactionInput struct {
	TransactionIDPath
	Body UpdateTransactionBody
}

// UpdateTransactionOutput is the Huma output for updating a transaction.
type UpdateTransactionOutput struct {
	Body Transaction
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, patch service.TransactionPatch) (*service.Transaction, error)
}

// UpdateTransactionHandler handles PATCH /v1/transactions/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transactions/{id}",
		Summary:     "Update transaction",
		Description: "Updates a transaction. The original effect is reversed on the original account and the new effect applied, atomically.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseUpdateTransactionInput(input *UpdateTransactionInput) (uuid.UUID, service.TransactionPatch, error) {
	var patch service.TransactionPatch
	id, err := parseID(input.ID)
	if err != nil {
		return uuid.Nil, patch, err
	}

	body := input.Body
	if body.AccountID != nil {
		accountID, err := parseID(*body.AccountID)
		if err != nil {
			return uuid.Nil, patch, err
		}
		patch.AccountID = &accountID
	}
	if body.CategoryID != nil {
		categoryID, err := parseID(*body.CategoryID)
		if err != nil {
			return uuid.Nil, patch, err
		}
		patch.CategoryID = &categoryID
	}
	if body.Type != nil {
		txType := service.TransactionType(*body.Type)
		patch.Type = &txType
	}
	if body.Amount != nil {
		amount, err := parseAmount(*body.Amount)
		if err != nil {
			return uuid.Nil, patch, err
		}
		patch.Amount = &amount
	}
	if body.Date != nil {
		date, err := parseDate(*body.Date)
		if err != nil {
			return uuid.Nil, patch, err
		}
		patch.Date = &date
	}
	patch.Description = body.Description

	return id, patch, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	id, patch, err := parseUpdateTransactionInput(input)
	if err != nil {
		return nil, err
	}
	logData.AddData("transactionID", id.String())

	stopTimer := logData.AddTiming("updateTransactionMs")
	updated, err := h.TransactionService.UpdateTransaction(ctx, auth.OwnerFromContext(ctx), id, patch)
	stopTimer()
	if err != nil {
		return nil, apierror.FromService(err, "failed to update transaction")
	}

	return &UpdateTransactionOutput{Body: fromService(*updated)}, nil
}

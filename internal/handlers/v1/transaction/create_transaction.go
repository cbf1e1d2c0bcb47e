package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	AccountID   string  `json:"accountID" format:"uuid" doc:"Account UUID"`
	CategoryID  string  `json:"categoryID" format:"uuid" doc:"Category UUID"`
	Type        string  `json:"type" enum:"income,expense" doc:"Transaction type"`
	Amount      string  `json:"amount" minLength:"1" doc:"Positive decimal amount, at most 4 decimal places"`
	Description *string `json:"description,omitempty" maxLength:"500" doc:"Free text description"`
	Date        string  `json:"date,omitempty" format:"date" doc:"Calendar date (YYYY-MM-DD), defaults to today"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, ownerID uuid.UUID, draft service.TransactionDraft) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transactions",
		Summary:       "Create transaction",
		Description:   "Records a transaction and applies it to the account balance.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses the API input into a service draft.
// A missing date means today.
func parseCreateTransactionInput(input *CreateTransactionInput, now time.Time) (service.TransactionDraft, error) {
	accountID, err := parseID(input.Body.AccountID)
	if err != nil {
		return service.TransactionDraft{}, err
	}
	categoryID, err := parseID(input.Body.CategoryID)
	if err != nil {
		return service.TransactionDraft{}, err
	}
	amount, err := parseAmount(input.Body.Amount)
	if err != nil {
		return service.TransactionDraft{}, err
	}

	date := now
	if input.Body.Date != "" {
		date, err = parseDate(input.Body.Date)
		if err != nil {
			return service.TransactionDraft{}, err
		}
	}

	return service.TransactionDraft{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Type:        service.TransactionType(input.Body.Type),
		Amount:      amount,
		Description: input.Body.Description,
		Date:        date,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	draft, err := parseCreateTransactionInput(input, time.Now())
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createTransactionMs")
	created, err := h.TransactionService.CreateTransaction(ctx, auth.OwnerFromContext(ctx), draft)
	stopTimer()
	if err != nil {
		return nil, apierror.FromService(err, "failed to create transaction")
	}

	logData.AddData("transactionID", created.ID.String())

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   fromService(*created),
	}, nil
}

package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name           string `json:"name" minLength:"1" maxLength:"100" doc:"Account name"`
	Type           string `json:"type" enum:"cash,bank,credit,savings,investment" doc:"Account type"`
	OpeningBalance string `json:"openingBalance,omitempty" doc:"Opening balance (e.g. '0' or '1234.56'), defaults to 0"`
	Color          string `json:"color,omitempty" doc:"Display color"`
	Icon           string `json:"icon,omitempty" doc:"Display icon"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, ownerID uuid.UUID, in service.NewAccount) (*service.Account, error)
}

// CreateAccountHandler handles POST /v1/accounts.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/v1/accounts",
		Summary:       "Create an account",
		Description:   "Creates a new account with the given name, type, and opening balance.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (service.NewAccount, error) {
	openingBalanceStr := input.Body.OpeningBalance
	if openingBalanceStr == "" {
		openingBalanceStr = "0"
	}
	openingBalance, err := decimal.NewFromString(openingBalanceStr)
	if err != nil {
		return service.NewAccount{}, huma.NewError(http.StatusBadRequest, "invalid openingBalance", err)
	}

	return service.NewAccount{
		Name:           input.Body.Name,
		Type:           service.AccountType(input.Body.Type),
		OpeningBalance: openingBalance,
		Color:          input.Body.Color,
		Icon:           input.Body.Icon,
	}, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	account, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createAccountMs")
	created, err := h.AccountService.CreateAccount(ctx, auth.OwnerFromContext(ctx), account)
	stopTimer()
	if err != nil {
		return nil, apierror.FromService(err, "failed to create account")
	}

	logData.AddData("accountID", created.ID.String())

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   fromService(*created),
	}, nil
}

package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/service"
)

// UpdateAccountBody edits display fields. The balance only moves through
// transactions.
type UpdateAccountBody struct {
	Name  *string `json:"name,omitempty" minLength:"1" maxLength:"100" doc:"Account name"`
	Type  *string `json:"type,omitempty" enum:"cash,bank,credit,savings,investment" doc:"Account type"`
	Color *string `json:"color,omitempty" doc:"Display color"`
	Icon  *string `json:"icon,omitempty" doc:"Display icon"`
}

type UpdateAccountInput struct {
	AccountIDPath
	Body UpdateAccountBody
}

type UpdateAccountOutput struct {
	Body Account
}

type accountUpdater interface {
	UpdateAccount(ctx context.Context, ownerID, id uuid.UUID, patch service.AccountPatch) (*service.Account, error)
}

// UpdateAccountHandler handles PATCH /v1/accounts/{id}.
type UpdateAccountHandler struct {
	AccountService accountUpdater
}

func NewUpdateAccountHandler(svc accountUpdater) *UpdateAccountHandler {
	return &UpdateAccountHandler{AccountService: svc}
}

func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPatch,
		Path:        "/v1/accounts/{id}",
		Summary:     "Update an account",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}

	patch := service.AccountPatch{
		Name:  input.Body.Name,
		Color: input.Body.Color,
		Icon:  input.Body.Icon,
	}
	if input.Body.Type != nil {
		accountType := service.AccountType(*input.Body.Type)
		patch.Type = &accountType
	}

	acc, err := h.AccountService.UpdateAccount(ctx, auth.OwnerFromContext(ctx), id, patch)
	if err != nil {
		return nil, apierror.FromService(err, "failed to update account")
	}
	return &UpdateAccountOutput{Body: fromService(*acc)}, nil
}

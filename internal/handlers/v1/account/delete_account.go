package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
)

type accountDeleter interface {
	DeleteAccount(ctx context.Context, ownerID, id uuid.UUID) error
}

// DeleteAccountHandler handles DELETE /v1/accounts/{id}.
type DeleteAccountHandler struct {
	AccountService accountDeleter
}

func NewDeleteAccountHandler(svc accountDeleter) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-account",
		Method:        http.MethodDelete,
		Path:          "/v1/accounts/{id}",
		Summary:       "Delete an account",
		Description:   "Deletes an account. Accounts that still have transactions are refused.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *AccountIDPath) (*struct{}, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.AccountService.DeleteAccount(ctx, auth.OwnerFromContext(ctx), id); err != nil {
		return nil, apierror.FromService(err, "failed to delete account")
	}
	return nil, nil
}

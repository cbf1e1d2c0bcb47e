package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
)

// CreateAccount opens an account with its opening balance as the baseline.
type CreateAccount struct {
	Create account.AccountCreate

	Result *account.Account
}

func (a *CreateAccount) Name() string { return "CreateAccount" }

func (a *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ValidateAccountCreate(&a.Create); err != nil {
		return err
	}
	created, err := writer.Accounts.Create(ctx, &a.Create)
	if err != nil {
		return err
	}
	a.Result = created
	return nil
}

// UpdateAccount edits display metadata. It never moves the balance.
type UpdateAccount struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
	Patch   account.AccountPatch

	Result *account.Account
}

func (a *UpdateAccount) Name() string { return "UpdateAccount" }

func (a *UpdateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ValidateAccountPatch(&a.Patch); err != nil {
		return err
	}
	updated, err := writer.Accounts.UpdateDetails(ctx, a.OwnerID, a.ID, &a.Patch)
	if err != nil {
		return err
	}
	a.Result = updated
	return nil
}

// DeleteAccount removes an account that has no transactions.
type DeleteAccount struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
}

func (a *DeleteAccount) Name() string { return "DeleteAccount" }

func (a *DeleteAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	// Locked so no insert can reference the account between the count and the delete.
	if _, err := writer.Accounts.FindByIDForUpdate(ctx, a.OwnerID, a.ID); err != nil {
		return err
	}
	n, err := writer.Transactions.CountByAccount(ctx, a.OwnerID, a.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.Validation("account", "has transactions; delete them first")
	}
	return writer.Accounts.Delete(ctx, a.OwnerID, a.ID)
}

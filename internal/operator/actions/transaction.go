package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/balance"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

// CreateTransaction inserts a transaction and applies its effect to the account.
type CreateTransaction struct {
	Create transaction.TransactionCreate

	Result   *transaction.Transaction
	Balances map[uuid.UUID]decimal.Decimal
}

func (a *CreateTransaction) Name() string { return "CreateTransaction" }

func (a *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	c := &a.Create
	draft := &transaction.Transaction{
		UserID:      c.UserID,
		AccountID:   c.AccountID,
		CategoryID:  c.CategoryID,
		Type:        c.Type,
		Amount:      c.Amount,
		Description: c.Description,
		Date:        c.Date,
	}
	if err := ValidateTransaction(draft); err != nil {
		return err
	}

	if _, err := writer.Accounts.FindByID(ctx, c.UserID, c.AccountID); err != nil {
		return err
	}
	cat, err := writer.Categories.FindVisible(ctx, c.UserID, c.CategoryID)
	if err != nil {
		return err
	}
	if err := checkCategory(cat, c.Type); err != nil {
		return err
	}

	created, err := writer.Transactions.Insert(ctx, c)
	if err != nil {
		return err
	}
	effects, err := balance.PlanCreate(created)
	if err != nil {
		return err
	}
	balances, err := balance.Reconcile(ctx, writer.Accounts, c.UserID, effects)
	if err != nil {
		return err
	}

	a.Result = created
	a.Balances = balances
	return nil
}

// UpdateTransaction merges a patch onto a stored transaction, reversing the
// original effect on the original account and applying the new effect on the
// new account.
type UpdateTransaction struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
	Patch   transaction.Patch

	Original *transaction.Transaction
	Result   *transaction.Transaction
	Balances map[uuid.UUID]decimal.Decimal
}

func (a *UpdateTransaction) Name() string { return "UpdateTransaction" }

func (a *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	original, err := writer.Transactions.FindByIDForUpdate(ctx, a.OwnerID, a.ID)
	if err != nil {
		return err
	}

	merged := a.Patch.Apply(*original)
	if err := ValidateTransaction(&merged); err != nil {
		return err
	}

	if merged.AccountID != original.AccountID {
		if _, err := writer.Accounts.FindByID(ctx, a.OwnerID, merged.AccountID); err != nil {
			return err
		}
	}
	if merged.CategoryID != original.CategoryID || merged.Type != original.Type {
		cat, err := writer.Categories.FindVisible(ctx, a.OwnerID, merged.CategoryID)
		if err != nil {
			return err
		}
		if err := checkCategory(cat, merged.Type); err != nil {
			return err
		}
	}

	effects, err := balance.PlanUpdate(original, &merged)
	if err != nil {
		return err
	}
	updated, err := writer.Transactions.Update(ctx, a.OwnerID, a.ID, merged.ToUpdate())
	if err != nil {
		return err
	}
	balances, err := balance.Reconcile(ctx, writer.Accounts, a.OwnerID, effects)
	if err != nil {
		return err
	}

	a.Original = original
	a.Result = updated
	a.Balances = balances
	return nil
}

// DeleteTransaction reverses a transaction's effect and removes the row.
type DeleteTransaction struct {
	OwnerID uuid.UUID
	ID      uuid.UUID

	Deleted  *transaction.Transaction
	Balances map[uuid.UUID]decimal.Decimal
}

func (a *DeleteTransaction) Name() string { return "DeleteTransaction" }

func (a *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	original, err := writer.Transactions.FindByIDForUpdate(ctx, a.OwnerID, a.ID)
	if err != nil {
		return err
	}
	effects, err := balance.PlanDelete(original)
	if err != nil {
		return err
	}
	balances, err := balance.Reconcile(ctx, writer.Accounts, a.OwnerID, effects)
	if err != nil {
		return err
	}
	if err := writer.Transactions.Delete(ctx, a.OwnerID, a.ID); err != nil {
		return err
	}

	a.Deleted = original
	a.Balances = balances
	return nil
}

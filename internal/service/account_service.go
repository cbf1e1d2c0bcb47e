package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
)

const defaultAccountLimit = 20

// AccountService handles account business logic.
type AccountService struct {
	store     storage.Store
	processor Processor
	hooks     *commitHooks
}

// NewAccountService creates a new AccountService.
func NewAccountService(store storage.Store, processor Processor, hooks *commitHooks) *AccountService {
	return &AccountService{store: store, processor: processor, hooks: hooks}
}

// CreateAccount opens an account. The opening balance is its baseline.
func (s *AccountService) CreateAccount(ctx context.Context, ownerID uuid.UUID, in NewAccount) (*Account, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	action := &actions.CreateAccount{Create: account.AccountCreate{
		UserID:         ownerID,
		Name:           in.Name,
		Type:           in.Type,
		OpeningBalance: in.OpeningBalance,
		Color:          in.Color,
		Icon:           in.Icon,
	}}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	s.hooks.invalidate(ownerID)

	created := accountFromStorage(action.Result)
	return &created, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*Account, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	row, err := s.store.Read().Accounts.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	acc := accountFromStorage(row)
	return &acc, nil
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID uuid.UUID, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, nil, err
	}

	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		limit = clampLimit(cursor.Limit)
		offset = cursor.Position
	}

	result, err := s.store.Read().Accounts.List(ctx, ownerID, &account.AccountFilter{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *AccountCursor
	if result.NextCursor != nil {
		nextCursor = &AccountCursor{
			Position: result.NextCursor.Position,
			Limit:    result.NextCursor.Limit,
		}
	}
	return accountsFromStorage(result.Accounts), nextCursor, nil
}

// UpdateAccount edits name, type, color or icon.
func (s *AccountService) UpdateAccount(ctx context.Context, ownerID, id uuid.UUID, patch AccountPatch) (*Account, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	action := &actions.UpdateAccount{OwnerID: ownerID, ID: id, Patch: account.AccountPatch{
		Name:  patch.Name,
		Type:  patch.Type,
		Color: patch.Color,
		Icon:  patch.Icon,
	}}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	s.hooks.invalidate(ownerID)

	updated := accountFromStorage(action.Result)
	return &updated, nil
}

// DeleteAccount removes an account without transactions.
func (s *AccountService) DeleteAccount(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.processor.Process(ctx, &actions.DeleteAccount{OwnerID: ownerID, ID: id}); err != nil {
		return err
	}
	s.hooks.invalidate(ownerID)
	return nil
}

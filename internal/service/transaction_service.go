package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

const defaultLimit = 20

const maxLimit = 100

// TransactionService is the only way to write transactions. Every write runs
// as one unit of work that also moves the affected account balances.
type TransactionService struct {
	store     storage.Store
	processor Processor
	hooks     *commitHooks
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Store, processor Processor, hooks *commitHooks) *TransactionService {
	return &TransactionService{store: store, processor: processor, hooks: hooks}
}

// CreateTransaction records a transaction and applies it to its account.
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, draft TransactionDraft) (*Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	action := &actions.CreateTransaction{Create: transaction.TransactionCreate{
		UserID:      ownerID,
		AccountID:   draft.AccountID,
		CategoryID:  draft.CategoryID,
		Type:        draft.Type,
		Amount:      draft.Amount,
		Description: draft.Description,
		Date:        dateOnly(draft.Date),
	}}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	s.hooks.invalidate(ownerID)
	s.hooks.publish(ctx, events.NewTransactionEvent(events.KindTransactionCreated, action.Result, action.Balances, s.now()))

	created := transactionFromStorage(action.Result)
	return &created, nil
}

// UpdateTransaction merges patch onto the stored transaction. The original
// effect is reversed on the original account and the new effect applied on
// the new account, both in the same unit.
func (s *TransactionService) UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, patch TransactionPatch) (*Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	action := &actions.UpdateTransaction{OwnerID: ownerID, ID: id, Patch: patch.toStorage()}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	s.hooks.invalidate(ownerID)
	event := events.NewTransactionEvent(events.KindTransactionUpdated, action.Result, action.Balances, s.now())
	if action.Original.AccountID != action.Result.AccountID {
		previous := action.Original.AccountID
		event.PreviousAccountID = &previous
	}
	s.hooks.publish(ctx, event)

	updated := transactionFromStorage(action.Result)
	return &updated, nil
}

// DeleteTransaction reverses the transaction's effect and removes it.
func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	action := &actions.DeleteTransaction{OwnerID: ownerID, ID: id}
	if err := s.processor.Process(ctx, action); err != nil {
		return err
	}

	s.hooks.invalidate(ownerID)
	s.hooks.publish(ctx, events.NewTransactionEvent(events.KindTransactionDeleted, action.Deleted, action.Balances, s.now()))
	return nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	row, err := s.store.Read().Transactions.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	tx := transactionFromStorage(row)
	return &tx, nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, nil, err
	}

	limit := defaultLimit
	offset := 0
	// Rows created after the first page was read stay out of later pages.
	maxCreationTime := s.now()
	if cursor != nil {
		limit = clampLimit(cursor.Limit)
		offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime = cursor.MaxCreationTime
		}
	}

	storageFilter := &transaction.TransactionFilter{
		Type:            filter.Type,
		AccountID:       filter.AccountID,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: &maxCreationTime,
	}
	if filter.From != nil {
		from := dateOnly(*filter.From)
		storageFilter.From = &from
	}
	if filter.To != nil {
		to := dateOnly(*filter.To)
		storageFilter.To = &to
	}

	result, err := s.store.Read().Transactions.List(ctx, ownerID, storageFilter)
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *TransactionCursor
	if result.NextCursor != nil {
		nextCursor = &TransactionCursor{
			Position:        result.NextCursor.Position,
			Limit:           result.NextCursor.Limit,
			MaxCreationTime: result.NextCursor.MaxCreationTime,
		}
	}
	return transactionsFromStorage(result.Transactions), nextCursor, nil
}

func (s *TransactionService) now() time.Time {
	if s.hooks == nil || s.hooks.clock == nil {
		return time.Now()
	}
	return s.hooks.clock()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

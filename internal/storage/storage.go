package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/category"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

// Every method is scoped to an owner. Rows belonging to someone else are
// reported as not found.

type AccountReader interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error)
	List(ctx context.Context, ownerID uuid.UUID, filter *account.AccountFilter) (*account.AccountListResult, error)
	TotalBalance(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
}

type AccountWriter interface {
	AccountReader
	// FindByIDForUpdate loads the account and locks its row until the unit ends.
	FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error)
	Create(ctx context.Context, create *account.AccountCreate) (*account.Account, error)
	UpdateDetails(ctx context.Context, ownerID, id uuid.UUID, patch *account.AccountPatch) (*account.Account, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	// AdjustBalance adds delta to the stored balance in a single atomic
	// statement and returns the new balance. The row stays locked until the
	// surrounding unit ends.
	AdjustBalance(ctx context.Context, ownerID, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

type TransactionReader interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*transaction.Transaction, error)
	List(ctx context.Context, ownerID uuid.UUID, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error)
	// ListInRange returns every transaction dated within [from, to], oldest first.
	ListInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*transaction.Transaction, error)
}

type TransactionWriter interface {
	TransactionReader
	FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*transaction.Transaction, error)
	Insert(ctx context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, update *transaction.TransactionUpdate) (*transaction.Transaction, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	CountByAccount(ctx context.Context, ownerID, accountID uuid.UUID) (int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type CategoryReader interface {
	FindVisible(ctx context.Context, ownerID, id uuid.UUID) (*category.Category, error)
	ListVisible(ctx context.Context, ownerID uuid.UUID, categoryType *transaction.Type) ([]*category.Category, error)
}

type CategoryWriter interface {
	CategoryReader
	Create(ctx context.Context, create *category.CategoryCreate) (*category.Category, error)
	// Delete removes a category owned by ownerID. Defaults cannot be deleted.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type ChecklistReader interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*checklist.Item, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*checklist.Item, error)
}

type ChecklistWriter interface {
	ChecklistReader
	Create(ctx context.Context, create *checklist.ItemCreate) (*checklist.Item, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, update *checklist.ItemUpdate) (*checklist.Item, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Tx is the unit of work underneath a Writer.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store is a ledger backend.
type Store interface {
	Read() *Reader
	// Write opens a unit of work. Everything done through the returned
	// Writer becomes visible on Commit or is discarded on Rollback.
	Write(ctx context.Context) (*Writer, error)
	Close() error
}

// IsRetryable reports whether err is a transient conflict that is safe to
// retry from the start of the unit.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrWriteConflict) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return true
		}
	}
	return false
}

// ErrWriteConflict is returned by backends that detect conflicting writers
// themselves.
var ErrWriteConflict = errors.New("write conflict")

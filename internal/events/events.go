// Package events publishes domain events after a unit of work commits.
// Publishing is best effort: a failed publish never undoes a commit.
package events

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type Kind string

const (
	KindTransactionCreated Kind = "transaction.created"
	KindTransactionUpdated Kind = "transaction.updated"
	KindTransactionDeleted Kind = "transaction.deleted"
)

// TransactionEvent describes a committed transaction mutation and the
// resulting balance of every account it touched.
type TransactionEvent struct {
	ID                uuid.UUID                     `json:"id"`
	Kind              Kind                          `json:"kind"`
	OwnerID           uuid.UUID                     `json:"owner_id"`
	TransactionID     uuid.UUID                     `json:"transaction_id"`
	AccountID         uuid.UUID                     `json:"account_id"`
	PreviousAccountID *uuid.UUID                    `json:"previous_account_id,omitempty"`
	Type              transaction.Type              `json:"type"`
	Amount            decimal.Decimal               `json:"amount"`
	Date              string                        `json:"date"`
	Balances          map[uuid.UUID]decimal.Decimal `json:"balances"`
	OccurredAt        time.Time                     `json:"occurred_at"`
}

// NewTransactionEvent builds an event for tx.
func NewTransactionEvent(kind Kind, tx *transaction.Transaction, balances map[uuid.UUID]decimal.Decimal, at time.Time) TransactionEvent {
	return TransactionEvent{
		ID:            uuid.Must(uuid.NewV4()),
		Kind:          kind,
		OwnerID:       tx.UserID,
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Date:          tx.Date.Format(time.DateOnly),
		Balances:      balances,
		OccurredAt:    at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, TransactionEvent) error { return nil }

func (Noop) Close() error { return nil }

// Logging wraps a Publisher and logs failures instead of returning them.
type Logging struct {
	Next Publisher
}

func (l Logging) Publish(ctx context.Context, event TransactionEvent) error {
	if err := l.Next.Publish(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"kind":          event.Kind,
			"transactionID": event.TransactionID,
		}).WithError(err).Warn("Events.Publish.failed")
	}
	return nil
}

func (l Logging) Close() error {
	return l.Next.Close()
}

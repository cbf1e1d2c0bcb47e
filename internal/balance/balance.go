// Package balance computes the balance deltas implied by transaction
// mutations and applies them through an atomic adjustment primitive.
//
// An account's balance equals its opening balance plus the effective amount
// of every transaction referencing it, where the effective amount is +amount
// for income and -amount for expense.
package balance

import (
	"bytes"
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

// MaxScale is the number of fractional digits a stored amount can carry.
const MaxScale = 4

// Effect is a signed delta targeted at one account.
type Effect struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
}

// Adjuster is the atomic increment primitive of the ledger store.
type Adjuster interface {
	AdjustBalance(ctx context.Context, ownerID, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// Validate rejects amounts and types that cannot produce an effect.
func Validate(txType transaction.Type, amount decimal.Decimal) error {
	if !txType.Valid() {
		return apperrors.Validation("type", "must be income or expense")
	}
	if !amount.IsPositive() {
		return apperrors.Validation("amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Truncate(MaxScale)) {
		return apperrors.Validation("amount", "at most 4 decimal places")
	}
	return nil
}

// ApplyEffect returns the delta that applies tx to its account.
func ApplyEffect(tx *transaction.Transaction) (Effect, error) {
	if err := Validate(tx.Type, tx.Amount); err != nil {
		return Effect{}, err
	}
	delta := tx.Amount
	if tx.Type == transaction.TypeExpense {
		delta = delta.Neg()
	}
	return Effect{AccountID: tx.AccountID, Delta: delta}, nil
}

// ReverseEffect returns the delta that undoes ApplyEffect(tx) on the same account.
func ReverseEffect(tx *transaction.Transaction) (Effect, error) {
	eff, err := ApplyEffect(tx)
	if err != nil {
		return Effect{}, err
	}
	eff.Delta = eff.Delta.Neg()
	return eff, nil
}

func PlanCreate(created *transaction.Transaction) ([]Effect, error) {
	apply, err := ApplyEffect(created)
	if err != nil {
		return nil, err
	}
	return []Effect{apply}, nil
}

// PlanUpdate always yields the reversal of old followed by the application of
// updated. Deltas are never netted, even when both target the same account.
func PlanUpdate(old, updated *transaction.Transaction) ([]Effect, error) {
	reverse, err := ReverseEffect(old)
	if err != nil {
		return nil, err
	}
	apply, err := ApplyEffect(updated)
	if err != nil {
		return nil, err
	}
	return []Effect{reverse, apply}, nil
}

func PlanDelete(old *transaction.Transaction) ([]Effect, error) {
	reverse, err := ReverseEffect(old)
	if err != nil {
		return nil, err
	}
	return []Effect{reverse}, nil
}

// Order sorts effects by account id. The sort is stable so a reversal stays
// ahead of an application on the same account.
func Order(effects []Effect) []Effect {
	ordered := make([]Effect, len(effects))
	copy(ordered, effects)
	sort.SliceStable(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i].AccountID.Bytes(), ordered[j].AccountID.Bytes()) < 0
	})
	return ordered
}

// Reconcile applies effects in account id order and returns the resulting
// balance of every touched account. The first failure stops the run; the
// caller must discard the surrounding unit of work.
func Reconcile(ctx context.Context, adjuster Adjuster, ownerID uuid.UUID, effects []Effect) (map[uuid.UUID]decimal.Decimal, error) {
	balances := make(map[uuid.UUID]decimal.Decimal, len(effects))
	for _, eff := range Order(effects) {
		newBalance, err := NetAccountUpdate(ctx, adjuster, ownerID, eff.AccountID, eff.Delta)
		if err != nil {
			return nil, err
		}
		balances[eff.AccountID] = newBalance
	}
	return balances, nil
}

// NetAccountUpdate adds delta to the account balance in one store operation.
func NetAccountUpdate(ctx context.Context, adjuster Adjuster, ownerID, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	newBalance, err := adjuster.AdjustBalance(ctx, ownerID, accountID, delta)
	if err != nil {
		return decimal.Zero, apperrors.Wrap("adjust balance", err)
	}
	return newBalance, nil
}

package memory

import (
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage/account"
)

type accountTable struct {
	s *Store
	u *unit
}

func (t *accountTable) FindByID(_ context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	acc, ok := t.s.accounts[id]
	if !ok || acc.UserID != ownerID {
		return nil, apperrors.NotFound("account")
	}
	return &acc, nil
}

// FindByIDForUpdate is FindByID; the open unit already excludes other writers.
func (t *accountTable) FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	return t.FindByID(ctx, ownerID, id)
}

func (t *accountTable) List(_ context.Context, ownerID uuid.UUID, filter *account.AccountFilter) (*account.AccountListResult, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	var rows []*account.Account
	for _, acc := range t.s.accounts {
		if acc.UserID == ownerID {
			rows = append(rows, &acc)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})

	limit, offset := 0, 0
	if filter != nil {
		limit, offset = filter.Limit, filter.Offset
	}
	if offset >= len(rows) {
		return &account.AccountListResult{}, nil
	}
	rows = rows[offset:]

	var next *account.AccountCursor
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		next = &account.AccountCursor{Position: offset + limit, Limit: limit}
	}
	return &account.AccountListResult{Accounts: rows, NextCursor: next}, nil
}

func (t *accountTable) TotalBalance(_ context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, acc := range t.s.accounts {
		if acc.UserID == ownerID {
			total = total.Add(acc.Balance)
		}
	}
	return total, nil
}

func (t *accountTable) Create(_ context.Context, create *account.AccountCreate) (*account.Account, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	acc := account.Account{
		ID:        newID(),
		UserID:    create.UserID,
		Name:      create.Name,
		Type:      create.Type,
		Balance:   create.OpeningBalance,
		Color:     create.Color,
		Icon:      create.Icon,
		CreatedAt: t.s.now(),
	}
	t.s.accounts[acc.ID] = acc
	t.u.record(func() { delete(t.s.accounts, acc.ID) })
	return &acc, nil
}

func (t *accountTable) UpdateDetails(_ context.Context, ownerID, id uuid.UUID, patch *account.AccountPatch) (*account.Account, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	prev, ok := t.s.accounts[id]
	if !ok || prev.UserID != ownerID {
		return nil, apperrors.NotFound("account")
	}
	next := patch.Apply(prev)
	t.s.accounts[id] = next
	t.u.record(func() { t.s.accounts[id] = prev })
	return &next, nil
}

func (t *accountTable) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	if err := t.check(); err != nil {
		return err
	}
	prev, ok := t.s.accounts[id]
	if !ok || prev.UserID != ownerID {
		return apperrors.NotFound("account")
	}
	for _, tx := range t.s.transactions {
		if tx.AccountID == id {
			return apperrors.Storage("delete account", errForeignKey)
		}
	}
	delete(t.s.accounts, id)
	t.u.record(func() { t.s.accounts[id] = prev })
	return nil
}

func (t *accountTable) AdjustBalance(_ context.Context, ownerID, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := t.check(); err != nil {
		return decimal.Zero, err
	}
	prev, ok := t.s.accounts[id]
	if !ok || prev.UserID != ownerID {
		return decimal.Zero, apperrors.NotFound("account")
	}
	next := prev
	next.Balance = prev.Balance.Add(delta)
	t.s.accounts[id] = next
	t.u.record(func() { t.s.accounts[id] = prev })
	return next.Balance, nil
}

func (t *accountTable) check() error {
	if t.u == nil {
		return nil
	}
	return t.u.check()
}

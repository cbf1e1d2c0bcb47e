package memory

import (
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage/category"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type categoryTable struct {
	s *Store
	u *unit
}

func (t *categoryTable) FindVisible(_ context.Context, ownerID, id uuid.UUID) (*category.Category, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	c, ok := t.s.categories[id]
	if !ok || !c.VisibleTo(ownerID) {
		return nil, apperrors.NotFound("category")
	}
	return &c, nil
}

func (t *categoryTable) ListVisible(_ context.Context, ownerID uuid.UUID, categoryType *transaction.Type) ([]*category.Category, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	var rows []*category.Category
	for _, c := range t.s.categories {
		if !c.VisibleTo(ownerID) {
			continue
		}
		if categoryType != nil && c.Type != *categoryType {
			continue
		}
		rows = append(rows, &c)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows, nil
}

func (t *categoryTable) Create(_ context.Context, create *category.CategoryCreate) (*category.Category, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if !create.Type.Valid() {
		return nil, apperrors.Storage("insert category", errCheck)
	}
	c := category.Category{
		ID:        newID(),
		UserID:    uuid.NullUUID{UUID: create.UserID, Valid: true},
		Name:      create.Name,
		Type:      create.Type,
		Icon:      create.Icon,
		Color:     create.Color,
		CreatedAt: t.s.now(),
	}
	t.s.categories[c.ID] = c
	t.u.record(func() { delete(t.s.categories, c.ID) })
	return &c, nil
}

func (t *categoryTable) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	if err := t.check(); err != nil {
		return err
	}
	prev, ok := t.s.categories[id]
	if !ok || prev.IsDefault || !prev.UserID.Valid || prev.UserID.UUID != ownerID {
		return apperrors.NotFound("category")
	}
	for _, tx := range t.s.transactions {
		if tx.CategoryID == id {
			return apperrors.Storage("delete category", errForeignKey)
		}
	}
	delete(t.s.categories, id)
	t.u.record(func() { t.s.categories[id] = prev })
	return nil
}

func (t *categoryTable) check() error {
	if t.u == nil {
		return nil
	}
	return t.u.check()
}

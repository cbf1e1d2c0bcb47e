package memory

import (
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
)

type checklistTable struct {
	s *Store
	u *unit
}

func (t *checklistTable) FindByID(_ context.Context, ownerID, id uuid.UUID) (*checklist.Item, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	item, ok := t.s.checklists[id]
	if !ok || item.UserID != ownerID {
		return nil, apperrors.NotFound("checklist item")
	}
	return &item, nil
}

func (t *checklistTable) List(_ context.Context, ownerID uuid.UUID) ([]*checklist.Item, error) {
	defer readLock(t.s, t.u)()
	if err := t.check(); err != nil {
		return nil, err
	}
	var rows []*checklist.Item
	for _, item := range t.s.checklists {
		if item.UserID == ownerID {
			rows = append(rows, &item)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return checklist.Less(rows[i], rows[j])
	})
	return rows, nil
}

func (t *checklistTable) Create(_ context.Context, create *checklist.ItemCreate) (*checklist.Item, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	item := checklist.Item{
		ID:           newID(),
		UserID:       create.UserID,
		Title:        create.Title,
		TargetAmount: create.TargetAmount,
		SavedAmount:  create.SavedAmount,
		Priority:     create.Priority,
		IsCompleted:  create.SavedAmount.GreaterThanOrEqual(create.TargetAmount),
		CreatedAt:    t.s.now(),
	}
	t.s.checklists[item.ID] = item
	t.u.record(func() { delete(t.s.checklists, item.ID) })
	return &item, nil
}

func (t *checklistTable) Update(_ context.Context, ownerID, id uuid.UUID, update *checklist.ItemUpdate) (*checklist.Item, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	prev, ok := t.s.checklists[id]
	if !ok || prev.UserID != ownerID {
		return nil, apperrors.NotFound("checklist item")
	}
	next := prev
	next.Title = update.Title
	next.TargetAmount = update.TargetAmount
	next.SavedAmount = update.SavedAmount
	next.Priority = update.Priority
	next.IsCompleted = update.IsCompleted
	t.s.checklists[id] = next
	t.u.record(func() { t.s.checklists[id] = prev })
	return &next, nil
}

func (t *checklistTable) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	if err := t.check(); err != nil {
		return err
	}
	prev, ok := t.s.checklists[id]
	if !ok || prev.UserID != ownerID {
		return apperrors.NotFound("checklist item")
	}
	delete(t.s.checklists, id)
	t.u.record(func() { t.s.checklists[id] = prev })
	return nil
}

func (t *checklistTable) check() error {
	if t.u == nil {
		return nil
	}
	return t.u.check()
}

package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
)

type ChecklistService struct {
	store     storage.Store
	processor Processor
}

func NewChecklistService(store storage.Store, processor Processor) *ChecklistService {
	return &ChecklistService{store: store, processor: processor}
}

// ListItems returns incomplete goals first, then by priority, newest first.
func (s *ChecklistService) ListItems(ctx context.Context, ownerID uuid.UUID) ([]ChecklistItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := s.store.Read().Checklists.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result := make([]ChecklistItem, len(rows))
	for i, row := range rows {
		result[i] = checklistItemFromStorage(row)
	}
	return result, nil
}

func (s *ChecklistService) CreateItem(ctx context.Context, ownerID uuid.UUID, in NewChecklistItem) (*ChecklistItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	action := &actions.CreateChecklistItem{Create: checklist.ItemCreate{
		UserID:       ownerID,
		Title:        in.Title,
		TargetAmount: in.TargetAmount,
		SavedAmount:  in.SavedAmount,
		Priority:     priority,
	}}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	created := checklistItemFromStorage(action.Result)
	return &created, nil
}

func (s *ChecklistService) UpdateItem(ctx context.Context, ownerID, id uuid.UUID, patch ChecklistPatch) (*ChecklistItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	action := &actions.UpdateChecklistItem{OwnerID: ownerID, ID: id, Patch: checklist.ItemPatch{
		Title:        patch.Title,
		TargetAmount: patch.TargetAmount,
		SavedAmount:  patch.SavedAmount,
		Priority:     patch.Priority,
	}}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	updated := checklistItemFromStorage(action.Result)
	return &updated, nil
}

func (s *ChecklistService) ToggleItem(ctx context.Context, ownerID, id uuid.UUID) (*ChecklistItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	action := &actions.ToggleChecklistItem{OwnerID: ownerID, ID: id}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	toggled := checklistItemFromStorage(action.Result)
	return &toggled, nil
}

func (s *ChecklistService) DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	return s.processor.Process(ctx, &actions.DeleteChecklistItem{OwnerID: ownerID, ID: id})
}

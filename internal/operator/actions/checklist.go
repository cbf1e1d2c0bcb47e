package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
)

type CreateChecklistItem struct {
	Create checklist.ItemCreate

	Result *checklist.Item
}

func (a *CreateChecklistItem) Name() string { return "CreateChecklistItem" }

func (a *CreateChecklistItem) Perform(ctx context.Context, writer *storage.Writer) error {
	c := &a.Create
	if err := ValidateChecklistItem(c.Title, c.TargetAmount, c.SavedAmount, c.Priority); err != nil {
		return err
	}
	created, err := writer.Checklists.Create(ctx, c)
	if err != nil {
		return err
	}
	a.Result = created
	return nil
}

// UpdateChecklistItem merges a patch and recomputes completion from the amounts.
type UpdateChecklistItem struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
	Patch   checklist.ItemPatch

	Result *checklist.Item
}

func (a *UpdateChecklistItem) Name() string { return "UpdateChecklistItem" }

func (a *UpdateChecklistItem) Perform(ctx context.Context, writer *storage.Writer) error {
	item, err := writer.Checklists.FindByID(ctx, a.OwnerID, a.ID)
	if err != nil {
		return err
	}
	update := a.Patch.Apply(*item)
	if err := ValidateChecklistItem(update.Title, update.TargetAmount, update.SavedAmount, update.Priority); err != nil {
		return err
	}
	updated, err := writer.Checklists.Update(ctx, a.OwnerID, a.ID, &update)
	if err != nil {
		return err
	}
	a.Result = updated
	return nil
}

// ToggleChecklistItem flips the completion flag regardless of the amounts.
type ToggleChecklistItem struct {
	OwnerID uuid.UUID
	ID      uuid.UUID

	Result *checklist.Item
}

func (a *ToggleChecklistItem) Name() string { return "ToggleChecklistItem" }

func (a *ToggleChecklistItem) Perform(ctx context.Context, writer *storage.Writer) error {
	item, err := writer.Checklists.FindByID(ctx, a.OwnerID, a.ID)
	if err != nil {
		return err
	}
	updated, err := writer.Checklists.Update(ctx, a.OwnerID, a.ID, &checklist.ItemUpdate{
		Title:        item.Title,
		TargetAmount: item.TargetAmount,
		SavedAmount:  item.SavedAmount,
		Priority:     item.Priority,
		IsCompleted:  !item.IsCompleted,
	})
	if err != nil {
		return err
	}
	a.Result = updated
	return nil
}

type DeleteChecklistItem struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
}

func (a *DeleteChecklistItem) Name() string { return "DeleteChecklistItem" }

func (a *DeleteChecklistItem) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Checklists.Delete(ctx, a.OwnerID, a.ID)
}

package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/category"
)

type CategoryService struct {
	store     storage.Store
	processor Processor
	hooks     *commitHooks
}

func NewCategoryService(store storage.Store, processor Processor, hooks *commitHooks) *CategoryService {
	return &CategoryService{store: store, processor: processor, hooks: hooks}
}

// ListCategories returns the shared defaults and the owner's own categories.
func (s *CategoryService) ListCategories(ctx context.Context, ownerID uuid.UUID, categoryType *TransactionType) ([]Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := s.store.Read().Categories.ListVisible(ctx, ownerID, categoryType)
	if err != nil {
		return nil, err
	}
	result := make([]Category, len(rows))
	for i, row := range rows {
		result[i] = categoryFromStorage(row)
	}
	return result, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, ownerID uuid.UUID, in NewCategory) (*Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	action := &actions.CreateCategory{Create: category.CategoryCreate{
		UserID: ownerID,
		Name:   in.Name,
		Type:   in.Type,
		Icon:   in.Icon,
		Color:  in.Color,
	}}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	created := categoryFromStorage(action.Result)
	return &created, nil
}

// DeleteCategory removes one of the owner's categories. Defaults read as not found.
func (s *CategoryService) DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.processor.Process(ctx, &actions.DeleteCategory{OwnerID: ownerID, ID: id}); err != nil {
		return err
	}
	s.hooks.invalidate(ownerID)
	return nil
}

package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/category"
)

type CreateCategory struct {
	Create category.CategoryCreate

	Result *category.Category
}

func (a *CreateCategory) Name() string { return "CreateCategory" }

func (a *CreateCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ValidateCategoryCreate(&a.Create); err != nil {
		return err
	}
	created, err := writer.Categories.Create(ctx, &a.Create)
	if err != nil {
		return err
	}
	a.Result = created
	return nil
}

// DeleteCategory removes one of the owner's own categories. Defaults and
// categories still referenced by transactions are kept.
type DeleteCategory struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
}

func (a *DeleteCategory) Name() string { return "DeleteCategory" }

func (a *DeleteCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	cat, err := writer.Categories.FindVisible(ctx, a.OwnerID, a.ID)
	if err != nil {
		return err
	}
	if cat.IsDefault {
		return apperrors.NotFound("category")
	}
	n, err := writer.Transactions.CountByCategory(ctx, a.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.Validation("category", "in use by transactions")
	}
	return writer.Categories.Delete(ctx, a.OwnerID, a.ID)
}

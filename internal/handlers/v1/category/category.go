package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/service"
)

// Category is the API response model for a category.
type Category struct {
	ID        string `json:"id" doc:"Category UUID"`
	Name      string `json:"name" doc:"Category name"`
	Type      string `json:"type" enum:"income,expense" doc:"Transaction type the category applies to"`
	Icon      string `json:"icon" doc:"Display icon"`
	Color     string `json:"color" doc:"Display color"`
	IsDefault bool   `json:"isDefault" doc:"Shared default category"`
}

func fromService(c service.Category) Category {
	return Category{
		ID:        c.ID.String(),
		Name:      c.Name,
		Type:      string(c.Type),
		Icon:      c.Icon,
		Color:     c.Color,
		IsDefault: c.IsDefault,
	}
}

type categoryService interface {
	ListCategories(ctx context.Context, ownerID uuid.UUID, categoryType *service.TransactionType) ([]service.Category, error)
	CreateCategory(ctx context.Context, ownerID uuid.UUID, in service.NewCategory) (*service.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error
}

// Handler serves /v1/categories.
type Handler struct {
	CategoryService categoryService
}

func NewHandler(svc categoryService) *Handler {
	return &Handler{CategoryService: svc}
}

// Register registers the category endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/categories",
		Summary:     "List categories",
		Description: "Returns the shared default categories and the caller's own categories.",
		Tags:        []string{"Categories"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID:   "create-category",
		Method:        http.MethodPost,
		Path:          "/v1/categories",
		Summary:       "Create a category",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-category",
		Method:        http.MethodDelete,
		Path:          "/v1/categories/{id}",
		Summary:       "Delete a category",
		Description:   "Deletes one of the caller's categories. Defaults and categories in use are kept.",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

type ListCategoriesInput struct {
	Type string `query:"type" enum:"income,expense" doc:"Only categories of this type"`
}

type ListCategoriesOutput struct {
	Body struct {
		Categories []Category `json:"categories" doc:"Visible categories"`
	}
}

func (h *Handler) list(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	var categoryType *service.TransactionType
	if input.Type != "" {
		t := service.TransactionType(input.Type)
		categoryType = &t
	}

	categories, err := h.CategoryService.ListCategories(ctx, auth.OwnerFromContext(ctx), categoryType)
	if err != nil {
		return nil, apierror.FromService(err, "failed to list categories")
	}

	out := &ListCategoriesOutput{}
	out.Body.Categories = make([]Category, len(categories))
	for i, c := range categories {
		out.Body.Categories[i] = fromService(c)
	}
	return out, nil
}

type CreateCategoryBody struct {
	Name  string `json:"name" minLength:"1" maxLength:"100" doc:"Category name"`
	Type  string `json:"type" enum:"income,expense" doc:"Transaction type the category applies to"`
	Icon  string `json:"icon,omitempty" doc:"Display icon"`
	Color string `json:"color,omitempty" doc:"Display color"`
}

type CreateCategoryInput struct {
	Body CreateCategoryBody
}

type CreateCategoryOutput struct {
	Status int
	Body   Category
}

func (h *Handler) create(ctx context.Context, input *CreateCategoryInput) (*CreateCategoryOutput, error) {
	created, err := h.CategoryService.CreateCategory(ctx, auth.OwnerFromContext(ctx), service.NewCategory{
		Name:  input.Body.Name,
		Type:  service.TransactionType(input.Body.Type),
		Icon:  input.Body.Icon,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, apierror.FromService(err, "failed to create category")
	}
	return &CreateCategoryOutput{Status: http.StatusCreated, Body: fromService(*created)}, nil
}

type DeleteCategoryInput struct {
	ID string `path:"id" format:"uuid" doc:"Category UUID"`
}

func (h *Handler) delete(ctx context.Context, input *DeleteCategoryInput) (*struct{}, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	if err := h.CategoryService.DeleteCategory(ctx, auth.OwnerFromContext(ctx), id); err != nil {
		return nil, apierror.FromService(err, "failed to delete category")
	}
	return nil, nil
}

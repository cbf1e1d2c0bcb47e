package checklist

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/service"
)

// Item is the API response model for a savings goal.
type Item struct {
	ID           string `json:"id" doc:"Item UUID"`
	Title        string `json:"title" doc:"Goal title"`
	TargetAmount string `json:"targetAmount" doc:"Decimal target"`
	SavedAmount  string `json:"savedAmount" doc:"Decimal amount saved so far"`
	Priority     string `json:"priority" enum:"low,medium,high" doc:"Priority"`
	IsCompleted  bool   `json:"isCompleted" doc:"Whether the goal is reached or marked done"`
	CreatedAt    string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromService(item service.ChecklistItem) Item {
	return Item{
		ID:           item.ID.String(),
		Title:        item.Title,
		TargetAmount: item.TargetAmount.String(),
		SavedAmount:  item.SavedAmount.String(),
		Priority:     string(item.Priority),
		IsCompleted:  item.IsCompleted,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
	}
}

type checklistService interface {
	ListItems(ctx context.Context, ownerID uuid.UUID) ([]service.ChecklistItem, error)
	CreateItem(ctx context.Context, ownerID uuid.UUID, in service.NewChecklistItem) (*service.ChecklistItem, error)
	UpdateItem(ctx context.Context, ownerID, id uuid.UUID, patch service.ChecklistPatch) (*service.ChecklistItem, error)
	ToggleItem(ctx context.Context, ownerID, id uuid.UUID) (*service.ChecklistItem, error)
	DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error
}

// Handler serves /v1/checklists.
type Handler struct {
	ChecklistService checklistService
}

func NewHandler(svc checklistService) *Handler {
	return &Handler{ChecklistService: svc}
}

// Register registers the checklist endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-checklist-items",
		Method:      http.MethodGet,
		Path:        "/v1/checklists",
		Summary:     "List savings goals",
		Description: "Incomplete goals first, then by priority, newest first.",
		Tags:        []string{"Checklists"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID:   "create-checklist-item",
		Method:        http.MethodPost,
		Path:          "/v1/checklists",
		Summary:       "Create a savings goal",
		Tags:          []string{"Checklists"},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "update-checklist-item",
		Method:      http.MethodPatch,
		Path:        "/v1/checklists/{id}",
		Summary:     "Update a savings goal",
		Description: "Completion is recomputed from the saved and target amounts.",
		Tags:        []string{"Checklists"},
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID: "toggle-checklist-item",
		Method:      http.MethodPost,
		Path:        "/v1/checklists/{id}/toggle",
		Summary:     "Toggle completion",
		Tags:        []string{"Checklists"},
	}, h.toggle)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-checklist-item",
		Method:        http.MethodDelete,
		Path:          "/v1/checklists/{id}",
		Summary:       "Delete a savings goal",
		Tags:          []string{"Checklists"},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

type ItemIDPath struct {
	ID string `path:"id" format:"uuid" doc:"Item UUID"`
}

type ItemOutput struct {
	Status int
	Body   Item
}

type ListItemsOutput struct {
	Body struct {
		Items []Item `json:"items" doc:"Savings goals"`
	}
}

type CreateItemBody struct {
	Title        string `json:"title" minLength:"1" maxLength:"100" doc:"Goal title"`
	TargetAmount string `json:"targetAmount" minLength:"1" doc:"Decimal target, greater than zero"`
	SavedAmount  string `json:"savedAmount,omitempty" doc:"Decimal amount saved so far, defaults to 0"`
	Priority     string `json:"priority,omitempty" enum:"low,medium,high" doc:"Priority, defaults to medium"`
}

type CreateItemInput struct {
	Body CreateItemBody
}

type UpdateItemBody struct {
	Title        *string `json:"title,omitempty" minLength:"1" maxLength:"100" doc:"Goal title"`
	TargetAmount *string `json:"targetAmount,omitempty" doc:"Decimal target"`
	SavedAmount  *string `json:"savedAmount,omitempty" doc:"Decimal amount saved so far"`
	Priority     *string `json:"priority,omitempty" enum:"low,medium,high" doc:"Priority"`
}

type UpdateItemInput struct {
	ItemIDPath
	Body UpdateItemBody
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	return id, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return amount, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*ListItemsOutput, error) {
	items, err := h.ChecklistService.ListItems(ctx, auth.OwnerFromContext(ctx))
	if err != nil {
		return nil, apierror.FromService(err, "failed to list checklist items")
	}
	out := &ListItemsOutput{}
	out.Body.Items = make([]Item, len(items))
	for i, item := range items {
		out.Body.Items[i] = fromService(item)
	}
	return out, nil
}

func parseCreateItemInput(input *CreateItemInput) (service.NewChecklistItem, error) {
	target, err := parseAmount("targetAmount", input.Body.TargetAmount)
	if err != nil {
		return service.NewChecklistItem{}, err
	}
	saved := decimal.Zero
	if input.Body.SavedAmount != "" {
		if saved, err = parseAmount("savedAmount", input.Body.SavedAmount); err != nil {
			return service.NewChecklistItem{}, err
		}
	}
	return service.NewChecklistItem{
		Title:        input.Body.Title,
		TargetAmount: target,
		SavedAmount:  saved,
		Priority:     service.Priority(input.Body.Priority),
	}, nil
}

func (h *Handler) create(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	in, err := parseCreateItemInput(input)
	if err != nil {
		return nil, err
	}
	created, err := h.ChecklistService.CreateItem(ctx, auth.OwnerFromContext(ctx), in)
	if err != nil {
		return nil, apierror.FromService(err, "failed to create checklist item")
	}
	return &ItemOutput{Status: http.StatusCreated, Body: fromService(*created)}, nil
}

func parseUpdateItemInput(input *UpdateItemInput) (uuid.UUID, service.ChecklistPatch, error) {
	var patch service.ChecklistPatch
	id, err := parseID(input.ID)
	if err != nil {
		return uuid.Nil, patch, err
	}
	patch.Title = input.Body.Title
	if input.Body.TargetAmount != nil {
		target, err := parseAmount("targetAmount", *input.Body.TargetAmount)
		if err != nil {
			return uuid.Nil, patch, err
		}
		patch.TargetAmount = &target
	}
	if input.Body.SavedAmount != nil {
		saved, err := parseAmount("savedAmount", *input.Body.SavedAmount)
		if err != nil {
			return uuid.Nil, patch, err
		}
		patch.SavedAmount = &saved
	}
	if input.Body.Priority != nil {
		priority := service.Priority(*input.Body.Priority)
		patch.Priority = &priority
	}
	return id, patch, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	id, patch, err := parseUpdateItemInput(input)
	if err != nil {
		return nil, err
	}
	updated, err := h.ChecklistService.UpdateItem(ctx, auth.OwnerFromContext(ctx), id, patch)
	if err != nil {
		return nil, apierror.FromService(err, "failed to update checklist item")
	}
	return &ItemOutput{Status: http.StatusOK, Body: fromService(*updated)}, nil
}

func (h *Handler) toggle(ctx context.Context, input *ItemIDPath) (*ItemOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	toggled, err := h.ChecklistService.ToggleItem(ctx, auth.OwnerFromContext(ctx), id)
	if err != nil {
		return nil, apierror.FromService(err, "failed to toggle checklist item")
	}
	return &ItemOutput{Status: http.StatusOK, Body: fromService(*toggled)}, nil
}

func (h *Handler) delete(ctx context.Context, input *ItemIDPath) (*struct{}, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.ChecklistService.DeleteItem(ctx, auth.OwnerFromContext(ctx), id); err != nil {
		return nil, apierror.FromService(err, "failed to delete checklist item")
	}
	return nil, nil
}

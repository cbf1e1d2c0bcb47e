package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperrors"
)

func TestChecklist_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.svc.Checklist.CreateItem(ctx, env.owner, NewChecklistItem{
		Title:        "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
		SavedAmount:  decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, item.Priority)
	assert.False(t, item.IsCompleted)

	saved := decimal.NewFromInt(1000)
	item, err = env.svc.Checklist.UpdateItem(ctx, env.owner, item.ID, ChecklistPatch{SavedAmount: &saved})
	require.NoError(t, err)
	assert.True(t, item.IsCompleted)

	item, err = env.svc.Checklist.ToggleItem(ctx, env.owner, item.ID)
	require.NoError(t, err)
	assert.False(t, item.IsCompleted)

	high := PriorityHigh
	_, err = env.svc.Checklist.CreateItem(ctx, env.owner, NewChecklistItem{
		Title:        "Vacation",
		TargetAmount: decimal.NewFromInt(500),
		Priority:     high,
	})
	require.NoError(t, err)

	items, err := env.svc.Checklist.ListItems(ctx, env.owner)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Vacation", items[0].Title)

	require.NoError(t, env.svc.Checklist.DeleteItem(ctx, env.owner, item.ID))
	err = env.svc.Checklist.DeleteItem(ctx, env.owner, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestChecklist_InvalidTarget(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Checklist.CreateItem(context.Background(), env.owner, NewChecklistItem{
		Title:        "Nothing",
		TargetAmount: decimal.Zero,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

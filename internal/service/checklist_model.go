package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/checklist"
)

type Priority = checklist.Priority

const (
	PriorityLow    = checklist.PriorityLow
	PriorityMedium = checklist.PriorityMedium
	PriorityHigh   = checklist.PriorityHigh
)

// ChecklistItem is a savings goal.
type ChecklistItem struct {
	ID           uuid.UUID
	Title        string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	Priority     Priority
	IsCompleted  bool
	CreatedAt    time.Time
}

type NewChecklistItem struct {
	Title        string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	Priority     Priority
}

type ChecklistPatch struct {
	Title        *string
	TargetAmount *decimal.Decimal
	SavedAmount  *decimal.Decimal
	Priority     *Priority
}

func checklistItemFromStorage(row *checklist.Item) ChecklistItem {
	return ChecklistItem{
		ID:           row.ID,
		Title:        row.Title,
		TargetAmount: row.TargetAmount,
		SavedAmount:  row.SavedAmount,
		Priority:     row.Priority,
		IsCompleted:  row.IsCompleted,
		CreatedAt:    row.CreatedAt,
	}
}

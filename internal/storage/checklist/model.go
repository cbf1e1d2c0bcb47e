package checklist

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const TableName = "checklists"

var columns = []any{"id", "user_id", "title", "target_amount", "saved_amount", "priority", "is_completed", "created_at"}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities from low to high.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	}
	return 0
}

// Item is a savings goal.
type Item struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	Title        string          `db:"title"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	SavedAmount  decimal.Decimal `db:"saved_amount"`
	Priority     Priority        `db:"priority"`
	IsCompleted  bool            `db:"is_completed"`
	CreatedAt    time.Time       `db:"created_at"`
}

type ItemCreate struct {
	UserID       uuid.UUID
	Title        string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	Priority     Priority
}

// ItemUpdate is the complete new state of an item.
type ItemUpdate struct {
	Title        string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	Priority     Priority
	IsCompleted  bool
}

// ItemPatch is a partial update. Nil fields keep the original value.
type ItemPatch struct {
	Title        *string
	TargetAmount *decimal.Decimal
	SavedAmount  *decimal.Decimal
	Priority     *Priority
}

// Apply merges the patch onto item. Completion is recomputed from the amounts.
func (p *ItemPatch) Apply(item Item) ItemUpdate {
	update := ItemUpdate{
		Title:        item.Title,
		TargetAmount: item.TargetAmount,
		SavedAmount:  item.SavedAmount,
		Priority:     item.Priority,
	}
	if p != nil {
		if p.Title != nil {
			update.Title = *p.Title
		}
		if p.TargetAmount != nil {
			update.TargetAmount = *p.TargetAmount
		}
		if p.SavedAmount != nil {
			update.SavedAmount = *p.SavedAmount
		}
		if p.Priority != nil {
			update.Priority = *p.Priority
		}
	}
	update.IsCompleted = update.SavedAmount.GreaterThanOrEqual(update.TargetAmount)
	return update
}

// Less orders items incomplete first, then by priority high to low, then newest first.
func Less(a, b *Item) bool {
	if a.IsCompleted != b.IsCompleted {
		return !a.IsCompleted
	}
	if a.Priority.Rank() != b.Priority.Rank() {
		return a.Priority.Rank() > b.Priority.Rank()
	}
	return a.CreatedAt.After(b.CreatedAt)
}

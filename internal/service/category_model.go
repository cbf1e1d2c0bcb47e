package service

import (
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage/category"
)

type Category struct {
	ID        uuid.UUID
	Name      string
	Type      TransactionType
	Icon      string
	Color     string
	IsDefault bool
}

type NewCategory struct {
	Name  string
	Type  TransactionType
	Icon  string
	Color string
}

func categoryFromStorage(row *category.Category) Category {
	return Category{
		ID:        row.ID,
		Name:      row.Name,
		Type:      row.Type,
		Icon:      row.Icon,
		Color:     row.Color,
		IsDefault: row.IsDefault,
	}
}

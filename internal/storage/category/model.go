package category

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

const TableName = "categories"

var columns = []any{"id", "user_id", "name", "type", "icon", "color", "is_default", "created_at"}

// Category groups transactions of one type. Defaults have no owner and are
// visible to everyone.
type Category struct {
	ID        uuid.UUID        `db:"id"`
	UserID    uuid.NullUUID    `db:"user_id"`
	Name      string           `db:"name"`
	Type      transaction.Type `db:"type"`
	Icon      string           `db:"icon"`
	Color     string           `db:"color"`
	IsDefault bool             `db:"is_default"`
	CreatedAt time.Time        `db:"created_at"`
}

// VisibleTo reports whether ownerID may reference the category.
func (c *Category) VisibleTo(ownerID uuid.UUID) bool {
	return c.IsDefault || (c.UserID.Valid && c.UserID.UUID == ownerID)
}

type CategoryCreate struct {
	UserID uuid.UUID
	Name   string
	Type   transaction.Type
	Icon   string
	Color  string
}

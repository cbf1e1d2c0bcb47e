package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func visibleTo(ownerID uuid.UUID) bob.Mod[*dialect.SelectQuery] {
	return sm.Where(psql.Or(
		psql.Quote("user_id").EQ(psql.Arg(ownerID)),
		psql.Quote("is_default").EQ(psql.Arg(true)),
	))
}

// FindVisible returns the category when it is a default or owned by ownerID.
func (r *Reader) FindVisible(ctx context.Context, ownerID, id uuid.UUID) (*Category, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		visibleTo(ownerID),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[Category]())
	if err != nil {
		return nil, wrapErr("find category", err)
	}
	return &row, nil
}

// ListVisible returns defaults and the owner's categories ordered by name.
func (r *Reader) ListVisible(ctx context.Context, ownerID uuid.UUID, categoryType *transaction.Type) ([]*Category, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
		visibleTo(ownerID),
	}
	if categoryType != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(*categoryType))))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[Category]())
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	result := make([]*Category, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("category")
	}
	return apperrors.Wrap(op, err)
}

package checklist

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-server/internal/apperrors"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Item, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[Item]())
	if err != nil {
		return nil, wrapErr("find checklist item", err)
	}
	return &row, nil
}

// List returns the owner's items incomplete first, then by priority, then newest.
func (r *Reader) List(ctx context.Context, ownerID uuid.UUID) ([]*Item, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy(psql.Quote("is_completed")).Asc(),
		sm.OrderBy(psql.Raw("CASE priority WHEN 'high' THEN 2 WHEN 'medium' THEN 1 ELSE 0 END")).Desc(),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[Item]())
	if err != nil {
		return nil, wrapErr("list checklist items", err)
	}
	result := make([]*Item, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("checklist item")
	}
	return apperrors.Wrap(op, err)
}

package category

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-server/internal/apperrors"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Create(ctx context.Context, create *CategoryCreate) (*Category, error) {
	q := psql.Insert(
		im.Into(TableName, "user_id", "name", "type", "icon", "color", "is_default"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.Name),
			psql.Arg(create.Type),
			psql.Arg(create.Icon),
			psql.Arg(create.Color),
			psql.Arg(false),
		),
		im.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Category]())
	if err != nil {
		return nil, wrapErr("insert category", err)
	}
	return &row, nil
}

func (w *Writer) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(TableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		dm.Where(psql.Quote("is_default").EQ(psql.Arg(false))),
	)
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return wrapErr("delete category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete category", err)
	}
	if n == 0 {
		return apperrors.NotFound("category")
	}
	return nil
}

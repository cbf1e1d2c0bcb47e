package checklist

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
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

func (w *Writer) Create(ctx context.Context, create *ItemCreate) (*Item, error) {
	q := psql.Insert(
		im.Into(TableName, "user_id", "title", "target_amount", "saved_amount", "priority", "is_completed"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.Title),
			psql.Arg(create.TargetAmount),
			psql.Arg(create.SavedAmount),
			psql.Arg(create.Priority),
			psql.Arg(create.SavedAmount.GreaterThanOrEqual(create.TargetAmount)),
		),
		im.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Item]())
	if err != nil {
		return nil, wrapErr("insert checklist item", err)
	}
	return &row, nil
}

func (w *Writer) Update(ctx context.Context, ownerID, id uuid.UUID, update *ItemUpdate) (*Item, error) {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("title").ToArg(update.Title),
		um.SetCol("target_amount").ToArg(update.TargetAmount),
		um.SetCol("saved_amount").ToArg(update.SavedAmount),
		um.SetCol("priority").ToArg(update.Priority),
		um.SetCol("is_completed").ToArg(update.IsCompleted),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		um.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Item]())
	if err != nil {
		return nil, wrapErr("update checklist item", err)
	}
	return &row, nil
}

func (w *Writer) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(TableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
	)
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return wrapErr("delete checklist item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete checklist item", err)
	}
	if n == 0 {
		return apperrors.NotFound("checklist item")
	}
	return nil
}

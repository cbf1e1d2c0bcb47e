package transaction

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
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

// FindByIDForUpdate loads the row and holds its lock until the unit ends, so
// two writers cannot both reverse the same original state.
func (w *Writer) FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	return findOne(ctx, w.tx, ownerID, id, sm.ForUpdate())
}

// Insert creates a new transaction row.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	q := psql.Insert(
		im.Into(TableName, "user_id", "account_id", "category_id", "type", "amount", "description", "date"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.AccountID),
			psql.Arg(create.CategoryID),
			psql.Arg(create.Type),
			psql.Arg(create.Amount),
			psql.Arg(create.Description),
			psql.Arg(create.Date),
		),
		im.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, wrapErr("insert transaction", err)
	}
	return &row, nil
}

// Update overwrites every mutable column with the given state.
func (w *Writer) Update(ctx context.Context, ownerID, id uuid.UUID, update *TransactionUpdate) (*Transaction, error) {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("account_id").ToArg(update.AccountID),
		um.SetCol("category_id").ToArg(update.CategoryID),
		um.SetCol("type").ToArg(update.Type),
		um.SetCol("amount").ToArg(update.Amount),
		um.SetCol("description").ToArg(update.Description),
		um.SetCol("date").ToArg(update.Date),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		um.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, wrapErr("update transaction", err)
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
		return wrapErr("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete transaction", err)
	}
	if n == 0 {
		return apperrors.NotFound("transaction")
	}
	return nil
}

func (w *Writer) CountByAccount(ctx context.Context, ownerID, accountID uuid.UUID) (int64, error) {
	q := psql.Select(
		sm.Columns(psql.Raw("COUNT(*)")),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
	)
	return count(ctx, w.tx, q, "count transactions by account")
}

func (w *Writer) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	q := psql.Select(
		sm.Columns(psql.Raw("COUNT(*)")),
		sm.From(TableName),
		sm.Where(psql.Quote("category_id").EQ(psql.Arg(categoryID))),
	)
	return count(ctx, w.tx, q, "count transactions by category")
}

func count(ctx context.Context, exec bob.Executor, q bob.Query, op string) (int64, error) {
	n, err := bob.One(ctx, exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return n, nil
}

package account

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
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

// FindByIDForUpdate loads the account and holds its row lock until the unit ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*Account, error) {
	return findOne(ctx, w.tx, ownerID, id, sm.ForUpdate())
}

func (w *Writer) Create(ctx context.Context, create *AccountCreate) (*Account, error) {
	q := psql.Insert(
		im.Into(TableName, "user_id", "name", "type", "balance", "color", "icon"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.Name),
			psql.Arg(create.Type),
			psql.Arg(create.OpeningBalance),
			psql.Arg(create.Color),
			psql.Arg(create.Icon),
		),
		im.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Account]())
	if err != nil {
		return nil, wrapErr("insert account", err)
	}
	return &row, nil
}

// UpdateDetails changes metadata only. The balance column is never written here.
func (w *Writer) UpdateDetails(ctx context.Context, ownerID, id uuid.UUID, patch *AccountPatch) (*Account, error) {
	var setMods []bob.Mod[*dialect.UpdateQuery]
	if patch != nil {
		if patch.Name != nil {
			setMods = append(setMods, um.SetCol("name").ToArg(*patch.Name))
		}
		if patch.Type != nil {
			setMods = append(setMods, um.SetCol("type").ToArg(*patch.Type))
		}
		if patch.Color != nil {
			setMods = append(setMods, um.SetCol("color").ToArg(*patch.Color))
		}
		if patch.Icon != nil {
			setMods = append(setMods, um.SetCol("icon").ToArg(*patch.Icon))
		}
	}
	if len(setMods) == 0 {
		return w.FindByID(ctx, ownerID, id)
	}

	queryMods := append([]bob.Mod[*dialect.UpdateQuery]{um.Table(TableName)}, setMods...)
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		um.Returning(columns...),
	)
	row, err := bob.One(ctx, w.tx, psql.Update(queryMods...), scan.StructMapper[Account]())
	if err != nil {
		return nil, wrapErr("update account", err)
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
		return wrapErr("delete account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete account", err)
	}
	if n == 0 {
		return apperrors.NotFound("account")
	}
	return nil
}

// AdjustBalance adds delta to the stored balance and returns the new value.
func (w *Writer) AdjustBalance(ctx context.Context, ownerID, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("balance").To(psql.Raw("balance + ?", delta)),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		um.Returning("balance"),
	)
	balance, err := bob.One(ctx, w.tx, q, scan.SingleColumnMapper[decimal.Decimal])
	if err != nil {
		return decimal.Zero, wrapErr("adjust balance", err)
	}
	return balance, nil
}

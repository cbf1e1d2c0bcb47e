package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
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

func (r *Reader) List(ctx context.Context, ownerID uuid.UUID, filter *AccountFilter) (*AccountListResult, error) {
	limit := 0
	offset := 0
	if filter != nil {
		limit = filter.Limit
		offset = filter.Offset
	}

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy(psql.Quote("created_at")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	}
	if limit > 0 {
		queryMods = append(queryMods, sm.Limit(limit+1))
	}
	if offset > 0 {
		queryMods = append(queryMods, sm.Offset(offset))
	}

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[Account]())
	if err != nil {
		return nil, wrapErr("list accounts", err)
	}

	if len(rows) == 0 {
		return &AccountListResult{Accounts: nil, NextCursor: nil}, nil
	}

	var nextCursor *AccountCursor
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	result := make([]*Account, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return &AccountListResult{Accounts: result, NextCursor: nextCursor}, nil
}

func (r *Reader) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Account, error) {
	return findOne(ctx, r.exec, ownerID, id)
}

func (r *Reader) TotalBalance(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	q := psql.Select(
		sm.Columns(psql.Raw("COALESCE(SUM(balance), 0)")),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
	)
	total, err := bob.One(ctx, r.exec, q, scan.SingleColumnMapper[decimal.Decimal])
	if err != nil {
		return decimal.Zero, wrapErr("sum balances", err)
	}
	return total, nil
}

func findOne(ctx context.Context, exec bob.Executor, ownerID, id uuid.UUID, extra ...bob.Mod[*dialect.SelectQuery]) (*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
	}
	queryMods = append(queryMods, extra...)

	row, err := bob.One(ctx, exec, psql.Select(queryMods...), scan.StructMapper[Account]())
	if err != nil {
		return nil, wrapErr("find account", err)
	}
	return &row, nil
}

func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("account")
	}
	return apperrors.Wrap(op, err)
}

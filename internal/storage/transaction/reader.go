package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
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

// FindByID retrieves a transaction by primary key.
func (r *Reader) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	return findOne(ctx, r.exec, ownerID, id)
}

// List returns a page of transactions matching the filter, newest first.
func (r *Reader) List(ctx context.Context, ownerID uuid.UUID, filter *TransactionFilter) (*TransactionListResult, error) {
	if filter == nil {
		filter = &TransactionFilter{}
	}

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
	}
	if filter.Type != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(*filter.Type))))
	}
	if filter.AccountID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID))))
	}
	if filter.CategoryID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("category_id").EQ(psql.Arg(*filter.CategoryID))))
	}
	if filter.From != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("date").GTE(psql.Arg(*filter.From))))
	}
	if filter.To != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("date").LTE(psql.Arg(*filter.To))))
	}
	if filter.MaxCreationTime != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit+1))
	}
	if filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("date")).Desc(),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}

	return Page(toPointers(rows), filter, time.Now()), nil
}

// ListInRange returns every transaction dated within [from, to], oldest first.
func (r *Reader) ListInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("date").GTE(psql.Arg(from))),
		sm.Where(psql.Quote("date").LTE(psql.Arg(to))),
		sm.OrderBy(psql.Quote("date")).Asc(),
		sm.OrderBy(psql.Quote("created_at")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, wrapErr("list transactions in range", err)
	}
	return toPointers(rows), nil
}

// Page trims rows fetched with Limit+1 and builds the cursor for the next page.
// The cursor keeps the filter's MaxCreationTime, or listedAt when the filter
// had none, so later pages see the same set of rows.
func Page(rows []*Transaction, filter *TransactionFilter, listedAt time.Time) *TransactionListResult {
	if len(rows) == 0 {
		return &TransactionListResult{}
	}
	if filter == nil || filter.Limit <= 0 || len(rows) <= filter.Limit {
		return &TransactionListResult{Transactions: rows}
	}

	rows = rows[:filter.Limit]
	maxCreationTime := listedAt
	if filter.MaxCreationTime != nil {
		maxCreationTime = *filter.MaxCreationTime
	}
	return &TransactionListResult{
		Transactions: rows,
		NextCursor: &TransactionCursor{
			Position:        filter.Offset + filter.Limit,
			Limit:           filter.Limit,
			MaxCreationTime: maxCreationTime,
		},
	}
}

func findOne(ctx context.Context, exec bob.Executor, ownerID, id uuid.UUID, extra ...bob.Mod[*dialect.SelectQuery]) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(ownerID))),
	}
	queryMods = append(queryMods, extra...)

	row, err := bob.One(ctx, exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, wrapErr("find transaction", err)
	}
	return &row, nil
}

func toPointers(rows []Transaction) []*Transaction {
	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result
}

func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("transaction")
	}
	return apperrors.Wrap(op, err)
}

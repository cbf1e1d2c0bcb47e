package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/category"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type Writer struct {
	tx           Tx
	Accounts     AccountWriter
	Transactions TransactionWriter
	Categories   CategoryWriter
	Checklists   ChecklistWriter
}

// NewWriter builds a Writer over an open bob transaction.
func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:           tx,
		Accounts:     account.NewWriter(tx),
		Transactions: transaction.NewWriter(tx),
		Categories:   category.NewWriter(tx),
		Checklists:   checklist.NewWriter(tx),
	}
}

// NewWriterFrom assembles a Writer from backend specific tables.
func NewWriterFrom(tx Tx, accounts AccountWriter, transactions TransactionWriter, categories CategoryWriter, checklists ChecklistWriter) *Writer {
	return &Writer{
		tx:           tx,
		Accounts:     accounts,
		Transactions: transactions,
		Categories:   categories,
		Checklists:   checklists,
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}

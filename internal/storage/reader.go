package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/category"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

type Reader struct {
	Accounts     AccountReader
	Transactions TransactionReader
	Categories   CategoryReader
	Checklists   ChecklistReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		Categories:   category.NewReader(exec),
		Checklists:   checklist.NewReader(exec),
	}
}

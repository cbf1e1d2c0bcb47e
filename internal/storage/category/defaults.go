package category

import "github.com/carson-networks/finance-server/internal/storage/transaction"

// Defaults are the shared categories every owner can see. The SQL seed in
// migrations/000002 inserts the same rows.
var Defaults = []CategoryCreate{
	{Name: "Salary", Type: transaction.TypeIncome, Icon: "briefcase", Color: "#10b981"},
	{Name: "Gifts", Type: transaction.TypeIncome, Icon: "gift", Color: "#ec4899"},
	{Name: "Food", Type: transaction.TypeExpense, Icon: "utensils", Color: "#f97316"},
	{Name: "Transport", Type: transaction.TypeExpense, Icon: "bus", Color: "#3b82f6"},
	{Name: "Rent", Type: transaction.TypeExpense, Icon: "home", Color: "#8b5cf6"},
	{Name: "Entertainment", Type: transaction.TypeExpense, Icon: "clapperboard", Color: "#f43f5e"},
	{Name: "Health", Type: transaction.TypeExpense, Icon: "heart", Color: "#ef4444"},
	{Name: "Shopping", Type: transaction.TypeExpense, Icon: "shopping-bag", Color: "#f59e0b"},
}

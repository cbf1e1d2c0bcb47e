package actions

import (
	"context"

	"github.com/carson-networks/finance-server/internal/storage"
)

// IAction is one unit of work run by the operator. Perform may be invoked
// more than once when the store reports a transient conflict, so it must
// derive all of its results from the writer it is given.
type IAction interface {
	Name() string
	Perform(ctx context.Context, writer *storage.Writer) error
}

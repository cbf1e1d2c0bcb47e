package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, TransactionEvent) error {
	f.calls++
	return errors.New("broker unavailable")
}

func (f *failingPublisher) Close() error { return nil }

func TestLogging_SwallowsPublishErrors(t *testing.T) {
	next := &failingPublisher{}
	p := Logging{Next: next}

	assert.NoError(t, p.Publish(context.Background(), TransactionEvent{Kind: KindTransactionCreated}))
	assert.Equal(t, 1, next.calls)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), TransactionEvent{}))
	assert.NoError(t, p.Close())
}

package operator

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	store      storage.Store
	queue      chan ActionItem
	maxRetries int
	newBackOff func() backoff.BackOff
}

func NewOperator(s storage.Store, queue chan ActionItem, maxRetries int, newBackOff func() backoff.BackOff) *Operator {
	return &Operator{
		store:      s,
		queue:      queue,
		maxRetries: maxRetries,
		newBackOff: newBackOff,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	close(item.started)
	attempt := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(o.newBackOff(), uint64(o.maxRetries)),
		item.ctx,
	)

	err := backoff.Retry(func() error {
		attempt++
		err := o.perform(item)
		if err == nil {
			return nil
		}
		if storage.IsRetryable(err) {
			logrus.WithFields(logrus.Fields{
				"action":  item.action.Name(),
				"attempt": attempt,
			}).WithError(err).Warn("Operator.processItem.retry")
			return err
		}
		return backoff.Permanent(err)
	}, policy)

	if err != nil && storage.IsRetryable(err) {
		err = apperrors.Conflict(err)
	}
	item.response <- ActionItemResponse{err: err}
}

// perform runs one attempt of the action inside its own unit of work.
func (o *Operator) perform(item ActionItem) (err error) {
	if err = item.ctx.Err(); err != nil {
		return err
	}

	writer, err := o.store.Write(item.ctx)
	if err != nil {
		return apperrors.Wrap("begin unit", err)
	}

	committed := false
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Storage("perform "+item.action.Name(), fmt.Errorf("panic: %v", r))
		}
		if committed {
			return
		}
		if rbErr := writer.Rollback(context.Background()); rbErr != nil {
			logrus.WithField("action", item.action.Name()).WithError(rbErr).Error("Operator.perform.rollback")
		}
	}()

	if err = item.action.Perform(item.ctx, writer); err != nil {
		return err
	}
	// A caller that went away before commit gets nothing applied.
	if err = item.ctx.Err(); err != nil {
		return err
	}
	if err = writer.Commit(item.ctx); err != nil {
		committed = true
		return apperrors.Wrap("commit", err)
	}
	committed = true
	return nil
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	started  chan struct{}
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}

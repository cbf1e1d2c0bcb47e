package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/cache"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Processor runs an action inside one unit of work.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Category    *CategoryService
	Checklist   *ChecklistService
	Statistics  *StatisticsService
}

// defaultPublishTimeout bounds how long a committed mutation waits on its event.
const defaultPublishTimeout = 2 * time.Second

// Dependencies wires the services. Publisher, caches, Clock and
// PublishTimeout are optional.
type Dependencies struct {
	Store          storage.Store
	Processor      Processor
	Publisher      events.Publisher
	StatsCache     *cache.Cache[*Statistics]
	DashboardCache *cache.Cache[*Dashboard]
	Clock          func() time.Time
	PublishTimeout time.Duration
}

// NewService creates a new Service with the given dependencies.
func NewService(deps Dependencies) *Service {
	if deps.Publisher == nil {
		deps.Publisher = events.Noop{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.PublishTimeout <= 0 {
		deps.PublishTimeout = defaultPublishTimeout
	}
	hooks := &commitHooks{
		publisher:      deps.Publisher,
		publishTimeout: deps.PublishTimeout,
		clock:          deps.Clock,
		invalidators: []func(uuid.UUID){
			deps.StatsCache.Invalidate,
			deps.DashboardCache.Invalidate,
		},
	}

	return &Service{
		Transaction: NewTransactionService(deps.Store, deps.Processor, hooks),
		Account:     NewAccountService(deps.Store, deps.Processor, hooks),
		Category:    NewCategoryService(deps.Store, deps.Processor, hooks),
		Checklist:   NewChecklistService(deps.Store, deps.Processor),
		Statistics:  NewStatisticsService(deps.Store, deps.StatsCache, deps.DashboardCache, deps.Clock),
	}
}

func requireOwner(ownerID uuid.UUID) error {
	if ownerID.IsNil() {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// commitHooks run after a unit of work committed. They never fail the call.
type commitHooks struct {
	publisher      events.Publisher
	publishTimeout time.Duration
	clock          func() time.Time
	invalidators   []func(uuid.UUID)
}

func (h *commitHooks) invalidate(ownerID uuid.UUID) {
	if h == nil {
		return
	}
	for _, invalidate := range h.invalidators {
		invalidate(ownerID)
	}
}

func (h *commitHooks) publish(ctx context.Context, event events.TransactionEvent) {
	if h == nil {
		return
	}
	// The unit is committed; a caller that hangs up now must not stop the
	// event, but a stalled broker must not hold the response either.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.publishTimeout)
	defer cancel()
	if err := h.publisher.Publish(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"kind":          event.Kind,
			"transactionID": event.TransactionID,
		}).WithError(err).Warn("Service.publish.failed")
	}
}

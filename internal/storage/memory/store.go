// Package memory is a process local ledger backend used for development and
// tests. A unit of work holds the store lock from Write until Commit or
// Rollback, and every mutation records an undo step so Rollback restores the
// exact prior state.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/category"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

var ErrUnitClosed = errors.New("memory: unit of work already finished")

type Store struct {
	mu    sync.RWMutex
	sem   chan struct{}
	clock func() time.Time

	accounts     map[uuid.UUID]account.Account
	transactions map[uuid.UUID]transaction.Transaction
	categories   map[uuid.UUID]category.Category
	checklists   map[uuid.UUID]checklist.Item
}

var _ storage.Store = (*Store)(nil)

type Option func(*Store)

// WithClock overrides the source of created_at timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// NewStore returns an empty store seeded with the default categories.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sem:          make(chan struct{}, 1),
		clock:        time.Now,
		accounts:     make(map[uuid.UUID]account.Account),
		transactions: make(map[uuid.UUID]transaction.Transaction),
		categories:   make(map[uuid.UUID]category.Category),
		checklists:   make(map[uuid.UUID]checklist.Item),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, def := range category.Defaults {
		id := newID()
		s.categories[id] = category.Category{
			ID:        id,
			Name:      def.Name,
			Type:      def.Type,
			Icon:      def.Icon,
			Color:     def.Color,
			IsDefault: true,
			CreatedAt: s.now(),
		}
	}
	return s
}

func (s *Store) now() time.Time {
	return s.clock().UTC()
}

func (s *Store) Read() *storage.Reader {
	return &storage.Reader{
		Accounts:     &accountTable{s: s},
		Transactions: &transactionTable{s: s},
		Categories:   &categoryTable{s: s},
		Checklists:   &checklistTable{s: s},
	}
}

// Write blocks until no other unit is open or ctx is done.
func (s *Store) Write(ctx context.Context) (*storage.Writer, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()

	u := &unit{s: s}
	return storage.NewWriterFrom(u,
		&accountTable{s: s, u: u},
		&transactionTable{s: s, u: u},
		&categoryTable{s: s, u: u},
		&checklistTable{s: s, u: u},
	), nil
}

func (s *Store) Close() error {
	return nil
}

// unit is an open unit of work. It owns s.mu until finished.
type unit struct {
	s       *Store
	journal []func()
	done    bool
}

func (u *unit) record(undo func()) {
	u.journal = append(u.journal, undo)
}

func (u *unit) check() error {
	if u.done {
		return ErrUnitClosed
	}
	return nil
}

func (u *unit) Commit(_ context.Context) error {
	if u.done {
		return ErrUnitClosed
	}
	u.finish()
	return nil
}

func (u *unit) Rollback(_ context.Context) error {
	if u.done {
		return ErrUnitClosed
	}
	for i := len(u.journal) - 1; i >= 0; i-- {
		u.journal[i]()
	}
	u.finish()
	return nil
}

func (u *unit) finish() {
	u.journal = nil
	u.done = true
	u.s.mu.Unlock()
	<-u.s.sem
}

// readLock takes the shared lock unless the caller already holds the store
// through an open unit.
func readLock(s *Store, u *unit) func() {
	if u != nil {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// Package memory keeps aggregates in process memory. Transactions buffer
// their writes on a private copy and replay them on commit, so readers never
// observe uncommitted state.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
)

var (
	errNoTx       = errors.New("memory: no transaction in context")
	errTxFinished = errors.New("memory: transaction already finished")
	errDuplicate  = errors.New("memory: duplicate id")
)

type userRecord struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
	IsActive  bool
}

type bookRecord struct {
	ID        uuid.UUID
	Fields    entity.BookFields
	CreatedAt time.Time
	CoverURL  string
}

type assessmentRecord struct {
	ID          uuid.UUID
	Note        int
	Description string
	UserID      uuid.UUID
	BookID      uuid.UUID
	CreatedAt   time.Time
}

type state struct {
	users       map[uuid.UUID]userRecord
	books       map[uuid.UUID]bookRecord
	assessments map[uuid.UUID]assessmentRecord
}

func newState() *state {
	return &state{
		users:       map[uuid.UUID]userRecord{},
		books:       map[uuid.UUID]bookRecord{},
		assessments: map[uuid.UUID]assessmentRecord{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:       maps.Clone(s.users),
		books:       maps.Clone(s.books),
		assessments: maps.Clone(s.assessments),
	}
}

type op func(st *state) error

type tx struct {
	mu       sync.Mutex
	snapshot *state
	ops      []op
	done     bool
}

type ctxKey struct{}

var txKey = ctxKey{}

func txFrom(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txKey).(*tx)
	return t, ok
}

// Store is the shared backing state for every in-memory repository.
type Store struct {
	mu      sync.RWMutex
	current *state
	commits int
}

func NewStore() *Store {
	return &Store{current: newState()}
}

// Commits reports how many transactions have been committed.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

func (s *Store) read(ctx context.Context, fn func(st *state)) {
	if t, ok := txFrom(ctx); ok {
		t.mu.Lock()
		defer t.mu.Unlock()
		fn(t.snapshot)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.current)
}

func (s *Store) write(ctx context.Context, fn op) error {
	if t, ok := txFrom(ctx); ok {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.done {
			return errTxFinished
		}
		if err := fn(t.snapshot); err != nil {
			return err
		}
		t.ops = append(t.ops, fn)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.current)
}

func (s *Store) begin(ctx context.Context) context.Context {
	s.mu.RLock()
	snapshot := s.current.clone()
	s.mu.RUnlock()
	return context.WithValue(ctx, txKey, &tx{snapshot: snapshot})
}

func (s *Store) commit(ctx context.Context) error {
	t, ok := txFrom(ctx)
	if !ok {
		return errNoTx
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxFinished
	}
	t.done = true

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.clone()
	for _, fn := range t.ops {
		if err := fn(next); err != nil {
			return err
		}
	}
	s.current = next
	s.commits++
	return nil
}

func (s *Store) rollback(ctx context.Context) error {
	t, ok := txFrom(ctx)
	if !ok {
		return errNoTx
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
	t.ops = nil
	return nil
}

// UnitOfWork commits buffered writes onto a Store.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	return u.store.begin(ctx), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	return u.store.commit(ctx)
}

// Rollback is a no-op after Commit.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return u.store.rollback(ctx)
}

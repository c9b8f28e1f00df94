// Package memory implements the store ports in process memory. It is the
// default backend and doubles as the reference implementation the SQLite
// repository is tested against.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yashx007/Finance-App/internal/core"
	"github.com/yashx007/Finance-App/internal/store"
)

type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	users   map[string]store.User // keyed by lowercased email
	rollups []core.MonthlyPoint
}

func New() *Store {
	return &Store{users: make(map[string]store.User)}
}

// List applies the filter and sorts the surviving records. Insertion order
// is the tie-break, so sorting is stable within a single query.
func (s *Store) List(_ context.Context, f core.Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return f.Less(out[i], out[j]) })
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *Store) Create(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	s.txs = append(s.txs, t)
	return t, nil
}

func (s *Store) Update(_ context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.txs {
		if t.ID == id {
			updated := p.Apply(t)
			updated.ID = id // ids are immutable
			s.txs[i] = updated
			return updated, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.txs {
		if t.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u store.User) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.users[key]; exists {
		return store.User{}, store.ErrEmailTaken
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	s.users[key] = u
	return u, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return store.User{}, core.ErrNotFound
	}
	return u, nil
}

func (s *Store) ReplaceRollups(_ context.Context, points []core.MonthlyPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollups = append([]core.MonthlyPoint(nil), points...)
	return nil
}

func (s *Store) Rollups(_ context.Context) ([]core.MonthlyPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]core.MonthlyPoint(nil), s.rollups...), nil
}

// Package memory is an in-process implementation of the repository stores.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/repository"
)

type completionKey struct{ user, task int64 }

type data struct {
	nextID      int64
	users       map[int64]domain.User
	species     map[int64]domain.Species
	chiblets    map[int64]domain.Chiblet
	tasks       map[int64]domain.Task
	completions map[completionKey]domain.TaskCompletion
	spins       []domain.SpinRecord
	battles     []domain.BattleRecord
	txs         []domain.Transaction
}

func (d *data) clone() data {
	return data{
		nextID:      d.nextID,
		users:       maps.Clone(d.users),
		species:     maps.Clone(d.species),
		chiblets:    maps.Clone(d.chiblets),
		tasks:       maps.Clone(d.tasks),
		completions: maps.Clone(d.completions),
		spins:       slices.Clone(d.spins),
		battles:     slices.Clone(d.battles),
		txs:         slices.Clone(d.txs),
	}
}

// Store holds all state. Transactions are serialized and rolled back by
// restoring a snapshot.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    data
}

func NewStore() *Store {
	return &Store{d: data{
		users:       make(map[int64]domain.User),
		species:     make(map[int64]domain.Species),
		chiblets:    make(map[int64]domain.Chiblet),
		tasks:       make(map[int64]domain.Task),
		completions: make(map[completionKey]domain.TaskCompletion),
	}}
}

func (s *Store) id() int64 {
	s.d.nextID++
	return s.d.nextID
}

// Repos wires every store onto s.
func (s *Store) Repos() repository.Store {
	return repository.Store{
		Tx:           TxManager{store: s},
		Users:        UserRepo{store: s},
		Species:      SpeciesRepo{store: s},
		Chiblets:     ChibletRepo{store: s},
		Tasks:        TaskRepo{store: s},
		Spins:        SpinRepo{store: s},
		Battles:      BattleRepo{store: s},
		Transactions: TransactionRepo{store: s},
	}
}

type txKey struct{}

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	t.store.mu.RLock()
	snap := t.store.d.clone()
	t.store.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.mu.Lock()
		t.store.d = snap
		t.store.mu.Unlock()
		return err
	}
	return nil
}

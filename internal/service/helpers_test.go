package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"chiblets_lite/internal/balance"
	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/repository"
	"chiblets_lite/internal/repository/memory"
)

type recordedEvent struct {
	userID int64
	name   string
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(userID int64, event string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{userID, event})
}

func (r *recorder) has(userID int64, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.userID == userID && e.name == name {
			return true
		}
	}
	return false
}

// testEnv is a full service stack on the in-memory store with a
// controllable clock.
type testEnv struct {
	t       *testing.T
	ctx     context.Context
	store   repository.Store
	deps    *Deps
	events  *recorder
	now     time.Time
	species map[domain.Rarity]domain.Species
	nextTg  int64
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		t:       t,
		ctx:     context.Background(),
		store:   memory.NewStore().Repos(),
		events:  &recorder{},
		now:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local),
		species: make(map[domain.Rarity]domain.Species),
	}
	seed := int64(0)
	e.deps = NewDeps(e.store, game.NewCalc(balance.Default()), Options{
		Now: func() time.Time { return e.now },
		NewRand: func() game.Rand {
			seed++
			return rand.New(rand.NewSource(seed))
		},
		Events: e.events,
	})

	for _, sp := range []domain.Species{
		{Name: "Flamepup", Type: domain.ElementFire, Rarity: domain.RarityCommon, BaseHP: 50, BaseAttack: 15, BaseDefense: 10},
		{Name: "Aquaburst", Type: domain.ElementWater, Rarity: domain.RarityRare, BaseHP: 70, BaseAttack: 22, BaseDefense: 16},
		{Name: "Stormwing", Type: domain.ElementAir, Rarity: domain.RarityEpic, BaseHP: 95, BaseAttack: 32, BaseDefense: 22},
		{Name: "Solaris", Type: domain.ElementLight, Rarity: domain.RarityLegendary, BaseHP: 130, BaseAttack: 45, BaseDefense: 30},
	} {
		if err := e.store.Species.Upsert(e.ctx, &sp); err != nil {
			t.Fatalf("seed species: %v", err)
		}
		e.species[sp.Rarity] = sp
	}
	return e
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func (e *testEnv) player(wchibi int64) *domain.User {
	e.t.Helper()
	e.nextTg++
	u := &domain.User{
		TgID:         1000 + e.nextTg,
		FirstName:    "Player",
		Wchibi:       wchibi,
		Level:        1,
		CurrentStage: 1,
		LastOnline:   e.now,
		CreatedAt:    e.now,
	}
	if err := e.store.Users.Create(e.ctx, u); err != nil {
		e.t.Fatalf("create user: %v", err)
	}
	return u
}

// give creates a power-stat chiblet of r at level for userID.
func (e *testEnv) give(userID int64, r domain.Rarity, level int, active bool) domain.Chiblet {
	e.t.Helper()
	ch := e.deps.calc.PoweredChiblet(userID, e.species[r], level, e.now)
	ch.IsActive = active
	if err := e.store.Chiblets.Create(e.ctx, &ch); err != nil {
		e.t.Fatalf("create chiblet: %v", err)
	}
	return ch
}

func (e *testEnv) user(id int64) *domain.User {
	e.t.Helper()
	u, err := e.store.Users.GetByID(e.ctx, id)
	if err != nil {
		e.t.Fatalf("get user %d: %v", id, err)
	}
	return u
}

func (e *testEnv) chiblet(id int64) *domain.Chiblet {
	e.t.Helper()
	ch, err := e.store.Chiblets.Get(e.ctx, id)
	if err != nil {
		e.t.Fatalf("get chiblet %d: %v", id, err)
	}
	return ch
}

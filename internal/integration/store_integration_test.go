package integration

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"chiblets_lite/internal/balance"
	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/migrations"
	"chiblets_lite/internal/repository"
	"chiblets_lite/internal/seed"
	"chiblets_lite/internal/service"
	"chiblets_lite/internal/telegram"

	"github.com/jackc/pgx/v5/pgxpool"
)

type env struct {
	ctx   context.Context
	store repository.Store
	deps  *service.Deps
	auth  *service.AuthService
}

func setup(t *testing.T) *env {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if err := migrations.Apply(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := repository.NewStore(db)
	if _, err := seed.Run(ctx, store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	deps := service.NewDeps(store, game.NewCalc(balance.Default()), service.Options{})
	auth := service.NewAuthService(deps,
		telegram.NewVerifier("123:test", time.Hour),
		service.NewTokenIssuer("secret", time.Hour),
	)
	return &env{ctx: ctx, store: store, deps: deps, auth: auth}
}

// newPlayer registers a player with a telegram id unlikely to exist yet.
func (e *env) newPlayer(t *testing.T) *domain.User {
	t.Helper()
	res, err := e.auth.LoginAs(e.ctx, telegram.WebAppUser{ID: time.Now().UnixNano(), FirstName: "Integration"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !res.Created || res.Starter == nil {
		t.Fatalf("expected a new player with a starter, got %+v", res)
	}
	return res.User
}

func TestFusionCommitsAtomically(t *testing.T) {
	e := setup(t)
	u := e.newPlayer(t)

	commons, err := e.store.Species.ListByRarity(e.ctx, domain.RarityCommon)
	if err != nil || len(commons) == 0 {
		t.Fatalf("list commons: %v", err)
	}
	extra := e.deps.Calc().NewChiblet(u.ID, commons[0], time.Now())
	if err := e.store.Chiblets.Create(e.ctx, &extra); err != nil {
		t.Fatalf("create chiblet: %v", err)
	}
	owned, err := e.store.Chiblets.ListByUser(e.ctx, u.ID)
	if err != nil || len(owned) != 2 {
		t.Fatalf("expected 2 chiblets, got %d (%v)", len(owned), err)
	}

	res, err := service.NewChibletService(e.deps).Fuse(e.ctx, u.ID, owned[0].ID, owned[1].ID)
	if err != nil {
		t.Fatalf("fuse: %v", err)
	}
	if res.Chiblet.Rarity != domain.RarityRare || res.Wchibi != u.Wchibi-100 {
		t.Fatalf("unexpected fusion %+v", res)
	}
	for _, src := range owned {
		if _, err := e.store.Chiblets.Get(e.ctx, src.ID); !errors.Is(err, game.ErrNotFound) {
			t.Fatalf("source %d still present: %v", src.ID, err)
		}
	}
	txs, err := e.store.Transactions.ListByUser(e.ctx, u.ID, 10)
	if err != nil || len(txs) == 0 {
		t.Fatalf("expected a ledger entry, got %d (%v)", len(txs), err)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	e := setup(t)
	u := e.newPlayer(t)

	boom := errors.New("boom")
	err := e.store.Tx.RunInTx(e.ctx, func(ctx context.Context) error {
		locked, err := e.store.Users.GetByIDForUpdate(ctx, u.ID)
		if err != nil {
			return err
		}
		locked.Wchibi = 0
		if err := e.store.Users.Update(ctx, locked); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	after, err := e.store.Users.GetByID(e.ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Wchibi != u.Wchibi {
		t.Fatalf("rollback failed: wchibi %d, want %d", after.Wchibi, u.Wchibi)
	}
}

func TestDailySpinLimit(t *testing.T) {
	e := setup(t)
	u := e.newPlayer(t)
	spins := service.NewSpinService(e.deps)

	for i := 0; i < 3; i++ {
		if _, err := spins.Spin(e.ctx, u.ID); err != nil {
			t.Fatalf("spin %d: %v", i+1, err)
		}
	}
	if _, err := spins.Spin(e.ctx, u.ID); !errors.Is(err, game.ErrDailySpinLimit) {
		t.Fatalf("expected daily limit, got %v", err)
	}
}

func TestUnknownRowsMapToNotFound(t *testing.T) {
	e := setup(t)
	if _, err := e.store.Users.GetByID(e.ctx, -1); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("user: %v", err)
	}
	if _, err := e.store.Chiblets.GetForUpdate(e.ctx, -1, -2); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("chiblets: %v", err)
	}
}

func TestConcurrentTaskClaimPaysOnce(t *testing.T) {
	e := setup(t)
	u := e.newPlayer(t)
	tasks := service.NewTaskService(e.deps)

	task := domain.Task{
		Title:    "integration " + time.Now().Format(time.RFC3339Nano),
		Type:     domain.TaskTwitterFollow,
		Reward:   domain.Reward{Type: domain.RewardWchibi, Amount: 100},
		IsActive: true,
	}
	if err := e.store.Tasks.Create(e.ctx, &task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	paid := 0
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = tasks.Complete(e.ctx, u.ID, task.ID)
		}()
		go func() {
			defer wg.Done()
			if _, err := tasks.Claim(e.ctx, u.ID, task.ID); err == nil {
				mu.Lock()
				paid++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if _, err := tasks.Complete(e.ctx, u.ID, task.ID); err != nil && !errors.Is(err, game.ErrTaskAlreadyClaimed) {
		t.Fatalf("complete: %v", err)
	}
	if _, err := tasks.Claim(e.ctx, u.ID, task.ID); err == nil {
		paid++
	}
	if paid != 1 {
		t.Fatalf("reward paid %d times; want 1", paid)
	}
	got, err := e.store.Users.GetByID(e.ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Wchibi != u.Wchibi+100 {
		t.Fatalf("wchibi = %d; want %d", got.Wchibi, u.Wchibi+100)
	}
}

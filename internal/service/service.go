package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/metrics"
	"chiblets_lite/internal/repository"
)

// Event names pushed to connected clients.
const (
	EventBattleSettled = "battle_settled"
	EventLevelUp       = "level_up"
	EventFusion        = "fusion"
	EventSpin          = "spin"
	EventIdleClaimed   = "idle_claimed"
	EventTaskClaimed   = "task_claimed"
)

// Publisher delivers events to a user's live connections.
type Publisher interface {
	Publish(userID int64, event string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(int64, string, any) {}

// Options override the clock, randomness and event sink. Zero values use
// the wall clock, a time-seeded source and no events.
type Options struct {
	Now     func() time.Time
	NewRand func() game.Rand
	Events  Publisher
}

// Deps is shared by every game service.
type Deps struct {
	store   repository.Store
	calc    game.Calc
	now     func() time.Time
	newRand func() game.Rand
	events  Publisher
	ledger  *Ledger
}

func NewDeps(store repository.Store, calc game.Calc, opts Options) *Deps {
	d := &Deps{
		store:   store,
		calc:    calc,
		now:     opts.Now,
		newRand: opts.NewRand,
		events:  opts.Events,
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.newRand == nil {
		d.newRand = func() game.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // gameplay randomness
		}
	}
	if d.events == nil {
		d.events = nopPublisher{}
	}
	d.ledger = NewLedger(store.Transactions)
	return d
}

func (d *Deps) Calc() game.Calc { return d.calc }

// ownedChiblet loads a chiblet for update and checks it belongs to userID.
func (d *Deps) ownedChiblet(ctx context.Context, userID, chibletID int64) (*domain.Chiblet, error) {
	rows, err := d.store.Chiblets.GetForUpdate(ctx, chibletID)
	if err != nil {
		return nil, err
	}
	ch := rows[0]
	if ch.UserID != userID {
		return nil, game.ErrNotOwner
	}
	return &ch, nil
}

// randomSpecies picks a species of rarity r.
func (d *Deps) randomSpecies(ctx context.Context, r domain.Rarity, rng game.Rand) (domain.Species, error) {
	list, err := d.store.Species.ListByRarity(ctx, r)
	if err != nil {
		return domain.Species{}, err
	}
	if len(list) == 0 {
		return domain.Species{}, game.ErrNoSpeciesForRarity
	}
	return list[rng.Intn(len(list))], nil
}

// grantChiblet creates a fresh level 1 chiblet of a random species of r.
// The collection cap applies.
func (d *Deps) grantChiblet(ctx context.Context, userID int64, r domain.Rarity, rng game.Rand) (*domain.Chiblet, error) {
	count, err := d.store.Chiblets.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= d.calc.Tables().Limits.MaxChiblets {
		return nil, game.ErrCollectionFull
	}
	sp, err := d.randomSpecies(ctx, r, rng)
	if err != nil {
		return nil, err
	}
	ch := d.calc.NewChiblet(userID, sp, d.now())
	if err := d.store.Chiblets.Create(ctx, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// refresh regenerates energy up to now. A chiblet heals to full HP when it
// regains energy or is already at capacity.
func (d *Deps) refresh(ch *domain.Chiblet, now time.Time) {
	if d.calc.RefreshEnergy(ch, now) || ch.Energy >= d.calc.EnergyCapacity(ch.Rarity) {
		ch.HP = ch.MaxHP
	}
}

func (d *Deps) refreshTeam(team []domain.Chiblet, now time.Time) {
	for i := range team {
		d.refresh(&team[i], now)
	}
}

// levelUp applies one level to ch and saves it. Runs inside a transaction.
func (d *Deps) levelUp(ctx context.Context, ch domain.Chiblet) (game.LevelUpResult, error) {
	sp, err := d.store.Species.Get(ctx, ch.SpeciesID)
	if err != nil {
		return game.LevelUpResult{}, err
	}
	res, err := d.calc.LevelUp(ch, *sp)
	if err != nil {
		return game.LevelUpResult{}, err
	}
	if err := d.store.Chiblets.Update(ctx, &res.Chiblet); err != nil {
		return game.LevelUpResult{}, err
	}
	metrics.LevelUps.Inc()
	return res, nil
}

// IsNotFound reports whether err means a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, game.ErrNotFound)
}

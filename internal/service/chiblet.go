package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/metrics"
)

const maxNameLength = 24

// ChibletView is a chiblet with its derived numbers at read time.
type ChibletView struct {
	domain.Chiblet
	Name            string         `json:"name"`
	Power           int64          `json:"power"`
	Income          int64          `json:"income"`
	MaxEnergy       int            `json:"max_energy"`
	NextEnergyInSec int64          `json:"next_energy_in_sec"`
	Progress        game.LevelInfo `json:"progress"`
}

type FusionResult struct {
	Plan    game.FusionPlan `json:"plan"`
	Chiblet domain.Chiblet  `json:"chiblet"`
	Wchibi  int64           `json:"wchibi"`
}

type ChibletService struct {
	*Deps
}

func NewChibletService(d *Deps) *ChibletService {
	return &ChibletService{Deps: d}
}

func (s *ChibletService) view(ch domain.Chiblet) ChibletView {
	now := s.now()
	s.refresh(&ch, now)
	v := ChibletView{
		Chiblet:   ch,
		Name:      ch.DisplayName(),
		Power:     s.calc.Power(ch.Rarity, ch.Level),
		Income:    s.calc.Income(ch.Rarity, ch.Level),
		MaxEnergy: s.calc.EnergyCapacity(ch.Rarity),
		Progress:  s.calc.LevelInfo(ch.Level, ch.Experience),
	}
	if ch.Energy < v.MaxEnergy {
		st := game.EnergyState{Current: ch.Energy, UpdatedAt: ch.EnergyUpdatedAt}
		v.NextEnergyInSec = int64(s.calc.UntilNext(ch.Rarity, st, now).Seconds())
	}
	return v
}

// List returns the collection with energy regenerated up to now. Nothing
// is written back.
func (s *ChibletService) List(ctx context.Context, userID int64) ([]ChibletView, error) {
	list, err := s.store.Chiblets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]ChibletView, 0, len(list))
	for _, ch := range list {
		res = append(res, s.view(ch))
	}
	return res, nil
}

// SetActive adds or removes a chiblet from the battle team.
func (s *ChibletService) SetActive(ctx context.Context, userID, chibletID int64, active bool) (*ChibletView, error) {
	var out ChibletView
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		ch, err := s.ownedChiblet(ctx, userID, chibletID)
		if err != nil {
			return err
		}
		if ch.IsActive == active {
			out = s.view(*ch)
			return nil
		}
		if active {
			team, err := s.store.Chiblets.ActiveTeam(ctx, userID, true)
			if err != nil {
				return err
			}
			if len(team) >= s.calc.Tables().Limits.MaxTeamSize {
				return game.ErrTeamFull
			}
		}
		ch.IsActive = active
		if err := s.store.Chiblets.Update(ctx, ch); err != nil {
			return err
		}
		out = s.view(*ch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Rename sets a custom name. An empty name restores the species name.
func (s *ChibletService) Rename(ctx context.Context, userID, chibletID int64, name string) (*ChibletView, error) {
	name = strings.TrimSpace(name)
	if err := validName(name); err != nil {
		return nil, err
	}
	var out ChibletView
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		ch, err := s.ownedChiblet(ctx, userID, chibletID)
		if err != nil {
			return err
		}
		ch.CustomName = name
		if err := s.store.Chiblets.Update(ctx, ch); err != nil {
			return err
		}
		out = s.view(*ch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func validName(name string) error {
	if utf8.RuneCountInString(name) > maxNameLength {
		return game.ErrInvalidName
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return game.ErrInvalidName
		}
	}
	return nil
}

// LevelUp spends the chiblet's experience on the next level.
func (s *ChibletService) LevelUp(ctx context.Context, userID, chibletID int64) (*game.LevelUpResult, error) {
	var res game.LevelUpResult
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		ch, err := s.ownedChiblet(ctx, userID, chibletID)
		if err != nil {
			return err
		}
		res, err = s.levelUp(ctx, *ch)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(userID, EventLevelUp, res)
	return &res, nil
}

// Fuse consumes two chiblets of one rarity plus the fusion fee and creates
// a chiblet of the next rarity at the higher of the two levels.
func (s *ChibletService) Fuse(ctx context.Context, userID, aID, bID int64) (*FusionResult, error) {
	if aID == bID {
		return nil, game.ErrSameChiblet
	}
	var res FusionResult
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.store.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		rows, err := s.store.Chiblets.GetForUpdate(ctx, aID, bID)
		if err != nil {
			return err
		}
		a, b := rows[0], rows[1]
		if a.UserID != userID || b.UserID != userID {
			return game.ErrNotOwner
		}

		plan, err := s.calc.PlanFusion(a, b, u.Wchibi)
		if err != nil {
			return err
		}
		sp, err := s.randomSpecies(ctx, plan.To, s.newRand())
		if err != nil {
			return err
		}

		if err := s.store.Chiblets.Delete(ctx, aID, bID); err != nil {
			return err
		}
		meta := map[string]interface{}{"from": plan.From, "to": plan.To, "sources": plan.SourceIDs}
		if err := s.ledger.Debit(ctx, u, plan.Cost, domain.TxFusionCost, meta); err != nil {
			return err
		}
		if err := s.store.Users.Update(ctx, u); err != nil {
			return err
		}
		fused := s.calc.FusedChiblet(plan, userID, sp, s.now())
		if err := s.store.Chiblets.Create(ctx, &fused); err != nil {
			return err
		}

		res = FusionResult{Plan: plan, Chiblet: fused, Wchibi: u.Wchibi}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Fusions.WithLabelValues(string(res.Plan.To)).Inc()
	logger.Info("fusion applied", "user_id", userID, "from", res.Plan.From, "to", res.Plan.To, "chiblet_id", res.Chiblet.ID)
	s.events.Publish(userID, EventFusion, res)
	return &res, nil
}

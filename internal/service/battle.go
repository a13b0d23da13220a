package service

import (
	"context"
	"encoding/json"
	"strconv"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/metrics"

	"github.com/google/uuid"
)

const (
	defaultPreview = 5
	maxPreview     = 20
	defaultHistory = 20
	maxHistory     = 100
)

type StageResult struct {
	Outcome  game.StageOutcome `json:"outcome"`
	Team     []domain.Chiblet  `json:"team"`
	Wchibi   int64             `json:"wchibi"`
	BattleID uuid.UUID         `json:"battle_id"`
}

type OpponentView struct {
	Chiblet    ChibletView `json:"chiblet"`
	OwnerName  string      `json:"owner_name"`
	OwnerLevel int         `json:"owner_level"`
}

type PvPResult struct {
	Battle   game.BattleResult    `json:"battle"`
	Chiblet  domain.Chiblet       `json:"chiblet"`
	LevelUp  *game.LevelUpResult  `json:"level_up,omitempty"`
	Wchibi   int64                `json:"wchibi"`
	BattleID uuid.UUID            `json:"battle_id"`
	Outcome  domain.BattleOutcome `json:"outcome"`
}

type BattleService struct {
	*Deps
	// PlayerPolicy and OpponentPolicy drive PvP choices. Nil means the
	// simulator defaults.
	PlayerPolicy   game.ActionPolicy
	OpponentPolicy game.ActionPolicy
	chiblets       *ChibletService
}

func NewBattleService(d *Deps) *BattleService {
	return &BattleService{Deps: d, chiblets: NewChibletService(d)}
}

// Stages previews the player's current stage and the ones after it.
func (s *BattleService) Stages(ctx context.Context, userID int64, count int) ([]game.StageInfo, error) {
	u, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = defaultPreview
	}
	return s.calc.StagePreview(u.CurrentStage, min(count, maxPreview)), nil
}

// FightStage sends the active team against the current stage boss.
func (s *BattleService) FightStage(ctx context.Context, userID int64) (*StageResult, error) {
	var res StageResult
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		now := s.now()
		u, err := s.store.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		team, err := s.store.Chiblets.ActiveTeam(ctx, userID, true)
		if err != nil {
			return err
		}
		s.refreshTeam(team, now)

		out, err := s.calc.StageBattle(team, u.CurrentStage)
		if err != nil {
			return err
		}

		for i := range team {
			game.SpendEnergy(&team[i], out.EnergySpent[i], now)
			team[i].Experience += out.ExpPerMember
			if err := s.store.Chiblets.Update(ctx, &team[i]); err != nil {
				return err
			}
		}

		u.CurrentStage = out.NewStage
		u.Experience += out.Experience
		u.LastOnline = now
		meta := map[string]interface{}{"stage": out.Stage}
		if err := s.ledger.Credit(ctx, u, out.Currency, domain.TxStageReward, meta); err != nil {
			return err
		}
		if err := s.store.Users.Update(ctx, u); err != nil {
			return err
		}

		trace, err := json.Marshal(out)
		if err != nil {
			return err
		}
		lead := team[0].ID
		rec := &domain.BattleRecord{
			ID:          uuid.New(),
			UserID:      userID,
			ChibletID:   &lead,
			Mode:        domain.BattlePvE,
			OpponentRef: "stage:" + strconv.Itoa(out.Stage),
			Outcome:     domain.OutcomeWin,
			Trace:       trace,
			ExpGained:   out.Experience,
			Currency:    out.Currency,
			CreatedAt:   now,
		}
		if err := s.store.Battles.Create(ctx, rec); err != nil {
			return err
		}

		res = StageResult{Outcome: out, Team: team, Wchibi: u.Wchibi, BattleID: rec.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Battles.WithLabelValues(string(domain.BattlePvE), string(domain.OutcomeWin)).Inc()
	logger.Info("battle settled", "mode", domain.BattlePvE, "user_id", userID, "stage", res.Outcome.Stage, "wchibi", res.Outcome.Currency)
	s.events.Publish(userID, EventBattleSettled, res)
	return &res, nil
}

// FindOpponent picks a random battle-ready chiblet of another player close
// to the level of chibletID.
func (s *BattleService) FindOpponent(ctx context.Context, userID, chibletID int64) (*OpponentView, error) {
	ch, err := s.store.Chiblets.Get(ctx, chibletID)
	if err != nil {
		return nil, err
	}
	if ch.UserID != userID {
		return nil, game.ErrNotOwner
	}
	s.refresh(ch, s.now())
	if ch.Energy <= 0 {
		return nil, game.ErrNoEnergy
	}
	if ch.HP <= 0 {
		return nil, game.ErrChibletFainted
	}

	cfg := s.calc.Tables().PvP
	candidates, err := s.store.Chiblets.FindOpponents(ctx, userID,
		max(1, ch.Level-cfg.LevelWindow), ch.Level+cfg.LevelWindow, cfg.Candidates)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, game.ErrNoOpponent
	}
	pick := candidates[s.newRand().Intn(len(candidates))]

	view := &OpponentView{Chiblet: s.chiblets.view(pick)}
	if owner, err := s.store.Users.GetByID(ctx, pick.UserID); err == nil {
		view.OwnerName = displayName(owner)
		view.OwnerLevel = owner.Level
	}
	return view, nil
}

func displayName(u *domain.User) string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	}
	return "Player " + strconv.FormatInt(u.ID, 10)
}

// FightPvP simulates chibletID against opponentID and settles the result.
func (s *BattleService) FightPvP(ctx context.Context, userID, chibletID, opponentID int64) (*PvPResult, error) {
	if chibletID == opponentID {
		return nil, game.ErrSelfBattle
	}
	var res PvPResult
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		now := s.now()
		u, err := s.store.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		rows, err := s.store.Chiblets.GetForUpdate(ctx, chibletID, opponentID)
		if err != nil {
			return err
		}
		player, opp := rows[0], rows[1]
		if player.ID != chibletID {
			player, opp = opp, player
		}
		if player.UserID != userID {
			return game.ErrNotOwner
		}
		if opp.UserID == userID {
			return game.ErrSelfBattle
		}

		s.refresh(&player, now)
		s.refresh(&opp, now)
		if player.Energy <= 0 {
			return game.ErrNoEnergy
		}
		if player.HP <= 0 || opp.HP <= 0 {
			return game.ErrChibletFainted
		}

		sim := s.calc.NewSimulator(s.PlayerPolicy, s.OpponentPolicy)
		battle := sim.Simulate(game.CombatantOf(player), game.CombatantOf(opp), s.newRand())

		game.SpendEnergy(&player, s.calc.Tables().PvP.EnergyCost, now)
		player.HP = battle.Player.HP
		player.Experience += battle.Exp
		opp.HP = battle.Opponent.HP
		if err := s.store.Chiblets.Update(ctx, &player); err != nil {
			return err
		}
		if err := s.store.Chiblets.Update(ctx, &opp); err != nil {
			return err
		}

		if battle.Outcome == domain.OutcomeWin {
			u.TotalWins++
			meta := map[string]interface{}{"opponent_chiblet_id": opp.ID}
			if err := s.ledger.Credit(ctx, u, battle.Currency, domain.TxPvPReward, meta); err != nil {
				return err
			}
			if err := s.store.Users.Update(ctx, u); err != nil {
				return err
			}
		}

		trace, err := json.Marshal(battle.Rounds)
		if err != nil {
			return err
		}
		rec := &domain.BattleRecord{
			ID:          uuid.New(),
			UserID:      userID,
			ChibletID:   &player.ID,
			Mode:        domain.BattlePvP,
			OpponentRef: "chiblet:" + strconv.FormatInt(opp.ID, 10),
			Outcome:     battle.Outcome,
			Trace:       trace,
			ExpGained:   battle.Exp,
			Currency:    battle.Currency,
			CreatedAt:   now,
		}
		if err := s.store.Battles.Create(ctx, rec); err != nil {
			return err
		}

		res = PvPResult{Battle: battle, Chiblet: player, Wchibi: u.Wchibi, BattleID: rec.ID, Outcome: battle.Outcome}
		if battle.Outcome == domain.OutcomeWin && s.calc.LevelInfo(player.Level, player.Experience).CanLevelUp {
			lvl, err := s.levelUp(ctx, player)
			if err != nil {
				return err
			}
			res.LevelUp = &lvl
			res.Chiblet = lvl.Chiblet
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Battles.WithLabelValues(string(domain.BattlePvP), string(res.Outcome)).Inc()
	logger.Info("battle settled", "mode", domain.BattlePvP, "user_id", userID, "outcome", res.Outcome, "rounds", len(res.Battle.Rounds))
	s.events.Publish(userID, EventBattleSettled, res)
	if res.LevelUp != nil {
		s.events.Publish(userID, EventLevelUp, res.LevelUp)
	}
	return &res, nil
}

// History lists the latest battles of a user, newest first.
func (s *BattleService) History(ctx context.Context, userID int64, limit int) ([]domain.BattleRecord, error) {
	if limit <= 0 {
		limit = defaultHistory
	}
	return s.store.Battles.ListByUser(ctx, userID, min(limit, maxHistory))
}

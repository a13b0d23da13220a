package game

import (
	"math"

	"chiblets_lite/internal/domain"
)

// Combatant is the battle snapshot of a chiblet. Simulation only touches
// the snapshot.
type Combatant struct {
	ChibletID int64  `json:"chiblet_id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"max_hp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
}

func CombatantOf(ch domain.Chiblet) Combatant {
	return Combatant{
		ChibletID: ch.ID,
		UserID:    ch.UserID,
		Name:      ch.DisplayName(),
		Level:     ch.Level,
		HP:        ch.HP,
		MaxHP:     ch.MaxHP,
		Attack:    ch.Attack,
		Defense:   ch.Defense,
	}
}

// Round records one exchange; damage is what each side dealt.
type Round struct {
	Number         int    `json:"number"`
	PlayerAction   Action `json:"player_action"`
	OpponentAction Action `json:"opponent_action"`
	PlayerDamage   int    `json:"player_damage"`
	OpponentDamage int    `json:"opponent_damage"`
	PlayerHP       int    `json:"player_hp"`
	OpponentHP     int    `json:"opponent_hp"`
}

type BattleResult struct {
	Outcome  domain.BattleOutcome `json:"outcome"`
	Rounds   []Round              `json:"rounds"`
	Player   Combatant            `json:"player"`
	Opponent Combatant            `json:"opponent"`
	Exp      int64                `json:"exp"`
	Currency int64                `json:"currency"`
}

type Simulator struct {
	calc     Calc
	player   ActionPolicy
	opponent ActionPolicy
}

// NewSimulator uses AlwaysAttack for a nil player policy and the default
// heuristic for a nil opponent policy.
func (c Calc) NewSimulator(player, opponent ActionPolicy) Simulator {
	if player == nil {
		player = AlwaysAttack{}
	}
	if opponent == nil {
		opponent = DefaultHeuristic()
	}
	return Simulator{calc: c, player: player, opponent: opponent}
}

// Simulate runs at most MaxRounds rounds. Both sides strike simultaneously,
// so both can fall in the same round, which is a draw. If the round cap is
// hit the higher remaining HP fraction wins.
func (s Simulator) Simulate(player, opponent Combatant, rng Rand) BattleResult {
	cfg := s.calc.t.PvP
	res := BattleResult{}

	for n := 1; n <= cfg.MaxRounds; n++ {
		if player.HP <= 0 || opponent.HP <= 0 {
			break
		}
		pa := s.player.Choose(player, opponent, rng)
		oa := s.opponent.Choose(opponent, player, rng)

		pd := s.calc.Damage(player, opponent, pa, oa, rng.Float64())
		od := s.calc.Damage(opponent, player, oa, pa, rng.Float64())

		opponent.HP = max(0, opponent.HP-pd)
		player.HP = max(0, player.HP-od)

		res.Rounds = append(res.Rounds, Round{
			Number:         n,
			PlayerAction:   pa,
			OpponentAction: oa,
			PlayerDamage:   pd,
			OpponentDamage: od,
			PlayerHP:       player.HP,
			OpponentHP:     opponent.HP,
		})
	}

	res.Player = player
	res.Opponent = opponent
	res.Outcome = decide(player, opponent)
	if res.Outcome == domain.OutcomeWin {
		res.Exp, res.Currency = s.calc.PvPReward(opponent.Level)
	}
	return res
}

func decide(p, o Combatant) domain.BattleOutcome {
	switch {
	case p.HP <= 0 && o.HP <= 0:
		return domain.OutcomeDraw
	case o.HP <= 0:
		return domain.OutcomeWin
	case p.HP <= 0:
		return domain.OutcomeLoss
	}
	// cross-multiplied HP fractions
	pf := int64(p.HP) * int64(max(o.MaxHP, 1))
	of := int64(o.HP) * int64(max(p.MaxHP, 1))
	switch {
	case pf > of:
		return domain.OutcomeWin
	case pf < of:
		return domain.OutcomeLoss
	}
	return domain.OutcomeDraw
}

// Damage dealt by attacker to defender for one round, at least 1.
// r in [0,1) picks the random multiplier.
func (c Calc) Damage(attacker, defender Combatant, atk, def Action, r float64) int {
	cfg := c.t.PvP
	base := float64(attacker.Attack) * c.actionMultiplier(atk)
	defense := float64(defender.Defense)
	if def == ActionDefend {
		defense *= cfg.DefendBonus
	}
	random := cfg.RandomMin + r*cfg.RandomSpread
	dmg := int(math.Floor(base*random - defense*cfg.DefenseFactor))
	return max(1, dmg)
}

func (c Calc) actionMultiplier(a Action) float64 {
	switch a {
	case ActionDefend:
		return c.t.PvP.DefendMultiplier
	case ActionSpecial:
		return c.t.PvP.SpecialMultiplier
	default:
		return c.t.PvP.AttackMultiplier
	}
}

// PvPReward is the exp and wCHIBI for beating an opponent of level.
func (c Calc) PvPReward(opponentLevel int) (int64, int64) {
	cfg := c.t.PvP
	lvl := int64(opponentLevel)
	return cfg.RewardExpBase + lvl*cfg.RewardExpPerLevel, cfg.RewardCoinBase + lvl*cfg.RewardCoinPerLevel
}

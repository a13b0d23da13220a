package game

import (
	"math/rand"
	"testing"

	"chiblets_lite/internal/domain"
)

func TestSimulateSimultaneousKnockoutIsDraw(t *testing.T) {
	c := defaultCalc()
	sim := c.NewSimulator(AlwaysAttack{}, AlwaysAttack{})
	player := Combatant{ChibletID: 1, Level: 1, HP: 50, MaxHP: 50, Attack: 35, Defense: 25}
	opp := Combatant{ChibletID: 2, Level: 1, HP: 55, MaxHP: 55, Attack: 30, Defense: 30}

	res := sim.Simulate(player, opp, fixedRand{0.5})

	want := []struct{ pd, od, php, ohp int }{
		{20, 17, 33, 35},
		{20, 17, 16, 15},
		{20, 17, 0, 0},
	}
	if len(res.Rounds) != len(want) {
		t.Fatalf("rounds = %d; want %d", len(res.Rounds), len(want))
	}
	for i, w := range want {
		r := res.Rounds[i]
		if r.PlayerDamage != w.pd || r.OpponentDamage != w.od || r.PlayerHP != w.php || r.OpponentHP != w.ohp {
			t.Fatalf("round %d = %+v; want %+v", i+1, r, w)
		}
	}
	if res.Outcome != domain.OutcomeDraw {
		t.Fatalf("outcome = %s; want draw", res.Outcome)
	}
	if res.Exp != 0 || res.Currency != 0 {
		t.Fatalf("draw must not reward")
	}
	// snapshots only
	if player.HP != 50 || opp.HP != 55 {
		t.Fatalf("inputs mutated")
	}
}

func TestSimulateRoundCapTieBreak(t *testing.T) {
	c := defaultCalc()
	sim := c.NewSimulator(AlwaysAttack{}, AlwaysAttack{})
	tank := Combatant{HP: 1000, MaxHP: 1000, Attack: 1, Defense: 100}

	res := sim.Simulate(tank, tank, fixedRand{0.5})
	if len(res.Rounds) != 20 {
		t.Fatalf("rounds = %d; want 20", len(res.Rounds))
	}
	if res.Player.HP != 980 || res.Opponent.HP != 980 {
		t.Fatalf("minimum damage should be 1 per round, hp = %d/%d", res.Player.HP, res.Opponent.HP)
	}
	if res.Outcome != domain.OutcomeDraw {
		t.Fatalf("equal fractions must draw, got %s", res.Outcome)
	}

	big := Combatant{HP: 2000, MaxHP: 2000, Attack: 1, Defense: 100}
	res = sim.Simulate(tank, big, fixedRand{0.5})
	if res.Outcome != domain.OutcomeLoss {
		t.Fatalf("980/1000 vs 1980/2000 should lose, got %s", res.Outcome)
	}
	res = sim.Simulate(big, tank, fixedRand{0.5})
	if res.Outcome != domain.OutcomeWin {
		t.Fatalf("1980/2000 vs 980/1000 should win, got %s", res.Outcome)
	}
	if res.Exp != 10 || res.Currency != 5 {
		t.Fatalf("reward for level 0 opponent = %d/%d", res.Exp, res.Currency)
	}
}

func TestSimulateWinRewards(t *testing.T) {
	c := defaultCalc()
	sim := c.NewSimulator(nil, AlwaysAttack{})
	player := Combatant{Level: 1, HP: 100, MaxHP: 100, Attack: 100, Defense: 10}
	opp := Combatant{Level: 3, HP: 10, MaxHP: 10, Attack: 5, Defense: 1}

	res := sim.Simulate(player, opp, fixedRand{0.5})
	if res.Outcome != domain.OutcomeWin || len(res.Rounds) != 1 {
		t.Fatalf("expected one-round win, got %s in %d", res.Outcome, len(res.Rounds))
	}
	if res.Exp != 25 || res.Currency != 11 {
		t.Fatalf("reward = %d exp, %d coins; want 25, 11", res.Exp, res.Currency)
	}

	res = sim.Simulate(opp, player, fixedRand{0.5})
	if res.Outcome != domain.OutcomeLoss || res.Exp != 0 || res.Currency != 0 {
		t.Fatalf("loss must not reward: %+v", res)
	}
}

func TestDamage(t *testing.T) {
	c := defaultCalc()
	att := Combatant{Attack: 40}
	def := Combatant{Defense: 20}
	cases := []struct {
		atk, def Action
		want     int
	}{
		{ActionAttack, ActionAttack, 30},
		{ActionAttack, ActionDefend, 20},
		{ActionSpecial, ActionAttack, 50},
		{ActionDefend, ActionAttack, 10},
	}
	for _, tc := range cases {
		if got := c.Damage(att, def, tc.atk, tc.def, 0.5); got != tc.want {
			t.Fatalf("Damage(%s vs %s) = %d; want %d", tc.atk, tc.def, got, tc.want)
		}
	}
	if got := c.Damage(Combatant{Attack: 1}, Combatant{Defense: 500}, ActionAttack, ActionDefend, 0); got != 1 {
		t.Fatalf("damage floor = %d; want 1", got)
	}
}

func TestHeuristicPolicy(t *testing.T) {
	p := DefaultHeuristic()
	low := Combatant{HP: 2, MaxHP: 10}
	full := Combatant{HP: 10, MaxHP: 10}
	cases := []struct {
		name  string
		self  Combatant
		rolls []float64
		want  Action
		used  int
	}{
		{"low defends", low, []float64{0.1}, ActionDefend, 1},
		{"low specials", low, []float64{0.9, 0.1}, ActionSpecial, 2},
		{"low attacks", low, []float64{0.9, 0.9}, ActionAttack, 2},
		{"full specials", full, []float64{0.1}, ActionSpecial, 1},
		{"full attacks", full, []float64{0.5}, ActionAttack, 1},
	}
	for _, tc := range cases {
		rng := &seqRand{rolls: tc.rolls}
		if got := p.Choose(tc.self, Combatant{}, rng); got != tc.want {
			t.Fatalf("%s: got %s; want %s", tc.name, got, tc.want)
		}
		if rng.i != tc.used {
			t.Fatalf("%s: consumed %d rolls; want %d", tc.name, rng.i, tc.used)
		}
	}
}

type scriptedPolicy struct{ calls int }

func (p *scriptedPolicy) Choose(Combatant, Combatant, Rand) Action {
	p.calls++
	return ActionDefend
}

func TestInjectedPolicy(t *testing.T) {
	c := defaultCalc()
	pol := &scriptedPolicy{}
	sim := c.NewSimulator(AlwaysAttack{}, pol)
	res := sim.Simulate(
		Combatant{HP: 100, MaxHP: 100, Attack: 60, Defense: 10},
		Combatant{HP: 100, MaxHP: 100, Attack: 10, Defense: 10},
		fixedRand{0.5},
	)
	if pol.calls != len(res.Rounds) {
		t.Fatalf("policy called %d times for %d rounds", pol.calls, len(res.Rounds))
	}
	for _, r := range res.Rounds {
		if r.OpponentAction != ActionDefend {
			t.Fatalf("opponent action = %s", r.OpponentAction)
		}
	}
}

func TestSimulateBounds(t *testing.T) {
	c := defaultCalc()
	sim := c.NewSimulator(DefaultHeuristic(), DefaultHeuristic())
	for seed := int64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := Combatant{Level: 1 + rng.Intn(10), HP: 20 + rng.Intn(200), Attack: 5 + rng.Intn(80), Defense: rng.Intn(80)}
		p.MaxHP = p.HP
		o := Combatant{Level: 1 + rng.Intn(10), HP: 20 + rng.Intn(200), Attack: 5 + rng.Intn(80), Defense: rng.Intn(80)}
		o.MaxHP = o.HP

		res := sim.Simulate(p, o, rng)
		if len(res.Rounds) == 0 || len(res.Rounds) > 20 {
			t.Fatalf("seed %d: %d rounds", seed, len(res.Rounds))
		}
		for _, r := range res.Rounds {
			if r.PlayerHP < 0 || r.OpponentHP < 0 {
				t.Fatalf("seed %d: negative hp %+v", seed, r)
			}
			if r.PlayerDamage < 1 || r.OpponentDamage < 1 {
				t.Fatalf("seed %d: damage below 1 %+v", seed, r)
			}
		}
		if res.Outcome != domain.OutcomeWin && (res.Exp != 0 || res.Currency != 0) {
			t.Fatalf("seed %d: reward without win", seed)
		}
	}
}

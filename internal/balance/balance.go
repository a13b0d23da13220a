// Package balance holds the game-balance tables every formula reads from.
package balance

import (
	"chiblets_lite/internal/domain"
)

// RarityStats groups every per-tier constant.
type RarityStats struct {
	BasePower      int64         `yaml:"base_power" json:"base_power"`
	PowerScaling   float64       `yaml:"power_scaling" json:"power_scaling"`
	BaseIncome     int64         `yaml:"base_income" json:"base_income"`
	IncomeScaling  float64       `yaml:"income_scaling" json:"income_scaling"`
	EnergyCapacity int           `yaml:"energy_capacity" json:"energy_capacity"`
	RegenHours     float64       `yaml:"regen_hours" json:"regen_hours"`
	FusionTarget   domain.Rarity `yaml:"fusion_target" json:"fusion_target,omitempty"`
	FusionCost     int64         `yaml:"fusion_cost" json:"fusion_cost,omitempty"`
}

type StageCurve struct {
	BaseMonsterPower int64   `yaml:"base_monster_power" json:"base_monster_power"`
	MonsterScaling   float64 `yaml:"monster_scaling" json:"monster_scaling"`
	BaseReward       int64   `yaml:"base_reward" json:"base_reward"`
	RewardScaling    float64 `yaml:"reward_scaling" json:"reward_scaling"`
	MonsterAttack    float64 `yaml:"monster_attack" json:"monster_attack"`
	StagesPerArea    int     `yaml:"stages_per_area" json:"stages_per_area"`
	ExpShare         float64 `yaml:"exp_share" json:"exp_share"`
}

type Limits struct {
	MaxTeamSize int `yaml:"max_team_size" json:"max_team_size"`
	MaxChiblets int `yaml:"max_chiblets" json:"max_chiblets"`
	MaxStage    int `yaml:"max_stage" json:"max_stage"`
	MaxLevel    int `yaml:"max_level" json:"max_level"`
}

type Leveling struct {
	ExpBase    int64   `yaml:"exp_base" json:"exp_base"`
	StatGrowth float64 `yaml:"stat_growth" json:"stat_growth"`
	// FusedDefense is the defense share of power for chiblets built from power.
	FusedDefense float64 `yaml:"fused_defense" json:"fused_defense"`
}

type PvP struct {
	MaxRounds          int     `yaml:"max_rounds" json:"max_rounds"`
	RandomMin          float64 `yaml:"random_min" json:"random_min"`
	RandomSpread       float64 `yaml:"random_spread" json:"random_spread"`
	DefenseFactor      float64 `yaml:"defense_factor" json:"defense_factor"`
	DefendBonus        float64 `yaml:"defend_bonus" json:"defend_bonus"`
	AttackMultiplier   float64 `yaml:"attack_multiplier" json:"attack_multiplier"`
	DefendMultiplier   float64 `yaml:"defend_multiplier" json:"defend_multiplier"`
	SpecialMultiplier  float64 `yaml:"special_multiplier" json:"special_multiplier"`
	EnergyCost         int     `yaml:"energy_cost" json:"energy_cost"`
	RewardExpBase      int64   `yaml:"reward_exp_base" json:"reward_exp_base"`
	RewardExpPerLevel  int64   `yaml:"reward_exp_per_level" json:"reward_exp_per_level"`
	RewardCoinBase     int64   `yaml:"reward_coin_base" json:"reward_coin_base"`
	RewardCoinPerLevel int64   `yaml:"reward_coin_per_level" json:"reward_coin_per_level"`
	LevelWindow        int     `yaml:"level_window" json:"level_window"`
	Candidates         int     `yaml:"candidates" json:"candidates"`
}

type Idle struct {
	OfflineEfficiency float64 `yaml:"offline_efficiency" json:"offline_efficiency"`
	MaxIdleStages     int     `yaml:"max_idle_stages" json:"max_idle_stages"`
	MaxOfflineHours   float64 `yaml:"max_offline_hours" json:"max_offline_hours"`
	MinOfflineHours   float64 `yaml:"min_offline_hours" json:"min_offline_hours"`
}

type Spin struct {
	DailyLimit int                `yaml:"daily_limit" json:"daily_limit"`
	Wheel      []domain.WheelSlot `yaml:"wheel" json:"wheel"`
}

// Starter is what a newly registered player receives.
type Starter struct {
	Wchibi int64         `yaml:"wchibi" json:"wchibi"`
	Gems   int64         `yaml:"gems" json:"gems"`
	Rarity domain.Rarity `yaml:"rarity" json:"rarity"`
}

// Tables is the complete balance configuration.
type Tables struct {
	Rarities map[domain.Rarity]RarityStats `yaml:"rarities" json:"rarities"`
	Stage    StageCurve                    `yaml:"stage" json:"stage"`
	Limits   Limits                        `yaml:"limits" json:"limits"`
	Leveling Leveling                      `yaml:"leveling" json:"leveling"`
	PvP      PvP                           `yaml:"pvp" json:"pvp"`
	Idle     Idle                          `yaml:"idle" json:"idle"`
	Spin     Spin                          `yaml:"spin" json:"spin"`
	Starter  Starter                       `yaml:"starter" json:"starter"`
}

// Default returns the shipped balance.
func Default() *Tables {
	return &Tables{
		Rarities: map[domain.Rarity]RarityStats{
			domain.RarityCommon: {
				BasePower: 10, PowerScaling: 1.15,
				BaseIncome: 1, IncomeScaling: 1.10,
				EnergyCapacity: 3, RegenHours: 2,
				FusionTarget: domain.RarityRare, FusionCost: 100,
			},
			domain.RarityRare: {
				BasePower: 25, PowerScaling: 1.18,
				BaseIncome: 3, IncomeScaling: 1.12,
				EnergyCapacity: 4, RegenHours: 3,
				FusionTarget: domain.RarityEpic, FusionCost: 500,
			},
			domain.RarityEpic: {
				BasePower: 60, PowerScaling: 1.22,
				BaseIncome: 8, IncomeScaling: 1.15,
				EnergyCapacity: 6, RegenHours: 4,
				FusionTarget: domain.RarityLegendary, FusionCost: 2000,
			},
			domain.RarityLegendary: {
				BasePower: 150, PowerScaling: 1.25,
				BaseIncome: 20, IncomeScaling: 1.18,
				EnergyCapacity: 8, RegenHours: 6,
			},
		},
		Stage: StageCurve{
			BaseMonsterPower: 1000,
			MonsterScaling:   1.5,
			BaseReward:       50,
			RewardScaling:    1.3,
			MonsterAttack:    0.8,
			StagesPerArea:    10,
			ExpShare:         0.5,
		},
		Limits: Limits{
			MaxTeamSize: 5,
			MaxChiblets: 50,
			MaxStage:    1000,
			MaxLevel:    10,
		},
		Leveling: Leveling{
			ExpBase:      100,
			StatGrowth:   0.2,
			FusedDefense: 0.8,
		},
		PvP: PvP{
			MaxRounds:          20,
			RandomMin:          0.8,
			RandomSpread:       0.4,
			DefenseFactor:      0.5,
			DefendBonus:        2,
			AttackMultiplier:   1.0,
			DefendMultiplier:   0.5,
			SpecialMultiplier:  1.5,
			EnergyCost:         1,
			RewardExpBase:      10,
			RewardExpPerLevel:  5,
			RewardCoinBase:     5,
			RewardCoinPerLevel: 2,
			LevelWindow:        2,
			Candidates:         10,
		},
		Idle: Idle{
			OfflineEfficiency: 0.7,
			MaxIdleStages:     100,
			MaxOfflineHours:   24,
			MinOfflineHours:   0.5,
		},
		Spin: Spin{
			DailyLimit: 3,
			Wheel: []domain.WheelSlot{
				{ID: 1, Reward: domain.Reward{Type: domain.RewardWchibi, Amount: 25}, Weight: 30},
				{ID: 2, Reward: domain.Reward{Type: domain.RewardChiblet, Rarity: domain.RarityCommon}, Weight: 20},
				{ID: 3, Reward: domain.Reward{Type: domain.RewardWchibi, Amount: 100}, Weight: 15},
				{ID: 4, Reward: domain.Reward{Type: domain.RewardChiblet, Rarity: domain.RarityRare}, Weight: 10},
				{ID: 5, Reward: domain.Reward{Type: domain.RewardWchibi, Amount: 50}, Weight: 20},
				{ID: 6, Reward: domain.Reward{Type: domain.RewardChiblet, Rarity: domain.RarityEpic}, Weight: 5},
			},
		},
		Starter: Starter{Wchibi: 1000, Gems: 50, Rarity: domain.RarityCommon},
	}
}

// Rarity returns the stats for r and whether r is known.
func (t *Tables) Rarity(r domain.Rarity) (RarityStats, bool) {
	s, ok := t.Rarities[r]
	return s, ok
}

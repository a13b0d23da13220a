package balance

import (
	"errors"
	"fmt"
	"os"

	"chiblets_lite/internal/domain"

	"gopkg.in/yaml.v3"
)

var ErrInvalidTables = errors.New("invalid balance tables")

// LoadFile reads a YAML override on top of Default. Sections missing from
// the file keep their defaults; a rarity entry present in the file replaces
// the whole entry for that tier, and a wheel list replaces the whole wheel.
func LoadFile(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance file: %w", err)
	}
	return Parse(raw)
}

// Parse is LoadFile without the filesystem.
func Parse(raw []byte) (*Tables, error) {
	t := Default()
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("parse balance file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate rejects tables the formulas cannot work with.
func (t *Tables) Validate() error {
	for _, r := range domain.Rarities {
		s, ok := t.Rarities[r]
		if !ok {
			return fmt.Errorf("%w: missing rarity %q", ErrInvalidTables, r)
		}
		if s.BasePower <= 0 || s.PowerScaling < 1 {
			return fmt.Errorf("%w: %s power curve", ErrInvalidTables, r)
		}
		if s.EnergyCapacity <= 0 || s.RegenHours <= 0 {
			return fmt.Errorf("%w: %s energy", ErrInvalidTables, r)
		}
		if s.FusionTarget != "" {
			if !s.FusionTarget.Valid() || s.FusionCost < 0 {
				return fmt.Errorf("%w: %s fusion", ErrInvalidTables, r)
			}
		}
	}
	if t.Stage.BaseMonsterPower <= 0 || t.Stage.MonsterScaling < 1 {
		return fmt.Errorf("%w: stage curve", ErrInvalidTables)
	}
	if t.Limits.MaxLevel < 1 || t.Limits.MaxTeamSize < 1 {
		return fmt.Errorf("%w: limits", ErrInvalidTables)
	}
	if t.PvP.MaxRounds < 1 {
		return fmt.Errorf("%w: pvp rounds", ErrInvalidTables)
	}
	if !t.Starter.Rarity.Valid() || t.Starter.Wchibi < 0 || t.Starter.Gems < 0 {
		return fmt.Errorf("%w: starter", ErrInvalidTables)
	}
	if len(t.Spin.Wheel) == 0 {
		return fmt.Errorf("%w: empty wheel", ErrInvalidTables)
	}
	for _, slot := range t.Spin.Wheel {
		if slot.Weight <= 0 {
			return fmt.Errorf("%w: wheel slot %d weight", ErrInvalidTables, slot.ID)
		}
		switch slot.Reward.Type {
		case domain.RewardWchibi:
		case domain.RewardChiblet:
			if !slot.Reward.Rarity.Valid() {
				return fmt.Errorf("%w: wheel slot %d rarity", ErrInvalidTables, slot.ID)
			}
		default:
			return fmt.Errorf("%w: wheel slot %d reward type", ErrInvalidTables, slot.ID)
		}
	}
	return nil
}

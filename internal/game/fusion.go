package game

import (
	"time"

	"chiblets_lite/internal/domain"
)

type FusionPlan struct {
	SourceIDs [2]int64      `json:"source_ids"`
	From      domain.Rarity `json:"from"`
	To        domain.Rarity `json:"to"`
	Cost      int64         `json:"cost"`
	Level     int           `json:"level"`
}

// PlanFusion checks that a and b can be fused by a user holding balance.
func (c Calc) PlanFusion(a, b domain.Chiblet, balance int64) (FusionPlan, error) {
	if a.ID == b.ID {
		return FusionPlan{}, ErrSameChiblet
	}
	if a.UserID != b.UserID {
		return FusionPlan{}, ErrNotOwner
	}
	if !a.Rarity.Valid() || !b.Rarity.Valid() {
		return FusionPlan{}, ErrUnknownRarity
	}
	if a.Rarity != b.Rarity {
		return FusionPlan{}, ErrRarityMismatch
	}
	to, cost, ok := c.FusionRule(a.Rarity)
	if !ok {
		return FusionPlan{}, ErrCannotFuseTopTier
	}
	if balance < cost {
		return FusionPlan{}, ErrInsufficientFunds
	}
	return FusionPlan{
		SourceIDs: [2]int64{a.ID, b.ID},
		From:      a.Rarity,
		To:        to,
		Cost:      cost,
		Level:     max(a.Level, b.Level),
	}, nil
}

// FusedChiblet materializes plan for species sp, which must be of plan.To.
func (c Calc) FusedChiblet(plan FusionPlan, userID int64, sp domain.Species, now time.Time) domain.Chiblet {
	return c.PoweredChiblet(userID, sp, plan.Level, now)
}

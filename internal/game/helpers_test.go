package game

import (
	"time"

	"chiblets_lite/internal/balance"
	"chiblets_lite/internal/domain"
)

// fixedRand returns the same roll forever.
type fixedRand struct{ f float64 }

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(int) int     { return 0 }

// seqRand replays rolls in order and then repeats the last one.
type seqRand struct {
	rolls []float64
	i     int
}

func (r *seqRand) Float64() float64 {
	if len(r.rolls) == 0 {
		return 0
	}
	if r.i >= len(r.rolls) {
		return r.rolls[len(r.rolls)-1]
	}
	v := r.rolls[r.i]
	r.i++
	return v
}

func (r *seqRand) Intn(int) int { return 0 }

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func defaultCalc() Calc { return NewCalc(balance.Default()) }

func flamePup() domain.Species {
	return domain.Species{ID: 1, Name: "Flame Pup", Type: domain.ElementFire, Rarity: domain.RarityCommon, BaseHP: 50, BaseAttack: 35, BaseDefense: 25}
}

func member(id int64, r domain.Rarity, level, energy int) domain.Chiblet {
	return domain.Chiblet{ID: id, UserID: 1, Rarity: r, Level: level, Energy: energy, EnergyUpdatedAt: t0}
}

package game

import (
	"chiblets_lite/internal/domain"
)

// Wheel is the weighted daily reward wheel.
type Wheel struct {
	Slots []domain.WheelSlot `json:"slots"`
}

// NewWheel uses the wheel from the balance tables.
func (c Calc) NewWheel() Wheel {
	return Wheel{Slots: c.t.Spin.Wheel}
}

func (w Wheel) TotalWeight() int {
	total := 0
	for _, s := range w.Slots {
		total += s.Weight
	}
	return total
}

// Draw picks a slot with probability weight/total. It falls back to the
// first slot if the walk runs off the end.
func (w Wheel) Draw(rng Rand) domain.WheelSlot {
	if len(w.Slots) == 0 {
		return domain.WheelSlot{}
	}
	remaining := rng.Float64() * float64(w.TotalWeight())
	for _, s := range w.Slots {
		remaining -= float64(s.Weight)
		if remaining <= 0 {
			return s
		}
	}
	return w.Slots[0]
}

// Probabilities maps slot id to its chance of being drawn.
func (w Wheel) Probabilities() map[int]float64 {
	total := float64(w.TotalWeight())
	res := make(map[int]float64, len(w.Slots))
	if total == 0 {
		return res
	}
	for _, s := range w.Slots {
		res[s.ID] += float64(s.Weight) / total
	}
	return res
}

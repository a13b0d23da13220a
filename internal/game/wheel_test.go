package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestWheelDistribution(t *testing.T) {
	w := defaultCalc().NewWheel()
	if w.TotalWeight() != 100 {
		t.Fatalf("total weight = %d", w.TotalWeight())
	}
	rng := rand.New(rand.NewSource(42))
	const draws = 100000
	counts := map[int]int{}
	for i := 0; i < draws; i++ {
		counts[w.Draw(rng).ID]++
	}
	for id, p := range w.Probabilities() {
		got := float64(counts[id]) / draws
		if math.Abs(got-p) > 0.01 {
			t.Fatalf("slot %d drawn %.4f; want %.4f", id, got, p)
		}
	}
}

func TestWheelEdges(t *testing.T) {
	w := defaultCalc().NewWheel()
	if got := w.Draw(fixedRand{0}); got.ID != 1 {
		t.Fatalf("roll 0 = slot %d; want 1", got.ID)
	}
	if got := w.Draw(fixedRand{0.999999}); got.ID != 6 {
		t.Fatalf("top roll = slot %d; want 6", got.ID)
	}
	if got := w.Draw(fixedRand{0.35}); got.ID != 2 {
		t.Fatalf("roll 0.35 = slot %d; want 2", got.ID)
	}
	if got := (Wheel{}).Draw(fixedRand{0.5}); got.ID != 0 {
		t.Fatalf("empty wheel should return zero slot")
	}
}

func TestWheelProbabilitiesSumToOne(t *testing.T) {
	total := 0.0
	for _, p := range defaultCalc().NewWheel().Probabilities() {
		total += p
	}
	if math.Abs(total-1) > 1e-9 {
		t.Fatalf("sum = %v", total)
	}
}

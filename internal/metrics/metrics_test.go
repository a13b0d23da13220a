package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBattleCounterGathered(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(Battles)
	Battles.WithLabelValues("pve", "win").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "chiblets_battles_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter().GetValue() >= 1 {
				return
			}
		}
	}
	t.Fatalf("chiblets_battles_total not gathered")
}

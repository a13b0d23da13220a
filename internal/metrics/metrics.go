// Package metrics holds the Prometheus counters for game events.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Battles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chiblets_battles_total",
			Help: "Settled battles by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	Spins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chiblets_spins_total",
			Help: "Reward wheel spins by reward type",
		},
		[]string{"reward"},
	)
	Fusions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chiblets_fusions_total",
			Help: "Fusions by resulting rarity",
		},
		[]string{"rarity"},
	)
	LevelUps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chiblets_level_ups_total",
		Help: "Chiblet level ups",
	})
	IdleClaims = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chiblets_idle_claims_total",
		Help: "Offline reward claims that granted progress",
	})
	Currency = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chiblets_wchibi_total",
			Help: "wCHIBI moved through the ledger by entry type",
		},
		[]string{"type"},
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chiblets_logins_total",
			Help: "Successful logins, split by new and returning players",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(Battles, Spins, Fusions, LevelUps, IdleClaims, Currency, Logins)
}

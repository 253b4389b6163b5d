package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarketMetrics holds all Prometheus metrics for the market module
type MarketMetrics struct {
	MarketsCreated prometheus.Counter
	MarketsSettled prometheus.Counter
	BetsSubmitted  prometheus.Counter
	BetsEvaluated  prometheus.Counter
	PrizesClaimed  prometheus.Counter
	ClaimsRejected prometheus.Counter
	StakeEscrowed  prometheus.Counter
	StakePaidOut   prometheus.Counter
}

var (
	marketMetricsOnce sync.Once
	marketMetrics     *MarketMetrics
)

// NewMarketMetrics creates and registers market metrics (singleton pattern)
func NewMarketMetrics() *MarketMetrics {
	marketMetricsOnce.Do(func() {
		marketMetrics = &MarketMetrics{
			MarketsCreated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "markets_created_total",
				Help:      "Total markets created",
			}),
			MarketsSettled: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "markets_settled_total",
				Help:      "Total markets settled",
			}),
			BetsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "bets_submitted_total",
				Help:      "Total bets submitted",
			}),
			BetsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "bets_evaluated_total",
				Help:      "Total bets evaluated",
			}),
			PrizesClaimed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "prizes_claimed_total",
				Help:      "Total prizes claimed",
			}),
			ClaimsRejected: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "claims_rejected_total",
				Help:      "Total prize claims rejected for invalid proofs",
			}),
			StakeEscrowed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "stake_escrowed_total",
				Help:      "Total stake escrowed into market vaults",
			}),
			StakePaidOut: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "market",
				Name:      "stake_paid_out_total",
				Help:      "Total stake paid out to winners",
			}),
		}
	})
	return marketMetrics
}

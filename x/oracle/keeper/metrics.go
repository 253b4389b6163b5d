package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OracleMetrics holds all Prometheus metrics for the oracle module
type OracleMetrics struct {
	PricesPosted        *prometheus.CounterVec
	StaleReads          *prometheus.CounterVec
	RejectedSubmissions *prometheus.CounterVec
}

var (
	oracleMetricsOnce sync.Once
	oracleMetrics     *OracleMetrics
)

// NewOracleMetrics creates and registers oracle metrics (singleton pattern)
func NewOracleMetrics() *OracleMetrics {
	oracleMetricsOnce.Do(func() {
		oracleMetrics = &OracleMetrics{
			PricesPosted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "oracle",
					Name:      "prices_posted_total",
					Help:      "Total prices posted per asset",
				},
				[]string{"asset"},
			),
			StaleReads: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "oracle",
					Name:      "stale_reads_total",
					Help:      "Total price reads rejected for staleness",
				},
				[]string{"asset"},
			),
			RejectedSubmissions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "oracle",
					Name:      "rejected_submissions_total",
					Help:      "Total price submissions rejected",
				},
				[]string{"reason"},
			),
		}
	})
	return oracleMetrics
}

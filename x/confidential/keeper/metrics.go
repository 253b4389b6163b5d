package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfidentialMetrics holds all Prometheus metrics for the confidential module
type ConfidentialMetrics struct {
	CiphertextsImported prometheus.Counter
	ValuesSealed        prometheus.Counter
	RangesEvaluated     prometheus.Counter
	DecryptionGrants    prometheus.Counter
	ProofsVerified      prometheus.Counter
	InvalidProofs       prometheus.Counter
}

var (
	confidentialMetricsOnce sync.Once
	confidentialMetrics     *ConfidentialMetrics
)

// NewConfidentialMetrics creates and registers confidential metrics (singleton pattern)
func NewConfidentialMetrics() *ConfidentialMetrics {
	confidentialMetricsOnce.Do(func() {
		confidentialMetrics = &ConfidentialMetrics{
			CiphertextsImported: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "confidential",
				Name:      "ciphertexts_imported_total",
				Help:      "Total ciphertexts imported from transaction submitters",
			}),
			ValuesSealed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "confidential",
				Name:      "values_sealed_total",
				Help:      "Total trusted plaintexts sealed by the chain",
			}),
			RangesEvaluated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "confidential",
				Name:      "ranges_evaluated_total",
				Help:      "Total sealed range predicates evaluated",
			}),
			DecryptionGrants: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "confidential",
				Name:      "decryption_grants_total",
				Help:      "Total decryption allowances granted",
			}),
			ProofsVerified: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "confidential",
				Name:      "proofs_verified_total",
				Help:      "Total reveal attestations verified",
			}),
			InvalidProofs: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "veil",
				Subsystem: "confidential",
				Name:      "invalid_proofs_total",
				Help:      "Total reveal attestations rejected",
			}),
		}
	})
	return confidentialMetrics
}

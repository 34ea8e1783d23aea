package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

var (
	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebanking_payments_total",
			Help: "Bill and merchant payments by provider type and outcome",
		},
		[]string{"type", "status"},
	)

	paymentVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebanking_payment_volume_gnf_total",
			Help: "Settled payment amounts in GNF, fees included",
		},
		[]string{"type"},
	)

	provisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebanking_funds_provisions_total",
			Help: "Funds provisions by outcome",
		},
		[]string{"status"},
	)

	investmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebanking_investments_total",
			Help: "Investment subscriptions by product",
		},
		[]string{"product"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ebanking_operation_duration_seconds",
			Help:    "Duration of use case operations",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"operation"},
	)
)

// outcome labels a finished operation for the counters above.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case domain.IsBusiness(err):
		return "rejected"
	default:
		return "failed"
	}
}

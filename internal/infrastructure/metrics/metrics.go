package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CreditMetrics covers the ledger, the generation orchestrator and payment settlement.
type CreditMetrics struct {
	// Ledger
	LedgerOperationsTotal *prometheus.CounterVec
	LedgerCreditsTotal    *prometheus.CounterVec

	// Generation tasks
	GenerationSubmittedTotal *prometheus.CounterVec
	GenerationFinishedTotal  *prometheus.CounterVec
	GenerationRefundsTotal   prometheus.Counter
	GenerationDuration       *prometheus.HistogramVec
	VendorErrorsTotal        *prometheus.CounterVec

	// Payment orders
	PaymentOrdersOpenedTotal  *prometheus.CounterVec
	PaymentSettlementsTotal   *prometheus.CounterVec
	PaymentAmountSettledTotal *prometheus.CounterVec
	PaymentSettleDuration     prometheus.Histogram
}

// NewCreditMetrics registers all collectors on reg.
func NewCreditMetrics(reg prometheus.Registerer) *CreditMetrics {
	factory := promauto.With(reg)

	return &CreditMetrics{
		LedgerOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_ledger_operations_total",
				Help: "Ledger operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		LedgerCreditsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_ledger_credits_total",
				Help: "Credits moved by the ledger",
			},
			[]string{"operation", "reason"},
		),

		GenerationSubmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_submitted_total",
				Help: "Generation submissions by outcome",
			},
			[]string{"outcome"},
		),
		GenerationFinishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_finished_total",
				Help: "Generation tasks reaching a terminal status",
			},
			[]string{"status"},
		),
		GenerationRefundsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "generation_refunds_total",
				Help: "Compensating credits issued for failed generations",
			},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "generation_duration_seconds",
				Help:    "Time from submission to terminal status",
				Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"status"},
		),
		VendorErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_vendor_errors_total",
				Help: "Generation vendor call failures",
			},
			[]string{"call"},
		),

		PaymentOrdersOpenedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_opened_total",
				Help: "Payment orders opened",
			},
			[]string{"payment_type"},
		),
		PaymentSettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_settlements_total",
				Help: "Webhook settlement outcomes",
			},
			[]string{"outcome"},
		),
		PaymentAmountSettledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_amount_settled_total",
				Help: "Settled payment amount",
			},
			[]string{"payment_type"},
		),
		PaymentSettleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "payment_settle_duration_seconds",
				Help:    "Time from order creation to settlement",
				Buckets: []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
			},
		),
	}
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreditMetrics_IndependentRegistries(t *testing.T) {
	first := NewCreditMetrics(prometheus.NewRegistry())
	second := NewCreditMetrics(prometheus.NewRegistry())

	first.GenerationRefundsTotal.Inc()
	first.PaymentSettlementsTotal.WithLabelValues("applied").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.GenerationRefundsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.GenerationRefundsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(first.PaymentSettlementsTotal.WithLabelValues("applied")))
}

func TestNewCreditMetrics_Gathers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCreditMetrics(reg)
	m.LedgerOperationsTotal.WithLabelValues("debit", "ok").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "credit_ledger_operations_total")
}

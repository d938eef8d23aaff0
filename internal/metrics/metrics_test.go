package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.RecordGiftCardIssued(10000)
	m.RecordGiftCardIssued(2500)
	m.RecordGiftCardRedeemed(3000)
	m.RecordGiftCardRetired(RetiredDepleted)
	m.RecordEntry("cash", 1200)
	m.RecordHTTPRequest("GET", "/api/staff", 200, 0.004)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GiftCardsIssuedTotal))
	assert.Equal(t, 12500.0, testutil.ToFloat64(m.GiftCardIssuedCentsTotal))
	assert.Equal(t, 3000.0, testutil.ToFloat64(m.GiftCardRedeemedCentsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GiftCardsRetiredTotal.WithLabelValues(RetiredDepleted)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GiftCardsRetiredTotal.WithLabelValues(RetiredDeleted)))
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.EntriesRecordedCentsTotal.WithLabelValues("cash")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/staff", "200")))
}

func TestLedgerMetrics_NilIsNoop(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.RecordGiftCardIssued(1)
		m.RecordGiftCardRedeemed(1)
		m.RecordGiftCardRetired(RetiredDeleted)
		m.RecordEntry("card", 1)
		m.RecordHTTPRequest("GET", "/", 200, 0)
	})
}

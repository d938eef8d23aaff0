package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a gift card leaves the ledger
const (
	RetiredDepleted = "depleted"
	RetiredDeleted  = "deleted"
)

// LedgerMetrics holds the counters for money-moving operations and HTTP traffic
type LedgerMetrics struct {
	// Gift cards
	GiftCardsIssuedTotal       prometheus.Counter
	GiftCardIssuedCentsTotal   prometheus.Counter
	GiftCardRedeemedCentsTotal prometheus.Counter
	GiftCardsRetiredTotal      *prometheus.CounterVec

	// Entries
	EntriesRecordedTotal      *prometheus.CounterVec
	EntriesRecordedCentsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewLedgerMetrics registers the ledger metrics on reg
// (prometheus.DefaultRegisterer in the server, a fresh registry in tests)
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	factory := promauto.With(reg)

	return &LedgerMetrics{
		GiftCardsIssuedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gift_cards_issued_total",
				Help: "Number of gift cards issued",
			},
		),

		GiftCardIssuedCentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gift_card_issued_cents_total",
				Help: "Stored value loaded onto new gift cards, in cents",
			},
		),

		GiftCardRedeemedCentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gift_card_redeemed_cents_total",
				Help: "Gift card value redeemed, in cents",
			},
		),

		GiftCardsRetiredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gift_cards_retired_total",
				Help: "Gift cards removed from the ledger",
			},
			[]string{"reason"},
		),

		EntriesRecordedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entries_recorded_total",
				Help: "Revenue entries recorded",
			},
			[]string{"payment_method"},
		),

		EntriesRecordedCentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entries_recorded_cents_total",
				Help: "Revenue recorded, in cents",
			},
			[]string{"payment_method"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
			},
			[]string{"method", "route"},
		),
	}
}

// RecordGiftCardIssued records a new gift card and its loaded value
func (m *LedgerMetrics) RecordGiftCardIssued(amountCents int64) {
	if m == nil {
		return
	}
	m.GiftCardsIssuedTotal.Inc()
	m.GiftCardIssuedCentsTotal.Add(float64(amountCents))
}

// RecordGiftCardRedeemed records value taken off a gift card
func (m *LedgerMetrics) RecordGiftCardRedeemed(amountCents int64) {
	if m == nil {
		return
	}
	m.GiftCardRedeemedCentsTotal.Add(float64(amountCents))
}

// RecordGiftCardRetired records a gift card removed by depletion or deletion
func (m *LedgerMetrics) RecordGiftCardRetired(reason string) {
	if m == nil {
		return
	}
	m.GiftCardsRetiredTotal.WithLabelValues(reason).Inc()
}

// RecordEntry records a new revenue entry
func (m *LedgerMetrics) RecordEntry(paymentMethod string, amountCents int64) {
	if m == nil {
		return
	}
	m.EntriesRecordedTotal.WithLabelValues(paymentMethod).Inc()
	m.EntriesRecordedCentsTotal.WithLabelValues(paymentMethod).Add(float64(amountCents))
}

// RecordHTTPRequest records one served request
func (m *LedgerMetrics) RecordHTTPRequest(method, route string, status int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rentvault-backend/internal/domain"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentvault_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentvault_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	BookingTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentvault_booking_transitions_total",
		Help: "Booking state transitions applied, labeled by target state",
	}, []string{"to"})
)

// BalancesSource supplies the current ledger snapshot for the gauge
// collectors.
type BalancesSource func(ctx context.Context) (*domain.LedgerBalances, error)

// RegisterLedgerGauges exposes the pooled balances as gauges read on
// scrape, so the metrics never drift from the ledger.
func RegisterLedgerGauges(source BalancesSource) {
	read := func(pick func(*domain.LedgerBalances) int64) func() float64 {
		return func() float64 {
			b, err := source(context.Background())
			if err != nil {
				return 0
			}
			return float64(pick(b))
		}
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rentvault_insurance_pool",
		Help: "Current insurance pool balance",
	}, read(func(b *domain.LedgerBalances) int64 { return b.InsurancePool }))

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rentvault_platform_fees_accrued",
		Help: "Platform fees accrued and not yet swept",
	}, read(func(b *domain.LedgerBalances) int64 { return b.PlatformFeesAccrued }))

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rentvault_held_rental",
		Help: "Rental amounts held for live bookings",
	}, read(func(b *domain.LedgerBalances) int64 { return b.HeldRental }))

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rentvault_total_withdrawn",
		Help: "Cumulative funds released to the outside",
	}, read(func(b *domain.LedgerBalances) int64 { return b.TotalWithdrawn }))
}

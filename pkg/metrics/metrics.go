package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BookingMetrics counts booking submissions and what each notification channel did with them.
type BookingMetrics struct {
	bookingsTotal  *prometheus.CounterVec
	channelTotal   *prometheus.CounterVec
	refreshTotal   *prometheus.CounterVec
	channelLatency *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "branch_locator",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		channelTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "branch_locator",
			Subsystem: "notify",
			Name:      "channel_total",
			Help:      "Notification channel results",
		}, []string{"channel", "status"}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "branch_locator",
			Subsystem: "zalo",
			Name:      "token_refresh_total",
			Help:      "Chat token refresh attempts",
		}, []string{"status"}),
		channelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "branch_locator",
			Subsystem: "notify",
			Name:      "channel_latency_seconds",
			Help:      "Latency of a notification channel",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.channelTotal, m.refreshTotal, m.channelLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveChannel records one channel outcome: success, failed or skipped.
func (m *BookingMetrics) ObserveChannel(channel, status string, seconds float64) {
	if m == nil {
		return
	}
	m.channelTotal.WithLabelValues(channel, status).Inc()
	m.channelLatency.WithLabelValues(channel).Observe(seconds)
}

func (m *BookingMetrics) ObserveRefresh(status string) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

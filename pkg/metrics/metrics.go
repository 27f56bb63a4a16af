package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ServiceMetrics records the caption pipeline's operational counters.
type ServiceMetrics struct {
	captionsGenerated prometheus.Counter
	quotaDenied       *prometheus.CounterVec
	stripeEvents      *prometheus.CounterVec
	notifyFailures    *prometheus.CounterVec
}

// NewServiceMetrics registers the service metrics on the provided registerer.
func NewServiceMetrics(reg prometheus.Registerer) *ServiceMetrics {
	if reg == nil {
		return &ServiceMetrics{}
	}
	captionsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "captions_generated_total",
		Help: "Caption sets generated and delivered.",
	})
	quotaDenied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_denied_total",
		Help: "Caption requests denied by the quota ledger.",
	}, []string{"reason"})
	stripeEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stripe_events_total",
		Help: "Stripe webhook events processed.",
	}, []string{"type"})
	notifyFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_failures_total",
		Help: "Best-effort notification deliveries that failed.",
	}, []string{"channel"})
	reg.MustRegister(captionsGenerated, quotaDenied, stripeEvents, notifyFailures)
	return &ServiceMetrics{
		captionsGenerated: captionsGenerated,
		quotaDenied:       quotaDenied,
		stripeEvents:      stripeEvents,
		notifyFailures:    notifyFailures,
	}
}

// IncCaptionsGenerated counts one delivered caption set.
func (m *ServiceMetrics) IncCaptionsGenerated() {
	if m == nil || m.captionsGenerated == nil {
		return
	}
	m.captionsGenerated.Inc()
}

// IncQuotaDenied counts a denial with its reason label.
func (m *ServiceMetrics) IncQuotaDenied(reason string) {
	if m == nil || m.quotaDenied == nil {
		return
	}
	m.quotaDenied.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncStripeEvent counts a processed webhook event by type.
func (m *ServiceMetrics) IncStripeEvent(eventType string) {
	if m == nil || m.stripeEvents == nil {
		return
	}
	m.stripeEvents.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncNotifyFailure counts a swallowed email/chat delivery failure.
func (m *ServiceMetrics) IncNotifyFailure(channel string) {
	if m == nil || m.notifyFailures == nil {
		return
	}
	m.notifyFailures.WithLabelValues(normalizeLabel(channel)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

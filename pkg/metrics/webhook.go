package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics counts outbound webhook deliveries per target and outcome.
type WebhookMetrics struct {
	deliveries *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook counters on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_deliveries_total",
		Help: "Outbound webhook deliveries by target and outcome.",
	}, []string{"target", "outcome"})
	reg.MustRegister(deliveries)
	return &WebhookMetrics{deliveries: deliveries}
}

// IncDelivered counts a successful delivery to the named target.
func (w *WebhookMetrics) IncDelivered(target string) {
	if w == nil || w.deliveries == nil {
		return
	}
	w.deliveries.WithLabelValues(normalizeLabel(target), "delivered").Inc()
}

// IncFailed counts a failed delivery to the named target.
func (w *WebhookMetrics) IncFailed(target string) {
	if w == nil || w.deliveries == nil {
		return
	}
	w.deliveries.WithLabelValues(normalizeLabel(target), "failed").Inc()
}

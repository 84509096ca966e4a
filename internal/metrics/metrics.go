package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	AlertsReceived     prometheus.Counter
	AlertsBadRequest   prometheus.Counter
	AlertsUnauthorized prometheus.Counter
	AlertsDelivered    prometheus.Counter
	PipelineFailures   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AlertsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "levelwatch",
			Subsystem: "webhook",
			Name:      "alerts_received_total",
			Help:      "Webhook requests received, before any validation",
		}),
		AlertsBadRequest: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "levelwatch",
			Subsystem: "webhook",
			Name:      "alerts_bad_request_total",
			Help:      "Webhook requests rejected for a missing or unparseable body",
		}),
		AlertsUnauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "levelwatch",
			Subsystem: "webhook",
			Name:      "alerts_unauthorized_total",
			Help:      "Webhook requests rejected on the shared secret",
		}),
		AlertsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "levelwatch",
			Subsystem: "webhook",
			Name:      "alerts_delivered_total",
			Help:      "Alerts that completed the full pipeline",
		}),
		PipelineFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "levelwatch",
			Subsystem: "webhook",
			Name:      "pipeline_failures_total",
			Help:      "Authenticated alerts that failed in analysis or dispatch",
		}),
	}
	reg.MustRegister(
		m.AlertsReceived,
		m.AlertsBadRequest,
		m.AlertsUnauthorized,
		m.AlertsDelivered,
		m.PipelineFailures,
	)
	return m
}

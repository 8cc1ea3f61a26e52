// Package metrics - метрики Prometheus движка диспетчеризации
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics хранит все метрики приложения
type Metrics struct {
	ReportsReceived    *prometheus.CounterVec
	DispatchAttempts   *prometheus.CounterVec
	DispatchDuration   prometheus.Histogram
	AssignmentDistance prometheus.Histogram
	SMSDelivered       prometheus.Counter
	SMSFailed          prometheus.Counter
	SMSQueueDepth      prometheus.Gauge
}

// New создает метрики и регистрирует их в переданном реестре
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReportsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resqnet_reports_received_total",
			Help: "Total emergency reports received, labeled by severity level",
		}, []string{"severity"}),
		DispatchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resqnet_dispatch_attempts_total",
			Help: "Total dispatch attempts, labeled by outcome",
		}, []string{"result"}),
		DispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resqnet_dispatch_duration_seconds",
			Help:    "Automatic dispatch duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		AssignmentDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resqnet_assignment_distance_meters",
			Help:    "Great-circle distance between incident and assigned responder",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000, 50000},
		}),
		SMSDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resqnet_sms_delivered_total",
			Help: "Total SMS notifications delivered to the gateway",
		}),
		SMSFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resqnet_sms_failed_total",
			Help: "Total SMS notifications dropped after retries",
		}),
		SMSQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resqnet_sms_queue_depth",
			Help: "Pending SMS notifications in the Redis queue",
		}),
	}

	reg.MustRegister(
		m.ReportsReceived,
		m.DispatchAttempts,
		m.DispatchDuration,
		m.AssignmentDistance,
		m.SMSDelivered,
		m.SMSFailed,
		m.SMSQueueDepth,
	)
	return m
}

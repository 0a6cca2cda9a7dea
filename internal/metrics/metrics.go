package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	CardOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cashcard_operations_total",
			Help: "Successful cash-card operations",
		},
		[]string{"op"}, // create|read|list|update|delete
	)

	CardOpsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cashcard_operations_failed_total",
			Help: "Cash-card operations that failed in the store",
		},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_queue_depth",
			Help: "Audit entries waiting for a worker",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal, CardOpsTotal, CardOpsFailed, AuditQueueDepth)
}

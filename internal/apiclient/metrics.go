package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apiclient_requests_total",
		Help: "Количество запросов к бэкенду по методу и результату.",
	}, []string{"method", "result"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apiclient_retries_total",
		Help: "Количество повторов запросов к бэкенду.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apiclient_request_duration_seconds",
		Help:    "Длительность запросов к бэкенду.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

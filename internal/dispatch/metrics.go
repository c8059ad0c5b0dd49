package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsPrefix = "simrig_dispatch_"

var jobsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
	Name: metricsPrefix + "jobs_succeeded_total",
	Help: "Number of jobs whose solve invocation returned without error.",
})

var jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: metricsPrefix + "jobs_failed_total",
	Help: "Number of jobs whose solve invocation returned an error.",
})

var batchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    metricsPrefix + "batch_duration_seconds",
	Help:    "Wall clock duration of dispatched batches.",
	Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
})

package webcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsPrefix = "simrig_webcache_"

var cacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: metricsPrefix + "hits_total",
	Help: "Number of lookups served from a fresh cache entry.",
})

var cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: metricsPrefix + "misses_total",
	Help: "Number of lookups that required an outbound fetch.",
})

var staleServes = promauto.NewCounter(prometheus.CounterOpts{
	Name: metricsPrefix + "stale_serves_total",
	Help: "Number of lookups degraded to a stale entry after a fetch failure.",
})

var fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: metricsPrefix + "fetch_failures_total",
	Help: "Number of outbound fetches that failed.",
})

var corruptedStores = promauto.NewCounter(prometheus.CounterOpts{
	Name: metricsPrefix + "corrupted_stores_total",
	Help: "Number of times the store file was unparsable and reset to empty.",
})

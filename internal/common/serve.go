package common

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/weaveworks/promrus"

	"github.com/simrigproject/simrig/internal/common/logging"
)

// ServeMetrics exposes the Prometheus registry on /metrics at the given port
// and returns a function that shuts the server down. Log lines are counted
// by severity under the log_messages metric. Call at most once per process.
func ServeMetrics(port uint16) (shutdown func()) {
	log.AddHook(promrus.MustNewPrometheusHook())
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return ServeHttp(port, mux)
}

// ServeHttp starts an HTTP server listening on the given port behind a mux
// and returns a function that shuts it down gracefully.
func ServeHttp(port uint16, mux http.Handler) (shutdown func()) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Infof("starting http server listening on %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.WithStacktrace(log.NewEntry(log.StandardLogger()), err).Error("http server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Infof("stopping http server listening on %d", port)
		if err := srv.Shutdown(ctx); err != nil {
			logging.WithStacktrace(log.NewEntry(log.StandardLogger()), err).Error("failed to shut down http server")
		}
	}
}

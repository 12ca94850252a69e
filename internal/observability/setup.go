package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

var (
	// Global logger instance. A no-op until Init swaps in the
	// production logger.
	Logger = zap.NewNop()

	// Metrics
	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_validations_total",
			Help: "Total number of content validations by resulting level",
		},
		[]string{"level"},
	)

	spamDetectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spam_detections_total",
			Help: "Total number of spam replies detected",
		},
		[]string{"source"},
	)

	usersBlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_blocked_total",
			Help: "Total number of users blocked by the scan loop",
		},
	)

	scanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scan_pass_duration_seconds",
			Help:    "Time spent on one scan-and-protect pass",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func Init(ctx context.Context, metricsAddr string) error {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	prometheus.MustRegister(validationsTotal)
	prometheus.MustRegister(spamDetectionsTotal)
	prometheus.MustRegister(usersBlockedTotal)
	prometheus.MustRegister(scanDuration)

	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return nil
}

// RecordValidation records one validation outcome by level name.
func RecordValidation(level string) {
	validationsTotal.WithLabelValues(level).Inc()
}

// RecordSpamDetection records a spam reply detection. The source is
// "heuristic" or "llm".
func RecordSpamDetection(source string) {
	spamDetectionsTotal.WithLabelValues(source).Inc()
}

// RecordBlock records one newly blocked user.
func RecordBlock() {
	usersBlockedTotal.Inc()
}

// StartScanPass returns a function that records the duration of one
// scan pass under the given terminal status ("ok" or "error").
func StartScanPass() func(status string) {
	started := time.Now()
	return func(status string) {
		scanDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	}
}

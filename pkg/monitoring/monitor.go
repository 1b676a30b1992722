package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuestionsImported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "questions_imported_total",
			Help: "Total number of questions successfully imported",
		},
	)

	ImportRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_import_rejected_total",
			Help: "Candidates rejected during batch import, by validation code",
		},
		[]string{"code"},
	)

	GenerationFallback = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_fallback_total",
			Help: "Generation pipeline invocations served by the offline fallback",
		},
		[]string{"reason"},
	)

	GenerationDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_candidates_dropped_total",
			Help: "Candidates dropped by the generation verifier stage",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(QuestionsImported)
	prometheus.MustRegister(ImportRejected)
	prometheus.MustRegister(GenerationFallback)
	prometheus.MustRegister(GenerationDropped)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

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

	SheetLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_loads_total",
			Help: "Series loads from the configured sheet sources",
		},
		[]string{"series", "source", "status"},
	)

	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_cache_requests_total",
			Help: "Cache lookups by result",
		},
		[]string{"result"},
	)

	TransformErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_transform_errors_total",
			Help: "Sheets rejected by the transformer, by error kind",
		},
		[]string{"kind"},
	)

	AnswersRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sheet_answers_rows",
			Help: "Rows in the last loaded answer table of a series",
		},
		[]string{"series"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SheetLoads)
	prometheus.MustRegister(CacheRequests)
	prometheus.MustRegister(TransformErrors)
	prometheus.MustRegister(AnswersRows)
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

package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	EnrollmentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "miniudemy_enrollments_total",
		Help: "Number of successful course enrollments",
	})

	LessonCompletionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "miniudemy_lesson_completions_total",
		Help: "Number of lesson completion records written",
	})

	ReviewsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "miniudemy_reviews_submitted_total",
		Help: "Number of reviews created or updated",
	})

	LessonAccessDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniudemy_lesson_access_denied_total",
			Help: "Lesson access checks that were refused, by error kind",
		},
		[]string{"kind"},
	)
)

var registerOnce sync.Once

// Init 注册全部指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			EnrollmentsTotal,
			LessonCompletionsTotal,
			ReviewsSubmittedTotal,
			LessonAccessDenied,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.DefaultRegisterer

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by path/method/code.",
		},
		[]string{"path", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by path/method/code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "code"},
	)

	workflowEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_events_total",
			Help: "Workflow operations by op and result with error label.",
		},
		[]string{"op", "result", "error"},
	)

	workflowDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workflow_operation_duration_seconds",
			Help:    "Duration of workflow operations by op and result.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "result"},
	)
)

func GinMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	code := strconv.Itoa(c.Writer.Status())
	path := c.FullPath()

	// unmatched routes would otherwise be dropped
	if path == "" {
		path = c.Request.URL.Path
	}

	if path == "/metrics" || strings.HasPrefix(path, "/debug/pprof/") {
		return
	}

	method := c.Request.Method

	httpRequests.WithLabelValues(path, method, code).Inc()
	httpDuration.WithLabelValues(path, method, code).Observe(time.Since(start).Seconds())
}

func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveWorkflowOp records one membership/submission/evaluation operation.
func ObserveWorkflowOp(op string, start time.Time, err error) {
	result := "success"
	errLabel := ""
	if err != nil {
		result = "error"
		errLabel = err.Error()
	}
	workflowEvents.WithLabelValues(op, result, errLabel).Inc()
	workflowDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

func init() {
	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		workflowEvents,
		workflowDuration,
	}

	for _, c := range collectors {
		_ = registry.Register(c)
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Total number of leads created",
		},
		[]string{"source"},
	)

	leadStatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_lead_status_transitions_total",
			Help: "Total number of lead status changes",
		},
		[]string{"from", "to"},
	)

	leadsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_exported_total",
			Help: "Total number of lead exports",
		},
		[]string{"format"},
	)

	chatMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_chat_messages_total",
			Help: "Total number of chat messages posted",
		},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"}, // success, failed
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_integration_errors_total",
			Help: "Total number of failures talking to optional integrations",
		},
		[]string{"service"}, // amqp, smtp, redis
	)
)

// RecordHTTPRequest 记录一次HTTP请求，path 使用路由模板避免基数爆炸
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLeadsCreated 新增线索
func RecordLeadsCreated(source string, n int) {
	leadsCreated.WithLabelValues(source).Add(float64(n))
}

func RecordLeadStatusTransition(from, to string) {
	leadStatusTransitions.WithLabelValues(from, to).Inc()
}

func RecordLeadsExported(format string) {
	leadsExported.WithLabelValues(format).Inc()
}

func RecordChatMessage() {
	chatMessages.Inc()
}

func RecordLoginAttempt(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	loginAttempts.WithLabelValues(status).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrportal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hrportal_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrportal_login_attempts_total",
		Help: "Login attempts by role and result",
	}, []string{"role", "result"})

	mailSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrportal_mail_sent_total",
		Help: "Transactional mail by template and result",
	}, []string{"template", "result"})

	payrollSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrportal_payroll_sweeps_total",
		Help: "Payroll sweep runs by result",
	}, []string{"result"})

	salariesDelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hrportal_salaries_delayed_total",
		Help: "Salaries moved from Pending to Delayed after their due date",
	})

	realtimeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hrportal_realtime_connections",
		Help: "Open websocket connections",
	})

	realtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrportal_realtime_events_total",
		Help: "Events fanned out to websocket rooms",
	}, []string{"event"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveLogin counts a login attempt. result is "success", "failure" or "throttled".
func ObserveLogin(role, result string) {
	loginAttempts.WithLabelValues(role, result).Inc()
}

// ObserveMail counts one delivery attempt of a mail template.
func ObserveMail(template, result string) {
	mailSent.WithLabelValues(template, result).Inc()
}

// ObservePayrollSweep records a sweep outcome and how many salaries it delayed.
func ObservePayrollSweep(result string, delayed int) {
	payrollSweeps.WithLabelValues(result).Inc()
	if delayed > 0 {
		salariesDelayed.Add(float64(delayed))
	}
}

// RealtimeConnected adjusts the open connection gauge by delta.
func RealtimeConnected(delta int) {
	realtimeConnections.Add(float64(delta))
}

// ObserveRealtimeEvent counts a published event.
func ObserveRealtimeEvent(event string) {
	realtimeEvents.WithLabelValues(event).Inc()
}

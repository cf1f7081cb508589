// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Chat
	ChatQueriesTotal    *prometheus.CounterVec
	ChatDurationSeconds prometheus.Histogram
	ChatReplyLines      prometheus.Histogram

	// Contact form
	ContactSubmissionsTotal *prometheus.CounterVec
	StoredMessages          prometheus.Gauge
	StoreOperationSeconds   *prometheus.HistogramVec

	// Admin
	AdminOperationsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPErrorsTotal   *prometheus.CounterVec

	// Rate limiter
	RateLimiterDropped    *prometheus.CounterVec
	RateLimiterActiveKeys *prometheus.GaugeVec

	// Archive
	ArchiveJobsTotal      *prometheus.CounterVec
	ArchiveDuration       prometheus.Histogram
	ArchiveBytesUploaded  prometheus.Counter
	ProfileSectionsLoaded prometheus.Gauge
}

// New registers every collector on registry.
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		ChatQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_chat_queries_total",
				Help: "Chat queries by classified intent",
			},
			[]string{"intent"},
		),
		ChatDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portfolio_chat_duration_seconds",
				Help:    "Time to classify and answer a chat query",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
		ChatReplyLines: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portfolio_chat_reply_lines",
				Help:    "Number of lines in chat replies",
				Buckets: []float64{1, 2, 4, 8, 16, 32},
			},
		),

		ContactSubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_submissions_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"status"}, // success, invalid, rate_limited, error
		),
		StoredMessages: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "portfolio_stored_messages",
				Help: "Contact messages currently held by the store",
			},
		),
		StoreOperationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_store_operation_seconds",
				Help:    "Message store latency by backend and operation",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"backend", "operation"},
		),

		AdminOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_admin_operations_total",
				Help: "Admin API calls by operation and outcome",
			},
			[]string{"operation", "status"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_http_requests_total",
				Help: "HTTP requests by route and status code class",
			},
			[]string{"route", "code"},
		),
		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_http_errors_total",
				Help: "HTTP errors by type and module",
			},
			[]string{"error_type", "module"},
		),

		RateLimiterDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_rate_limiter_dropped_total",
				Help: "Requests rejected by a rate limiter",
			},
			[]string{"limiter"}, // chat, contact
		),
		RateLimiterActiveKeys: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "portfolio_rate_limiter_active_keys",
				Help: "Clients currently tracked by a rate limiter",
			},
			[]string{"limiter"},
		),

		ArchiveJobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_archive_jobs_total",
				Help: "Message archive exports by trigger and outcome",
			},
			[]string{"trigger", "status"}, // trigger: admin, schedule
		),
		ArchiveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portfolio_archive_duration_seconds",
				Help:    "Duration of a message archive export",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		ArchiveBytesUploaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "portfolio_archive_bytes_uploaded_total",
				Help: "Compressed bytes uploaded to the archive bucket",
			},
		),
		ProfileSectionsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "portfolio_profile_sections_loaded",
				Help: "Profile sections found at startup",
			},
		),
	}
}

// RecordChat counts one answered query.
func (m *Metrics) RecordChat(intent string, lines int, seconds float64) {
	m.ChatQueriesTotal.WithLabelValues(intent).Inc()
	m.ChatReplyLines.Observe(float64(lines))
	m.ChatDurationSeconds.Observe(seconds)
}

// RecordContact counts a contact submission by status.
func (m *Metrics) RecordContact(status string) {
	m.ContactSubmissionsTotal.WithLabelValues(status).Inc()
}

// SetStoredMessages updates the stored message gauge.
func (m *Metrics) SetStoredMessages(n int) {
	m.StoredMessages.Set(float64(n))
}

// RecordStoreOperation observes one store call.
func (m *Metrics) RecordStoreOperation(backend, op string, seconds float64) {
	m.StoreOperationSeconds.WithLabelValues(backend, op).Observe(seconds)
}

// RecordAdmin counts an admin operation.
func (m *Metrics) RecordAdmin(op, status string) {
	m.AdminOperationsTotal.WithLabelValues(op, status).Inc()
}

// RecordHTTPRequest counts a served request.
func (m *Metrics) RecordHTTPRequest(route, code string) {
	m.HTTPRequestsTotal.WithLabelValues(route, code).Inc()
}

// RecordHTTPError counts an HTTP-level failure.
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}

// RecordRateLimiterDrop counts a rejected request.
func (m *Metrics) RecordRateLimiterDrop(limiter string) {
	m.RateLimiterDropped.WithLabelValues(limiter).Inc()
}

// SetRateLimiterActiveKeys reports how many clients a limiter tracks.
func (m *Metrics) SetRateLimiterActiveKeys(limiter string, n int) {
	m.RateLimiterActiveKeys.WithLabelValues(limiter).Set(float64(n))
}

// RecordArchive records an export run.
func (m *Metrics) RecordArchive(trigger, status string, seconds float64, bytes int64) {
	m.ArchiveJobsTotal.WithLabelValues(trigger, status).Inc()
	m.ArchiveDuration.Observe(seconds)
	if bytes > 0 {
		m.ArchiveBytesUploaded.Add(float64(bytes))
	}
}

// SetProfileSections records how many profile sections were loaded.
func (m *Metrics) SetProfileSections(n int) {
	m.ProfileSectionsLoaded.Set(float64(n))
}

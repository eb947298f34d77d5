package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the bot
type Metrics struct {
	// Inline query metrics
	InlineQueries *prometheus.CounterVec

	// Job metrics
	JobsTotal     *prometheus.CounterVec
	JobRejections *prometheus.CounterVec
	ActiveJobs    prometheus.Gauge
	JobDuration   prometheus.Histogram

	// Engine metrics
	DownloadDuration prometheus.Histogram
	DownloadBytes    prometheus.Histogram
	RetryAttempts    *prometheus.CounterVec
	AuthFallbacks    *prometheus.CounterVec

	// Recovery chain metrics
	RecoveryTiers *prometheus.CounterVec

	// Rate limiter metrics
	RateLimitEntries prometheus.Gauge
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance registered in the default registry
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance registered in reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		InlineQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytdl_bot_inline_queries_total",
				Help: "Total number of inline queries by result",
			},
			[]string{"result"},
		),
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytdl_bot_jobs_total",
				Help: "Total number of download jobs by terminal state",
			},
			[]string{"state"},
		),
		JobRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytdl_bot_job_rejections_total",
				Help: "Total number of jobs rejected by policy",
			},
			[]string{"reason"},
		),
		ActiveJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ytdl_bot_active_jobs",
			Help: "Number of download jobs currently running",
		}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytdl_bot_job_duration_seconds",
			Help:    "Duration of download jobs from start to terminal state",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}),
		DownloadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytdl_bot_download_duration_seconds",
			Help:    "Duration of successful merged downloads",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60},
		}),
		DownloadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytdl_bot_download_bytes",
			Help:    "Size of merged files handed to delivery",
			Buckets: prometheus.ExponentialBuckets(256*1024, 2, 10),
		}),
		RetryAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytdl_bot_retry_attempts_total",
				Help: "Total number of retried attempts by operation",
			},
			[]string{"operation"},
		),
		AuthFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytdl_bot_auth_fallbacks_total",
				Help: "Total number of authenticated calls retried without authentication",
			},
			[]string{"operation"},
		),
		RecoveryTiers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytdl_bot_recovery_tiers_total",
				Help: "Total number of recovery chain tier outcomes",
			},
			[]string{"tier", "result"},
		),
		RateLimitEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ytdl_bot_rate_limit_entries",
			Help: "Number of users tracked by the rate limiter",
		}),
	}
}

// RecordInlineQuery records an answered or ignored inline query
func (m *Metrics) RecordInlineQuery(result string) {
	m.InlineQueries.WithLabelValues(result).Inc()
}

// JobStarted marks a job as running
func (m *Metrics) JobStarted() {
	m.ActiveJobs.Inc()
}

// JobFinished records the terminal state of a job
func (m *Metrics) JobFinished(state string, duration float64) {
	m.ActiveJobs.Dec()
	m.JobsTotal.WithLabelValues(state).Inc()
	m.JobDuration.Observe(duration)
}

// RecordRejection records a policy rejection
func (m *Metrics) RecordRejection(reason string) {
	m.JobRejections.WithLabelValues(reason).Inc()
}

// RecordDownload records a successful merged download
func (m *Metrics) RecordDownload(duration float64, size int64) {
	m.DownloadDuration.Observe(duration)
	m.DownloadBytes.Observe(float64(size))
}

// RecordRetry records a retried attempt of operation
func (m *Metrics) RecordRetry(operation string) {
	m.RetryAttempts.WithLabelValues(operation).Inc()
}

// RecordAuthFallback records an unauthenticated retry of operation
func (m *Metrics) RecordAuthFallback(operation string) {
	m.AuthFallbacks.WithLabelValues(operation).Inc()
}

// RecordRecoveryTier records the outcome of a recovery chain tier
func (m *Metrics) RecordRecoveryTier(tier string, ok bool) {
	result := "failed"
	if ok {
		result = "succeeded"
	}
	m.RecoveryTiers.WithLabelValues(tier, result).Inc()
}

// SetRateLimitEntries sets the number of tracked users
func (m *Metrics) SetRateLimitEntries(n int) {
	m.RateLimitEntries.Set(float64(n))
}

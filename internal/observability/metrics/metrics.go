package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                           sync.Once
	metricsRouter                  *chi.Mux
	ledgerLatency                  *prometheus.HistogramVec
	queueSendErrorCounter          prometheus.Counter
	clientRequestDurationHistogram *prometheus.HistogramVec
	httpRequestDurationHistogram   *prometheus.HistogramVec
	pollerDurationHistogram        *prometheus.HistogramVec
	operationDurationHistogram     *prometheus.HistogramVec
	operationRetryCounter          *prometheus.CounterVec
	operationRollbackCounter       *prometheus.CounterVec
	totalStakedGauge               prometheus.Gauge
	activeStakersGauge             prometheus.Gauge
	rewardsDistributedGauge        prometheus.Gauge
	poolTotalStakedGauge           *prometheus.GaugeVec
	poolActiveStakersGauge         *prometheus.GaugeVec
	invariantViolationCounter      *prometheus.CounterVec
	dbLatency                      *prometheus.HistogramVec
)

// collectors are created eagerly so that recording never hits a nil metric,
// Init only exposes them
func init() {
	registerMetrics()
}

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of incoming api request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	ledgerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_latency_seconds",
			Help:    "Histogram of ledger transfer durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	operationDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "operation_duration_seconds",
			Help:    "Staking operation duration in seconds split by operation and error code.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	operationRetryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operation_commit_retry_count",
			Help: "Number of operation attempts repeated after a concurrent update",
		},
		[]string{"operation"},
	)

	operationRollbackCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operation_rollback_count",
			Help: "Number of committed operations rolled back after a failed transfer",
		},
		[]string{"operation", "status"},
	)

	totalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_staked",
			Help: "Principal currently staked across all pools",
		},
	)

	activeStakersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_stakers",
			Help: "Number of (user, pool) positions with principal",
		},
	)

	rewardsDistributedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_rewards_distributed",
			Help: "Gross rewards claimed so far, governance fees included",
		},
	)

	poolTotalStakedGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pool_total_staked",
			Help: "Principal staked per pool",
		},
		[]string{"pool_id"},
	)

	poolActiveStakersGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pool_active_stakers",
			Help: "Stakers with principal per pool",
		},
		[]string{"pool_id"},
	)

	invariantViolationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invariant_violation_count",
			Help: "Number of ledger invariant violations found by the stats poller",
		},
		[]string{"invariant"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		ledgerLatency,
		queueSendErrorCounter,
		clientRequestDurationHistogram,
		httpRequestDurationHistogram,
		pollerDurationHistogram,
		operationDurationHistogram,
		operationRetryCounter,
		operationRollbackCounter,
		totalStakedGauge,
		activeStakersGauge,
		rewardsDistributedGauge,
		poolTotalStakedGauge,
		poolActiveStakersGauge,
		invariantViolationCounter,
		dbLatency,
	)
}

func RecordLedgerLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	ledgerLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

// RecordOperationDuration records an operation outcome, status is
// either "success" or the error code the operation failed with.
func RecordOperationDuration(d time.Duration, operation, status string) {
	operationDurationHistogram.WithLabelValues(operation, status).Observe(d.Seconds())
}

func IncOperationRetries(operation string) {
	operationRetryCounter.WithLabelValues(operation).Inc()
}

func IncOperationRollbacks(operation string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	operationRollbackCounter.WithLabelValues(operation, status.String()).Inc()
}

func RecordLedgerTotals(totalStaked, activeStakers, rewardsDistributed uint64) {
	totalStakedGauge.Set(float64(totalStaked))
	activeStakersGauge.Set(float64(activeStakers))
	rewardsDistributedGauge.Set(float64(rewardsDistributed))
}

func RecordPoolTotals(poolID uint8, totalStaked uint64, activeStakers uint32) {
	label := strconv.Itoa(int(poolID))
	poolTotalStakedGauge.WithLabelValues(label).Set(float64(totalStaked))
	poolActiveStakersGauge.WithLabelValues(label).Set(float64(activeStakers))
}

func IncInvariantViolations(invariant string) {
	invariantViolationCounter.WithLabelValues(invariant).Inc()
}

// StartClientRequestDurationTimer starts a timer to measure outgoing client request duration.
func StartClientRequestDurationTimer(baseUrl, method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		clientRequestDurationHistogram.WithLabelValues(
			baseUrl,
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}

// StartHttpRequestDurationTimer starts a timer to measure incoming api request duration.
func StartHttpRequestDurationTimer(method string) func(route string, statusCode int) {
	startTime := time.Now()
	return func(route string, statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(
			method,
			route,
			strconv.Itoa(statusCode),
		).Observe(duration)
	}
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/StereoDB/StereoDB"
)

var _ stereodb.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements stereodb.MetricsCollector.
type PrometheusCollector struct {
	txLatency     *prometheus.HistogramVec
	transactions  *prometheus.CounterVec
	mutations     prometheus.Counter
	writeWait     prometheus.Histogram
	backfillRows  *prometheus.CounterVec
	backfillTimes *prometheus.HistogramVec
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. A nil reg selects prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		txLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stereodb_transaction_duration_seconds",
			Help:    "Duration of transaction bodies",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"kind", "status"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stereodb_transactions_total",
			Help: "Total transactions run",
		}, []string{"kind", "status"}),
		mutations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stereodb_committed_mutations_total",
			Help: "Total Set and Remove calls committed",
		}),
		writeWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stereodb_write_wait_seconds",
			Help:    "Time writers spent waiting for admission",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		backfillRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stereodb_backfill_rows_total",
			Help: "Rows indexed by initial backfill",
		}, []string{"table", "index"}),
		backfillTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stereodb_backfill_duration_seconds",
			Help:    "Duration of initial index backfill",
			Buckets: prometheus.DefBuckets,
		}, []string{"table", "index"}),
	}

	reg.MustRegister(
		c.txLatency,
		c.transactions,
		c.mutations,
		c.writeWait,
		c.backfillRows,
		c.backfillTimes,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordRead implements stereodb.MetricsCollector.
func (c *PrometheusCollector) RecordRead(d time.Duration, err error) {
	s := status(err)
	c.txLatency.WithLabelValues("read", s).Observe(d.Seconds())
	c.transactions.WithLabelValues("read", s).Inc()
}

// RecordWrite implements stereodb.MetricsCollector.
func (c *PrometheusCollector) RecordWrite(d time.Duration, mutations int, err error) {
	s := status(err)
	c.txLatency.WithLabelValues("write", s).Observe(d.Seconds())
	c.transactions.WithLabelValues("write", s).Inc()
	c.mutations.Add(float64(mutations))
}

// RecordWriteWait implements stereodb.MetricsCollector.
func (c *PrometheusCollector) RecordWriteWait(d time.Duration) {
	c.writeWait.Observe(d.Seconds())
}

// RecordBackfill implements stereodb.MetricsCollector.
func (c *PrometheusCollector) RecordBackfill(table, index string, rows int, d time.Duration) {
	c.backfillRows.WithLabelValues(table, index).Add(float64(rows))
	c.backfillTimes.WithLabelValues(table, index).Observe(d.Seconds())
}

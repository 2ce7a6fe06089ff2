package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "billing_reports_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	reportTotal   *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
	exportTotal   *prometheus.CounterVec
	skippedItems  *prometheus.CounterVec
)

// Init registers the report metrics with the default registry. Observations
// made before Init are dropped.
func Init() {
	registerOnce.Do(func() {
		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_total",
				Help: "Total report builds by kind and result",
			},
			[]string{"kind", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_latency_seconds",
				Help:    "Report build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total exports by format and result",
			},
			[]string{"format", "result"},
		)
		skippedItems = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "skipped_items_total",
				Help: "Bill items skipped for unresolved references, by report kind",
			},
			[]string{"kind"},
		)

		prometheus.MustRegister(reportTotal, reportLatency, exportTotal, skippedItems)
	})
}

// ObserveReport records one report build.
func ObserveReport(kind string, err error, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if reportTotal != nil {
		reportTotal.WithLabelValues(kind, result(err)).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

func ObserveExport(format string, err error) {
	if format == "" {
		format = "unknown"
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result(err)).Inc()
	}
}

func AddSkippedItems(kind string, count int) {
	if count <= 0 {
		return
	}
	if skippedItems != nil {
		skippedItems.WithLabelValues(kind).Add(float64(count))
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

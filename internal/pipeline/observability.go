package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paylens",
		Name:      "files_processed_total",
		Help:      "Report files successfully parsed and consolidated.",
	})
	filesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paylens",
		Name:      "files_skipped_total",
		Help:      "Files excluded from a selection for an unsupported extension.",
	})
	parseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paylens",
		Name:      "parse_failures_total",
		Help:      "Processing runs aborted by a parse failure.",
	})
	rateFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paylens",
		Name:      "rate_fetch_failures_total",
		Help:      "Exchange-rate fetches that failed; runs proceed unconverted.",
	})
	processDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "paylens",
		Name:      "process_duration_seconds",
		Help:      "Wall time of a full ProcessFiles run.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Package metrics counts the work of a scan run in a private Prometheus
// registry and writes it out in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "numscan"

// Error kinds recorded by ObserveError.
const (
	KindRead     = "read"
	KindCoverage = "coverage"
	KindSpan     = "span"
)

// Recorder holds the scan metrics. Its methods are safe for concurrent use.
type Recorder struct {
	registry    *prometheus.Registry
	files       prometheus.Counter
	bytes       prometheus.Counter
	annotations *prometheus.CounterVec
	errors      *prometheus.CounterVec
	perFile     prometheus.Histogram
	duration    prometheus.Histogram
}

// New returns a Recorder with every metric registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files scanned.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Bytes of text scanned.",
		}),
		annotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_total",
			Help:      "Numbers found, by number type.",
		}, []string{"number_type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Scan failures, by kind.",
		}, []string{"kind"}),
		perFile: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "annotations_per_file",
			Help:      "Numbers found per file.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent extracting numbers from one file.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	r.registry.MustRegister(r.files, r.bytes, r.annotations, r.errors, r.perFile, r.duration)
	return r
}

// ObserveFile records one scanned file. types holds the number type name of
// each annotation found in it.
func (r *Recorder) ObserveFile(size int, types []string, took time.Duration) {
	r.files.Inc()
	r.bytes.Add(float64(size))
	for _, t := range types {
		r.annotations.WithLabelValues(t).Inc()
	}
	r.perFile.Observe(float64(len(types)))
	r.duration.Observe(took.Seconds())
}

// ObserveError records one failure of the given kind.
func (r *Recorder) ObserveError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes the current metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %q: %w", path, err)
	}
	return nil
}

// Package metrics counts decode outcomes in a Prometheus registry.
package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shapestone/shape-dbc/internal/model"
)

const namespace = "dbc"

// Recorder owns a private registry so several decoders can coexist.
type Recorder struct {
	registry *prometheus.Registry

	decodes  *prometheus.CounterVec
	messages prometheus.Counter
	signals  prometheus.Counter
	problems *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewRecorder registers the decode metrics in a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decodes_total",
			Help:      "Total decodes grouped by status.",
		}, []string{"status"}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of decoded messages.",
		}),
		signals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Total number of decoded signals.",
		}),
		problems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "problems_total",
			Help:      "Total problems collected while decoding, grouped by severity.",
		}, []string{"severity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_duration_seconds",
			Help:      "Duration of decodes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	r.registry.MustRegister(r.decodes, r.messages, r.signals, r.problems, r.duration)
	for _, s := range []model.Severity{model.SeverityInfo, model.SeverityWarning, model.SeverityError} {
		r.problems.WithLabelValues(string(s))
	}
	return r
}

// Observe records one decode. A nil result counts as a failure.
func (r *Recorder) Observe(result *model.Result, elapsed time.Duration) {
	r.duration.Observe(elapsed.Seconds())
	if result == nil {
		r.decodes.WithLabelValues("failed").Inc()
		return
	}

	r.decodes.WithLabelValues("ok").Inc()
	r.messages.Add(float64(len(result.Messages)))
	r.signals.Add(float64(result.SignalCount()))
	for _, p := range result.Problems {
		r.problems.WithLabelValues(string(p.Severity)).Inc()
	}
}

// WriteTextfile writes the current values in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}

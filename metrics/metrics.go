// Package metrics exposes the lifecycle of simulated processes as Prometheus
// metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sarchlab/vproc/tracing"
)

const namespace = "vproc"

// Collector turns lifecycle events into Prometheus metrics. It is a
// tracing.Tracer.
type Collector struct {
	starts      *prometheus.CounterVec
	continues   *prometheus.CounterVec
	stops       *prometheus.CounterVec
	completions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	running     *prometheus.GaugeVec
	bursts      *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics. Metrics that
// are already registered are reused.
func NewCollector(r prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		starts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "starts_total",
				Help:      "Number of process starts.",
			}, []string{"host", "plugin"},
		),
		continues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "continues_total",
				Help:      "Number of times a blocked process was resumed.",
			}, []string{"host", "plugin"},
		),
		stops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "stops_total",
				Help:      "Number of stops requested at the stop time.",
			}, []string{"host", "plugin"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "completions_total",
				Help:      "Number of processes whose main thread exited.",
			}, []string{"host", "plugin"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "plugin",
				Name:      "errors_total",
				Help:      "Number of processes that exited with a non-zero code.",
			}, []string{"host", "plugin"},
		),
		running: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "running",
				Help:      "Processes started and not yet completed.",
			}, []string{"host"},
		),
		bursts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cpu",
				Name:      "burst_seconds",
				Help:      "Real time spent in one execution burst of a process.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
			}, []string{"host"},
		),
	}

	if err := c.register(r); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Collector) register(r prometheus.Registerer) error {
	pairs := []struct {
		collector prometheus.Collector
		reuse     func(existing prometheus.Collector)
	}{
		{c.starts, func(e prometheus.Collector) {
			c.starts = e.(*prometheus.CounterVec)
		}},
		{c.continues, func(e prometheus.Collector) {
			c.continues = e.(*prometheus.CounterVec)
		}},
		{c.stops, func(e prometheus.Collector) {
			c.stops = e.(*prometheus.CounterVec)
		}},
		{c.completions, func(e prometheus.Collector) {
			c.completions = e.(*prometheus.CounterVec)
		}},
		{c.errors, func(e prometheus.Collector) {
			c.errors = e.(*prometheus.CounterVec)
		}},
		{c.running, func(e prometheus.Collector) {
			c.running = e.(*prometheus.GaugeVec)
		}},
		{c.bursts, func(e prometheus.Collector) {
			c.bursts = e.(*prometheus.HistogramVec)
		}},
	}

	for _, p := range pairs {
		err := r.Register(p.collector)
		if err == nil {
			continue
		}

		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			p.reuse(are.ExistingCollector)
			continue
		}

		return err
	}

	return nil
}

// Trace records one lifecycle event.
func (c *Collector) Trace(e tracing.Event) {
	switch e.Kind {
	case tracing.KindStart:
		c.starts.WithLabelValues(e.Host, e.Plugin).Inc()
		c.running.WithLabelValues(e.Host).Inc()
		c.bursts.WithLabelValues(e.Host).Observe(e.Elapsed.Seconds())
	case tracing.KindContinue:
		c.continues.WithLabelValues(e.Host, e.Plugin).Inc()
		c.bursts.WithLabelValues(e.Host).Observe(e.Elapsed.Seconds())
	case tracing.KindStop:
		c.stops.WithLabelValues(e.Host, e.Plugin).Inc()
		c.bursts.WithLabelValues(e.Host).Observe(e.Elapsed.Seconds())
	case tracing.KindComplete:
		c.completions.WithLabelValues(e.Host, e.Plugin).Inc()
		c.running.WithLabelValues(e.Host).Dec()

		if e.ReturnCode != 0 {
			c.errors.WithLabelValues(e.Host, e.Plugin).Inc()
		}
	}
}

var _ tracing.Tracer = (*Collector)(nil)

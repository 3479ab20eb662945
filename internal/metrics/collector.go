// Package metrics exposes Prometheus metrics for mail delivery and query
// conversion.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the collector.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Listen    string `yaml:"listen"`
}

// Collector records metrics. It satisfies hql.Observer and
// mail.StatusObserver.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	mailStatuses     *prometheus.CounterVec
	conversions      prometheus.Counter
	unsupportedNodes prometheus.Counter
	boundParams      prometheus.Histogram
}

// NewCollector creates a collector registered on registry. A nil registry
// selects a fresh one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "wikistream"
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,
		mailStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "mail",
			Name:      "status_total",
			Help:      "Mail statuses recorded, by state.",
		}, []string{"state"}),
		conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "hql",
			Name:      "conversions_total",
			Help:      "Expression trees converted to HQL.",
		}),
		unsupportedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "hql",
			Name:      "unsupported_nodes_total",
			Help:      "Expression nodes the converter could not render.",
		}),
		boundParams: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "hql",
			Name:      "bound_parameters",
			Help:      "Named parameters bound per converted query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
	}

	registry.MustRegister(c.mailStatuses, c.conversions, c.unsupportedNodes, c.boundParams)
	return c
}

// MailStatusRecorded implements mail.StatusObserver.
func (c *Collector) MailStatusRecorded(state string) {
	if !c.enabled {
		return
	}
	c.mailStatuses.WithLabelValues(state).Inc()
}

// ConversionCompleted implements hql.Observer.
func (c *Collector) ConversionCompleted(params, unsupported int) {
	if !c.enabled {
		return
	}
	c.conversions.Inc()
	c.unsupportedNodes.Add(float64(unsupported))
	c.boundParams.Observe(float64(params))
}

// Registry returns the registry the collector registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

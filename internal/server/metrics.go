package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry   *prometheus.Registry
	insertions *prometheus.CounterVec
	invalid    *prometheus.CounterVec
	render     *prometheus.HistogramVec
	nodes      *prometheus.GaugeVec
}

// newMetrics uses its own registry so several servers can coexist in one process
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		insertions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treeplot",
			Name:      "insertions_total",
			Help:      "Accepted insertions by structure.",
		}, []string{"structure"}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treeplot",
			Name:      "invalid_insertions_total",
			Help:      "Insertions rejected because a value was not an integer.",
		}, []string{"structure"}),
		render: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "treeplot",
			Name:      "render_duration_seconds",
			Help:      "Time spent drawing and encoding a tree image.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"structure"}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "treeplot",
			Name:      "tree_nodes",
			Help:      "Current number of nodes by structure.",
		}, []string{"structure"}),
	}
	m.registry.MustRegister(m.insertions, m.invalid, m.render, m.nodes)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

package cooldown

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	items       prometheus.Gauge
	itemsPushed prometheus.Counter
	flushes     *prometheus.CounterVec
	batchSize   prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer, namespace, subsystem string) *metrics {
	registerer = prometheus.WrapRegistererWith(
		prometheus.Labels{"component": "cooldown"},
		registerer,
	)

	m := metrics{
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items",
			Help:      "Number of items buffered since the last flush",
		}),
		itemsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_pushed",
			Help:      "Number of items received from producers",
		}),
		flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "flushes",
			Help:      "Number of delivered batches",
		}, []string{"trigger"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_size",
			Help:      "Size of delivered batches",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.items,
			m.itemsPushed,
			m.flushes,
			m.batchSize,
		)
	}

	return &m
}

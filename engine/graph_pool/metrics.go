package graph_pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("oxyanim.graph_pool")

var (
	// graphUpdatesTotal counts individual graph instance updates.
	graphUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oxyanim_graph_updates_total",
		Help: "Total graph instance updates",
	})

	// updateAllDuration tracks the wall time of one UpdateAll pass over every instance.
	updateAllDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oxyanim_graph_pool_update_duration_seconds",
		Help:    "Duration of one pool-wide graph update in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12), // 50us to ~100ms
	})

	// liveInstances tracks the number of graph instances owned by pools.
	liveInstances = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oxyanim_graph_instances",
		Help: "Number of live graph instances",
	})

	// spawnErrors counts failed instantiations.
	spawnErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oxyanim_graph_spawn_errors_total",
		Help: "Total failed graph instantiations",
	})
)

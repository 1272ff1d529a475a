package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the outcomes users see. Labels stay low-cardinality: operation
// names and outcome classes only, never emails or queries.
var (
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgrid_auth_attempts_total",
		Help: "Session gate operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	GridLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgrid_grid_loads_total",
		Help: "Grid load attempts by outcome.",
	}, []string{"outcome"})

	GridReorders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgrid_grid_reorders_total",
		Help: "Grid reorder requests by outcome.",
	}, []string{"outcome"})
)

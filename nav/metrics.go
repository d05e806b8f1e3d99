package nav

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchTotal counts searches by how they ended.
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_pathfind_search_total",
		Help: "Total pathfinding searches by result",
	}, []string{"result"})

	searchExpansions = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lumen_pathfind_expansions",
		Help:    "Nodes expanded per pathfinding search",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	})
)

func observeSearch(reason Reason, expansions int) {
	searchTotal.WithLabelValues(reason.String()).Inc()
	searchExpansions.Observe(float64(expansions))
}

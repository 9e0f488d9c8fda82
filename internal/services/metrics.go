package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// searchQueries counts non-blank searches by scope ("all" or "chapter").
	searchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of verse searches.",
		},
		[]string{"scope"},
	)

	// searchResults records how many verses each search matched.
	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results",
			Help:    "Number of verses matched per search.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)

	// corpusVerses gauges the size of the loaded corpus.
	corpusVerses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_verses",
			Help: "Number of verses in the loaded corpus.",
		},
	)
)

func init() {
	prometheus.MustRegister(searchQueries, searchResults, corpusVerses)
}

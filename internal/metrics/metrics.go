package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usce_listing_queries_total",
			Help: "Total number of listing queries by sort key",
		},
		[]string{"sort"},
	)

	ListingMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "usce_listing_matches",
			Help:    "Number of programs matching a listing query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	ChatStreams = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usce_chat_streams_total",
			Help: "Total number of chat streams by terminal state",
		},
		[]string{"state"},
	)

	ChatFragments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "usce_chat_fragments_total",
			Help: "Total number of fragments relayed to callers",
		},
	)

	ChatStreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "usce_chat_stream_duration_seconds",
			Help: "Duration of chat streams in seconds",
		},
	)

	EnrichedPrograms = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usce_enriched_programs_total",
			Help: "Total number of programs processed by the enrichment batch",
		},
		[]string{"outcome"},
	)
)

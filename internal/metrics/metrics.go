// Package metrics exposes Prometheus collectors shared by the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts outbound Data API requests by endpoint and outcome.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_api_requests_total",
		Help: "Total YouTube Data API requests issued, by endpoint and status.",
	}, []string{"endpoint", "status"})

	// RowsUpserted counts rows written per table across all committed runs.
	RowsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_rows_upserted_total",
		Help: "Total rows upserted into the store, by table.",
	}, []string{"table"})

	// HarvestRuns counts pipeline runs by outcome.
	HarvestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_runs_total",
		Help: "Total harvest runs, by outcome.",
	}, []string{"outcome"})

	// CommentFetchSkips counts videos whose comment fetch was skipped.
	CommentFetchSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_comment_fetch_skips_total",
		Help: "Total videos skipped during comment harvesting.",
	})
)

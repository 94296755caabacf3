package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hypnoscale"

var (
	// PagesFetched counts backend pages read per source table.
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_pages_total",
		Help:      "Pages read from the backend, by source.",
	}, []string{"source"})

	// PageCeilingHits counts fetches stopped by the page ceiling while more rows were available.
	PageCeilingHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_page_ceiling_hits_total",
		Help:      "Fetches truncated by the page ceiling, by source.",
	}, []string{"source"})

	// ViewLoads counts view loads by outcome: ok, error, superseded or cached.
	ViewLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_loads_total",
		Help:      "View loads by view and outcome.",
	}, []string{"view", "outcome"})

	// ViewLoadDuration observes how long a view takes to build.
	ViewLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_load_duration_seconds",
		Help:      "Time spent building a view.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"view"})

	// HTTPRequests counts handled requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// OrdersSynced counts orders seen by the sync pipeline by result.
	OrdersSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_synced_total",
		Help:      "Orders processed by the sync pipeline, by result.",
	}, []string{"result"})

	// AdInsightsSynced counts ad insight rows written by the ad spend sync.
	AdInsightsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ad_insights_synced_total",
		Help:      "Ad insight rows processed by the ad spend sync, by result.",
	}, []string{"result"})

	// StockShortfall counts units that could not be deducted from any batch.
	StockShortfall = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_shortfall_units_total",
		Help:      "Units sold without an active batch to deduct from, by base product.",
	}, []string{"base_product"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

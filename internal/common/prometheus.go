package common

import "github.com/prometheus/client_golang/prometheus"

const (
	MetadataFetchFailure         = "metadata_fetch_failure_total"
	MarketplaceRefreshTotal      = "marketplace_refresh_total"
	BlockchainTransactionFailure = "blockchain_transaction_failure"
	MarketplaceRefreshDuration   = "marketplace_refresh_duration_seconds"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		MetadataFetchFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetadataFetchFailure,
			Help: "Count of token metadata documents that could not be fetched",
		}, []string{"source"}),
		MarketplaceRefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MarketplaceRefreshTotal,
			Help: "Count of listing and owned token refreshes",
		}, []string{"kind", "result"}),
		BlockchainTransactionFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BlockchainTransactionFailure,
			Help: "Count of all blockchain transaction failure",
		}, []string{"method"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		MarketplaceRefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: MarketplaceRefreshDuration,
			Help: "Duration of listing and owned token refreshes",
		}, []string{"kind"}),
	}
)

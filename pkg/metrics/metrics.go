package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	desk = "desk"

	// Refresh metrics
	refreshTotal   = "refresh_total"
	canonicalItems = "canonical_items"

	// Supplier metrics
	supplierSearchTotal = "supplier_search_total"

	// Notification metrics
	notificationsTotal = "notifications_total"

	// Labels
	kindLabel   = "kind"
	resultLabel = "result"
)

// Refresh results
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDropped = "dropped"
	ResultEmpty   = "empty"
)

var refreshTotalLabels = []string{
	kindLabel,
	resultLabel,
}

var canonicalItemsLabels = []string{
	kindLabel,
}

var supplierSearchTotalLabels = []string{
	resultLabel,
}

var notificationsTotalLabels = []string{
	kindLabel,
}

/**
* Metrics definition
**/
var refreshTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: desk,
		Name:      refreshTotal,
		Help:      "number of canonical collection refreshes partitioned by entity kind and result",
	},
	refreshTotalLabels,
)

var canonicalItemsMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: desk,
		Name:      canonicalItems,
		Help:      "number of entities held in each canonical collection",
	},
	canonicalItemsLabels,
)

var supplierSearchTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: desk,
		Name:      supplierSearchTotal,
		Help:      "number of supplier searches issued by the lookup cache",
	},
	supplierSearchTotalLabels,
)

var notificationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: desk,
		Name:      notificationsTotal,
		Help:      "number of notifications shown partitioned by kind",
	},
	notificationsTotalLabels,
)

func IncreaseRefreshTotalMetric(kind, result string) {
	labels := prometheus.Labels{
		kindLabel:   kind,
		resultLabel: result,
	}
	refreshTotalMetric.With(labels).Inc()
}

func UpdateCanonicalItemsMetric(kind string, count int) {
	labels := prometheus.Labels{
		kindLabel: kind,
	}
	canonicalItemsMetric.With(labels).Set(float64(count))
}

func IncreaseSupplierSearchTotalMetric(result string) {
	labels := prometheus.Labels{
		resultLabel: result,
	}
	supplierSearchTotalMetric.With(labels).Inc()
}

func IncreaseNotificationsTotalMetric(kind string) {
	labels := prometheus.Labels{
		kindLabel: kind,
	}
	notificationsTotalMetric.With(labels).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(refreshTotalMetric)
	prometheus.MustRegister(canonicalItemsMetric)
	prometheus.MustRegister(supplierSearchTotalMetric)
	prometheus.MustRegister(notificationsTotalMetric)
	prometheus.MustRegister(clientRequestsMetric)
	prometheus.MustRegister(clientLatencyMetric)
}

package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"lemonshop_server/structs"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
)

var (
	StoreWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lemonshop",
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Blob writes by blob kind and result",
		},
		[]string{"blob", "result"},
	)

	CatalogSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lemonshop",
			Subsystem: "catalog",
			Name:      "records",
			Help:      "Records in the last written snapshot",
		},
		[]string{"collection"},
	)
)

// RecordSnapshot sets the catalog gauges from snap
func RecordSnapshot(snap structs.Snapshot) {
	CatalogSize.WithLabelValues("products").Set(float64(len(snap.Products)))
	CatalogSize.WithLabelValues("categories").Set(float64(len(snap.Categories)))
	CatalogSize.WithLabelValues("orders").Set(float64(len(snap.Orders)))
	CatalogSize.WithLabelValues("users").Set(float64(len(snap.Users)))
}

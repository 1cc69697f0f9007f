package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_catalog_operations_total",
		Help: "Catalog operations by kind.",
	}, []string{"operation"})

	recordsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookshelf_catalog_records",
		Help: "Number of records currently held by the catalog.",
	})

	loadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_catalog_load_failures_total",
		Help: "Loads that failed and left the catalog empty.",
	})

	saveFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_catalog_save_failures_total",
		Help: "Saves that failed; memory and storage may have diverged.",
	})
)

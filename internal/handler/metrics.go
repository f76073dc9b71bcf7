package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	shipmentsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "freight_service",
		Subsystem: "shipments",
		Name:      "published_total",
		Help:      "Total number of shipments published for offers.",
	})

	offersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "freight_service",
		Subsystem: "offers",
		Name:      "created_total",
		Help:      "Total number of offers placed by carriers.",
	})

	offersAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "freight_service",
		Subsystem: "offers",
		Name:      "accepted_total",
		Help:      "Total number of offers accepted by shippers.",
	})
)

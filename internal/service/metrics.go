package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsDispatched = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "freight_service",
	Subsystem: "notifier",
	Name:      "notifications_dispatched_total",
	Help:      "Total number of notifications fanned out to recipients.",
})

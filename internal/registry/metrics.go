package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_refreshes_total",
			Help: "Viewport refreshes by outcome",
		},
		[]string{"outcome"},
	)

	staleResponsesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_stale_responses_dropped_total",
			Help: "Refresh responses discarded because a newer refresh was already issued",
		},
	)

	locationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_locations_created_total",
			Help: "Locations created through the registry",
		},
	)
)

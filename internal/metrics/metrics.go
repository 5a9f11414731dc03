package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnswersEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quizify_answers_evaluated_total",
		Help: "Answer submissions evaluated, labeled by points earned.",
	}, []string{"points"})

	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizify_points_awarded_total",
		Help: "Total points awarded by the local evaluator.",
	})

	HubEventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quizify_hub_events_received_total",
		Help: "Hub events received, labeled by event name.",
	}, []string{"event"})

	HubEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizify_hub_events_dropped_total",
		Help: "Hub events dropped due to malformed payloads.",
	})

	HubReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizify_hub_reconnects_total",
		Help: "Hub reconnection attempts.",
	})

	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quizify_search_requests_total",
		Help: "Catalog search requests, labeled by field and outcome.",
	}, []string{"field", "outcome"})
)

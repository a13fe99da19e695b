package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_listings_created_total",
		Help: "Total number of listings successfully created.",
	},
		[]string{"kind"},
	)

	BookingRequestsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_booking_requests_created_total",
		Help: "Total number of booking requests successfully created.",
	},
		[]string{"kind"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_booking_transitions_total",
		Help: "Total number of booking status transitions by target status.",
	},
		[]string{"status"},
	)

	BookingsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightmarket_bookings_purged_total",
		Help: "Total number of bookings removed after both parties deleted them.",
	})

	ReviewsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightmarket_reviews_created_total",
		Help: "Total number of reviews successfully created.",
	})

	NotificationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightmarket_notifications_created_total",
		Help: "Total number of persisted notifications.",
	})

	NotificationsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_notifications_dropped_total",
		Help: "Total number of notifications skipped before persistence.",
	},
		[]string{"reason"},
	)

	NotificationPushFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "freightmarket_notification_push_failures_total",
		Help: "Total number of failed real-time notification pushes.",
	})

	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "freightmarket_websocket_connections",
		Help: "Current number of open notification websocket connections.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ListingCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "freightmarket_listing_cache_items",
		Help: "Current number of items in the listing cache.",
	})

	OutboxTasksProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_outbox_tasks_processed_total",
		Help: "Total number of outbox tasks handled by the publisher, by result.",
	},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_http_requests_total",
		Help: "Total number of authenticated API requests by route and status code.",
	},
		[]string{"route", "code"},
	)

	AuditEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightmarket_audit_entries_total",
		Help: "Total number of audit entries by outcome.",
	},
		[]string{"result"},
	)
)

package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relyexchange"

var (
	ContactsImported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contacts_imported_total",
		Help:      "Contact rows written by CSV imports.",
	})

	ContactsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contacts_skipped_total",
		Help:      "Contact rows dropped by the phone number filter during CSV imports.",
	})

	PostEdges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_edges_total",
		Help:      "Mention and share edges written, by relation and target kind.",
	}, []string{"relation", "kind"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Notifications queued to websocket clients, by event kind.",
	}, []string{"kind"})
)

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

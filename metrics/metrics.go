package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mercadoya",
		Name:      "orders_placed_total",
		Help:      "Total number of orders successfully placed.",
	})
	OrderStatusUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mercadoya",
		Name:      "order_status_updates_total",
		Help:      "Total number of successful order status transitions.",
	})
	BroadcastsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mercadoya",
		Name:      "realtime_broadcasts_total",
		Help:      "Total number of websocket messages delivered to clients.",
	})
	PushSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mercadoya",
		Name:      "push_notifications_sent_total",
		Help:      "Total number of web push notifications accepted by the push service.",
	})
	PushPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mercadoya",
		Name:      "push_subscriptions_pruned_total",
		Help:      "Total number of stale web push subscriptions removed.",
	})
)

func init() {
	prometheus.MustRegister(OrdersPlaced, OrderStatusUpdates, BroadcastsSent, PushSent, PushPruned)
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "easyshop",
		Name:      "orders_placed_total",
		Help:      "Total number of carts converted into orders.",
	})

	// PaymentWebhooks counts webhook deliveries by provider and outcome:
	// applied, duplicate, ignored, rejected, anomaly.
	PaymentWebhooks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "easyshop",
		Name:      "payment_webhooks_total",
		Help:      "Total number of payment webhook deliveries processed.",
	}, []string{"provider", "result"})

	CheckoutSessions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "easyshop",
		Name:      "checkout_sessions_total",
		Help:      "Total number of hosted checkout session attempts.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(OrdersPlaced, PaymentWebhooks, CheckoutSessions)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

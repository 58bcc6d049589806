package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout counts checkout outcomes and stock rejections.
type Checkout struct {
	Attempts  *prometheus.CounterVec
	Conflicts prometheus.Counter
}

// NewCheckout builds the collectors and registers them with the default
// registry.
func NewCheckout() *Checkout {
	c := &Checkout{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "checkout",
			Name:      "conflict_retries_total",
			Help:      "Transient transaction conflicts retried during checkout.",
		}),
	}
	prometheus.MustRegister(c.Attempts, c.Conflicts)
	return c
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "parentconnect", Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "parentconnect", Name: "handler_errors_total", Help: "Handler errors",
	})
	ValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parentconnect", Name: "validation_failures_total", Help: "Booking rule rejections by wizard step",
	}, []string{"step"})
	Submissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "parentconnect", Name: "submissions_total", Help: "Successfully committed appointment requests",
	})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, ValidationFailures, Submissions)
}

func Handler() http.Handler { return promhttp.Handler() }

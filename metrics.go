package styxl

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "styxl_requests_total",
		Help: "9P2000.L requests dispatched to a back-end, by message type.",
	}, []string{"type"})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "styxl_errors_total",
		Help: "Rlerror replies emitted, by message type.",
	}, []string{"type"})

	requestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "styxl_requests_in_flight",
		Help: "Requests dispatched to the back-end but not yet replied to.",
	})

	connectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "styxl_connections_total",
		Help: "Connections accepted by the Acceptor.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, errorsTotal, requestsInFlight, connectionsTotal)
}

func observeRequest(msgType string) func(err error) {
	requestsTotal.WithLabelValues(msgType).Inc()
	requestsInFlight.Inc()
	return func(err error) {
		requestsInFlight.Dec()
		if err != nil {
			errorsTotal.WithLabelValues(msgType).Inc()
		}
	}
}

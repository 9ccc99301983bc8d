package monitoring

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	flightsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flights_generated_total",
			Help: "Flights created from templates",
		},
		[]string{"template"},
	)

	seatsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_generated_total",
			Help: "Seat records generated for flights",
		},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_status_transitions_total",
			Help: "Flight status transitions by new status",
		},
		[]string{"status"},
	)
)

// ObserveFlightGenerated counts one flight created from a template.
func ObserveFlightGenerated(templateName string, seatCount int) {
	flightsGenerated.WithLabelValues(templateName).Inc()
	seatsGenerated.Add(float64(seatCount))
}

// ObserveStatusTransition counts one flight status change.
func ObserveStatusTransition(newStatus string) {
	statusTransitions.WithLabelValues(newStatus).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack forwards connection takeover to the wrapped writer so websocket
// upgrades keep working behind the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

// Middleware records request counts and latency, labelled by the matched
// route template rather than the raw path so IDs don't explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

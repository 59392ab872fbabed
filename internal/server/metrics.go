package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_http_requests_total",
	Help: "Number of HTTP requests handled, by route and status code",
}, []string{"method", "route", "code"})

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "marquee_http_request_duration_seconds",
	Help:    "Latency of HTTP requests, by route",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

var catalogChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marquee_catalog_changes_total",
	Help: "Number of catalog writes broadcast to websocket clients",
}, []string{"entity", "kind"})

var wsClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "marquee_websocket_clients",
	Help: "Number of connected websocket clients",
})

func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Run the error handler so the recorded status is final.
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}

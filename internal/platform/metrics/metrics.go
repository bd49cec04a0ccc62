// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus collectors exported by the API server.

Collectors live on a private registry so tests can build as many instances as
they like without tripping duplicate registration panics.

Exported series:

  - vidora_http_requests_total{method,route,status}
  - vidora_http_request_duration_seconds{method,route}
  - vidora_auth_events_total{event,result}
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vidora"

// Auth event names recorded by [Metrics.AuthEvent].
const (
	EventRegister       = "register"
	EventLogin          = "login"
	EventRefresh        = "refresh"
	EventLogout         = "logout"
	EventPasswordChange = "password_change"
)

// Auth event results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultReplay  = "replay"
)

// Metrics groups the collectors and the registry they are registered on.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authEvents      *prometheus.CounterVec
}

// New creates and registers every collector on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	metrics := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication lifecycle events by kind and outcome.",
		}, []string{"event", "result"}),
	}

	registry.MustRegister(
		metrics.requestsTotal,
		metrics.requestDuration,
		metrics.authEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics
}

// ObserveRequest records one finished HTTP request.
func (metrics *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if metrics == nil {
		return
	}
	metrics.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	metrics.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// AuthEvent records one authentication lifecycle event. A nil receiver is a no-op.
func (metrics *Metrics) AuthEvent(event, result string) {
	if metrics == nil {
		return
	}
	metrics.authEvents.WithLabelValues(event, result).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

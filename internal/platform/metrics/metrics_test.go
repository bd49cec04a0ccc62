// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/metrics"
)

/*
TestMetrics_Counters verifies that observations land on the registry.
*/
func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()

	m.ObserveRequest(http.MethodGet, "/api/v1/videos", http.StatusOK, 20*time.Millisecond)
	m.AuthEvent(metrics.EventRefresh, metrics.ResultReplay)
	m.AuthEvent(metrics.EventRefresh, metrics.ResultReplay)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if counter := metric.GetCounter(); counter != nil {
				values[family.GetName()] += counter.GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["vidora_auth_events_total"])
	assert.Equal(t, 1.0, values["vidora_http_requests_total"])
}

/*
TestMetrics_NilSafe verifies that a nil collector set can be passed around freely.
*/
func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.AuthEvent(metrics.EventLogin, metrics.ResultSuccess)
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}

/*
TestMetrics_Handler verifies the exposition endpoint.
*/
func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.AuthEvent(metrics.EventLogin, metrics.ResultSuccess)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `vidora_auth_events_total{event="login",result="success"} 1`)
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func matchesLabels(metric *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, label := range metric.GetLabel() {
		got[label.GetName()] = label.GetValue()
	}
	for name, value := range want {
		if got[name] != value {
			return false
		}
	}
	return true
}

func fetchCounterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	family := findMetricFamily(t, reg, name)
	if family == nil {
		t.Fatalf("metric family %s not found", name)
	}
	for _, metric := range family.GetMetric() {
		if matchesLabels(metric, labels) {
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("no %s sample with labels %v", name, labels)
	return 0
}

func fetchHistogramCount(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) uint64 {
	t.Helper()
	family := findMetricFamily(t, reg, name)
	if family == nil {
		t.Fatalf("metric family %s not found", name)
	}
	for _, metric := range family.GetMetric() {
		if matchesLabels(metric, labels) {
			return metric.GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("no %s sample with labels %v", name, labels)
	return 0
}

func TestHTTPMetricsObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := NewHTTPMetrics(reg)

	httpMetrics.ObserveRequest("GET", "/api/v1/catalog", 200, 30*time.Millisecond)
	httpMetrics.ObserveRequest("GET", "/api/v1/catalog", 200, 50*time.Millisecond)
	httpMetrics.ObserveRequest("POST", "/api/v1/cart/items", 201, 10*time.Millisecond)

	catalogLabels := map[string]string{"method": "GET", "route": "/api/v1/catalog", "status": "200"}
	if got := fetchCounterValue(t, reg, "http_requests_total", catalogLabels); got != 2 {
		t.Fatalf("expected 2 catalog requests, got %v", got)
	}

	cartLabels := map[string]string{"method": "POST", "route": "/api/v1/cart/items", "status": "201"}
	if got := fetchCounterValue(t, reg, "http_requests_total", cartLabels); got != 1 {
		t.Fatalf("expected 1 cart request, got %v", got)
	}

	durationLabels := map[string]string{"method": "GET", "route": "/api/v1/catalog"}
	if got := fetchHistogramCount(t, reg, "http_request_duration_seconds", durationLabels); got != 2 {
		t.Fatalf("expected 2 duration samples, got %d", got)
	}
}

func TestHTTPMetricsNormalizesEmptyRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := NewHTTPMetrics(reg)

	httpMetrics.ObserveRequest("GET", "", 404, time.Millisecond)

	labels := map[string]string{"method": "GET", "route": "unknown", "status": "404"}
	if got := fetchCounterValue(t, reg, "http_requests_total", labels); got != 1 {
		t.Fatalf("expected normalized route sample, got %v", got)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var nilMetrics *HTTPMetrics
	nilMetrics.ObserveRequest("GET", "/", 200, time.Millisecond)

	unregistered := NewHTTPMetrics(nil)
	unregistered.ObserveRequest("GET", "/", 200, time.Millisecond)
}

func TestRefreshMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	refresh := NewRefreshMetrics(reg)

	refresh.ObserveDuration("catalog", 120*time.Millisecond)
	refresh.IncSuccess("catalog")
	refresh.IncSuccess("catalog")
	refresh.IncFailure("catalog")

	labels := map[string]string{"job": "catalog"}
	if got := fetchCounterValue(t, reg, "refresh_success", labels); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := fetchCounterValue(t, reg, "refresh_failure", labels); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := fetchHistogramCount(t, reg, "refresh_duration_seconds", labels); got != 1 {
		t.Fatalf("expected 1 duration sample, got %d", got)
	}
}

func TestRefreshMetricsNilSafe(t *testing.T) {
	var nilMetrics *RefreshMetrics
	nilMetrics.ObserveDuration("catalog", time.Millisecond)
	nilMetrics.IncSuccess("catalog")
	nilMetrics.IncFailure("catalog")
}

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.HTTPRequestsTotal.WithLabelValues("GET", "GET /api/products", "200").Inc()
	m.NotificationFailures.WithLabelValues("operator").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"catalog_http_requests_total",
		`catalog_notification_failures_total{kind="operator"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in exposition", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	// registering twice on the default registry would panic
	_ = New()
	_ = New()
}

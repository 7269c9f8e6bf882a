package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{302, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
		{100, "unknown"},
	}
	for _, tc := range tests {
		if got := classifyStatus(tc.code); got != tc.expected {
			t.Errorf("classifyStatus(%d) = %s, expected %s", tc.code, got, tc.expected)
		}
	}
}

func TestRecordRequestIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/test", "2xx"))
	RecordRequest("GET", "/test", 200, 10*time.Millisecond)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/test", "2xx"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestRecordReviewAndCache(t *testing.T) {
	RecordReview("approved")
	RecordCacheLookup(true)
	RecordCacheLookup(false)

	if testutil.ToFloat64(productReviews.WithLabelValues("approved")) < 1 {
		t.Error("expected approved review to be counted")
	}
	if testutil.ToFloat64(categoryTreeCache.WithLabelValues("hit")) < 1 {
		t.Error("expected cache hit to be counted")
	}
}

func TestMetricsHandlerExposesCounters(t *testing.T) {
	RecordRequest("POST", "/exposed", 201, time.Millisecond)

	w := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "marketplace_http_requests_total") {
		t.Error("expected request counter in metrics output")
	}
}

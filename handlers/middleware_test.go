package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vit0-9/domain_report/pkg/metrics"
)

func TestRateLimitAllowsThenRejectsSameClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	r := gin.New()
	r.Use(RateLimit(NewLimiterStore(0.02, 1), m))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := send("10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w := send("10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing")
	}
	if w := send("10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("other client: %d", w.Code)
	}
	if v := testutil.ToFloat64(m.RateLimitRejectsTotal); v != 1 {
		t.Fatalf("rejects = %v", v)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(nil, nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
}

func TestRequestMetricsCountsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	r := gin.New()
	r.Use(RequestMetrics(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/items/1", "/items/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	if v := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/items/:id", "200")); v != 2 {
		t.Fatalf("items = %v", v)
	}
	if v := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("unmatched", "404")); v != 1 {
		t.Fatalf("unmatched = %v", v)
	}
}

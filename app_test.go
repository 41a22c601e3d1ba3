package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/domain_report/pkg/metrics"
	"github.com/vit0-9/domain_report/pkg/report"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

type staticQuerier string

func (q staticQuerier) Query(context.Context, string, string) (string, error) {
	return string(q), nil
}

func newTestApp(rps float64) *App {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	b := &report.Builder{
		WhoisServers: domain.ServerTable{"default": {"whois.test"}},
		WhoisOptions: []domain.ResolverOption{
			domain.WithQuerier(staticQuerier("Domain Name: EXAMPLE.COM\n")),
			domain.WithTimeout(time.Second),
			domain.WithObserver(m),
		},
		Observer: m,
	}
	return NewApp(b, m, AppOptions{RateLimitRPS: rps, RateLimitBurst: 1})
}

func TestAppRoutes(t *testing.T) {
	app := newTestApp(0)

	for target, want := range map[string]int{
		"/api/v1/health":                          http.StatusOK,
		"/api/v1/domain/whois?domain=example.com": http.StatusOK,
		"/api/v1/domain/dns":                      http.StatusBadRequest,
		"/api/v1/domain/nope":                     http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != want {
			t.Fatalf("%s: status = %d, want %d", target, w.Code, want)
		}
	}

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	for _, want := range []string{
		`domainreport_whois_attempts_total{outcome="success",server="whois.test"} 1`,
		`domainreport_whois_lookups_total{outcome="success"} 1`,
		`domainreport_http_requests_total{code="200",route="/api/v1/domain/whois"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestAppRateLimitSkipsHealth(t *testing.T) {
	app := newTestApp(0.01)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/domain/whois?domain=example.com", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health rate limited: %d", w.Code)
	}
}

func TestAppServesSwaggerDoc(t *testing.T) {
	app := newTestApp(0)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, want := range []string{`"/domain/whois"`, `"/domain/report"`, `"models.WhoisLookupResponse"`, `"basePath": "/api/v1"`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("doc.json missing %s", want)
		}
	}
}

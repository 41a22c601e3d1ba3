package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

func TestObserveAttemptOutcomes(t *testing.T) {
	m := New()
	m.ObserveAttempt("a", time.Millisecond, nil)
	m.ObserveAttempt("a", time.Millisecond, &domain.WhoisError{Server: "a", Err: domain.ErrEmptyResponse})
	m.ObserveAttempt("b", time.Millisecond, fmt.Errorf("%w: refused", domain.ErrServerUnreachable))

	if v := testutil.ToFloat64(m.WhoisAttemptsTotal.WithLabelValues("a", "success")); v != 1 {
		t.Fatalf("a/success = %v", v)
	}
	if v := testutil.ToFloat64(m.WhoisAttemptsTotal.WithLabelValues("a", "empty")); v != 1 {
		t.Fatalf("a/empty = %v", v)
	}
	if v := testutil.ToFloat64(m.WhoisAttemptsTotal.WithLabelValues("b", "unreachable")); v != 1 {
		t.Fatalf("b/unreachable = %v", v)
	}
}

func TestObserveLookupAndHandler(t *testing.T) {
	m := New()
	m.ObserveLookup(nil)
	m.ObserveLookup(errors.New("exhausted"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`domainreport_whois_lookups_total{outcome="success"} 1`,
		`domainreport_whois_lookups_total{outcome="exhausted"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

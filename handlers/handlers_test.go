package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/domain_report/models"
	"github.com/vit0-9/domain_report/pkg/report"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

type querierFunc func(ctx context.Context, server, domain string) (string, error)

func (f querierFunc) Query(ctx context.Context, server, domain string) (string, error) {
	return f(ctx, server, domain)
}

// fakeWhois answers from replies keyed by server; unknown servers refuse.
func fakeWhois(replies map[string]string) querierFunc {
	return func(_ context.Context, server, _ string) (string, error) {
		body, ok := replies[server]
		if !ok {
			return "", errors.New("connection refused")
		}
		return body, nil
	}
}

func newTestRouter(q domain.Querier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	b := &report.Builder{
		WhoisServers: domain.ServerTable{"default": {"whois.one.test", "whois.two.test"}},
		WhoisOptions: []domain.ResolverOption{domain.WithQuerier(q), domain.WithTimeout(time.Second)},
	}
	dh := NewDomainHandlers(b)
	nh := NewNetworkHandlers(b)

	r := gin.New()
	r.GET("/whois", dh.WhoisLookupHandler)
	r.GET("/rdap", dh.RDAPLookupHandler)
	r.GET("/report", dh.ReportHandler)
	r.GET("/ssl", nh.SSLCheckHandler)
	r.GET("/ping", nh.PingHandler)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestWhoisLookupHandler(t *testing.T) {
	r := newTestRouter(fakeWhois(map[string]string{
		"whois.two.test": "% header\nDomain Name: EXAMPLE.COM\nRegistrar: Example Registrar\n",
	}))

	w := get(r, "/whois?domain=Example.COM")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	var resp models.WhoisLookupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Domain != "example.com" || resp.Server != "whois.two.test" || resp.Attempts != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(resp.Lines) != 2 || resp.Summary == nil || resp.Summary.Registrar != "Example Registrar" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestWhoisLookupHandlerServerOverride(t *testing.T) {
	var seen []string
	q := querierFunc(func(_ context.Context, server, _ string) (string, error) {
		seen = append(seen, server)
		return "Domain Name: EXAMPLE.COM\n", nil
	})
	r := newTestRouter(q)

	w := get(r, "/whois?domain=example.com&server=whois.two.test&server=whois.one.test")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Join(seen, ",") != "whois.two.test" {
		t.Fatalf("servers contacted = %v", seen)
	}
}

func TestWhoisLookupHandlerExhausted(t *testing.T) {
	r := newTestRouter(fakeWhois(map[string]string{"whois.one.test": "# only comments\n"}))

	w := get(r, "/whois?domain=example.com")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var resp models.WhoisLookupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != domain.FailureMessage || resp.ErrorCode != models.ErrCodeWhoisUnavailable {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestWhoisLookupHandlerRejectsUnknownServer(t *testing.T) {
	var dialed []string
	q := querierFunc(func(_ context.Context, server, _ string) (string, error) {
		dialed = append(dialed, server)
		return "INTERNAL-SECRET: redis-password=hunter2\n", nil
	})
	r := newTestRouter(q)

	for _, target := range []string{
		"/whois?domain=example.com&server=127.0.0.1:6379",
		"/whois?domain=example.com&server=whois.one.test&server=10.0.0.5",
	} {
		w := get(r, target)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", target, w.Code)
		}
		if strings.Contains(w.Body.String(), "INTERNAL-SECRET") {
			t.Fatalf("%s: reply leaked: %s", target, w.Body)
		}
	}
	if len(dialed) != 0 {
		t.Fatalf("servers contacted = %v", dialed)
	}
}

func TestDomainParamValidation(t *testing.T) {
	r := newTestRouter(fakeWhois(nil))
	for _, target := range []string{
		"/whois",
		"/whois?domain=bad_domain!",
		"/rdap?domain=-leading.com",
		"/report?domain=example.com&sections=weather",
		"/ssl",
		"/ssl?host=example.com&port=70000",
		"/ping?domain=example.com&count=50",
		"/ping?domain=example.com&backend=udp",
	} {
		w := get(r, target)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", target, w.Code)
		}
		var resp models.APIErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.ErrorCode != models.ErrCodeInvalidInput {
			t.Fatalf("%s: body = %s", target, w.Body)
		}
	}
}

func TestRDAPHandlerWithoutClient(t *testing.T) {
	r := newTestRouter(fakeWhois(nil))
	w := get(r, "/rdap?domain=example.com")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "not configured") {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
}

func TestReportHandlerSections(t *testing.T) {
	r := newTestRouter(fakeWhois(map[string]string{"whois.one.test": "Domain Name: EXAMPLE.COM\n"}))

	w := get(r, "/report?domain=example.com&sections=whois")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rep report.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Whois == nil || rep.Whois.Result == nil || rep.Whois.Result.Server != "whois.one.test" {
		t.Fatalf("whois = %+v", rep.Whois)
	}
	if rep.DNS != nil || rep.PublicIP != nil {
		t.Fatal("only the whois section should run")
	}
}

package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/miekg/dns"

	"github.com/vit0-9/domain_report/pkg/utils"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

type querierFunc func(ctx context.Context, server, domain string) (string, error)

func (f querierFunc) Query(ctx context.Context, server, domain string) (string, error) {
	return f(ctx, server, domain)
}

type recordingObserver struct {
	sections []string
	lookups  []error
}

func (o *recordingObserver) ObserveSection(section string, _ time.Duration) {
	o.sections = append(o.sections, section)
}

func (o *recordingObserver) ObserveLookup(err error) { o.lookups = append(o.lookups, err) }

func startDNSServer(t *testing.T, zone map[string][]string) string {
	t.Helper()

	records := make(map[string][]dns.RR)
	for name, rrs := range zone {
		for _, s := range rrs {
			rr, err := dns.NewRR(s)
			if err != nil {
				t.Fatalf("bad RR %q: %v", s, err)
			}
			records[dns.Fqdn(name)] = append(records[dns.Fqdn(name)], rr)
		}
	}

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(req)
			q := req.Question[0]
			rrs, ok := records[q.Name]
			if !ok {
				m.Rcode = dns.RcodeNameError
			}
			for _, rr := range rrs {
				if rr.Header().Rrtype == q.Qtype {
					m.Answer = append(m.Answer, rr)
				}
			}
			_ = w.WriteMsg(m)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("dns server did not start")
	}
	return pc.LocalAddr().String()
}

// startAcceptor accepts and immediately closes TCP connections.
func startAcceptor(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func offlineBuilder(t *testing.T, q domain.Querier, obs Observer) *Builder {
	t.Helper()

	dnsAddr := startDNSServer(t, map[string][]string{
		"example.test": {
			"example.test. 60 IN A 127.0.0.1",
			"example.test. 60 IN MX 10 mail.example.test.",
			`example.test. 60 IN TXT "hello"`,
		},
		"1.0.0.127.bl.test": {
			"1.0.0.127.bl.test. 60 IN A 127.0.0.2",
			`1.0.0.127.bl.test. 60 IN TXT "listed for testing"`,
		},
	})
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "203.0.113.7\n")
	}))
	t.Cleanup(ipSrv.Close)

	return &Builder{
		WhoisServers: domain.ServerTable{"default": {"whois.down.test", "whois.up.test"}},
		WhoisOptions: []domain.ResolverOption{domain.WithQuerier(q), domain.WithTimeout(time.Second)},
		DNS:          utils.NewDNSResolver(dnsAddr, time.Second),
		RecordTypes:  []string{"A", "MX", "TXT"},
		DNSBLZones:   []string{"bl.test", "clean.test"},
		Ping:         utils.PingOptions{Backend: utils.PingBackendTCP, Count: 2, Port: startAcceptor(t), Timeout: time.Second},
		PublicIPURL:  ipSrv.URL,
		Sections:     []string{SectionPublicIP, SectionWhois, SectionDNS, SectionHosting, SectionBlacklist, SectionPing},
		Observer:     obs,
	}
}

func TestBuildOfflineSections(t *testing.T) {
	q := querierFunc(func(_ context.Context, server, _ string) (string, error) {
		if server == "whois.down.test" {
			return "", errors.New("connection refused")
		}
		return "% header\nDomain Name: EXAMPLE.TEST\nRegistrar: Test Registrar\nName Server: NS1.EXAMPLE.TEST\n", nil
	})
	obs := &recordingObserver{}
	b := offlineBuilder(t, q, obs)

	rep := b.Build(context.Background(), domain.Domain("example.test"))

	if rep.PublicIP == nil || rep.PublicIP.IP != "203.0.113.7" {
		t.Fatalf("public ip = %+v", rep.PublicIP)
	}
	if rep.Whois == nil || rep.Whois.Error != "" || rep.Whois.Result.Server != "whois.up.test" {
		t.Fatalf("whois = %+v", rep.Whois)
	}
	if rep.Whois.Summary.Registrar != "Test Registrar" {
		t.Fatalf("registrar = %q", rep.Whois.Summary.Registrar)
	}
	if got := rep.DNS.Records["MX"]; len(got) != 1 || got[0].Priority != 10 {
		t.Fatalf("MX = %+v", got)
	}
	if len(rep.Hosting.Hosts) != 1 || !rep.Hosting.Hosts[0].IsLoopback {
		t.Fatalf("hosting = %+v", rep.Hosting)
	}

	var listed, clean int
	for _, r := range rep.Blacklist.Results {
		switch {
		case r.Listed && r.Zone == "bl.test" && r.Reason == "listed for testing":
			listed++
		case !r.Listed && r.Zone == "clean.test" && r.Error == "":
			clean++
		}
	}
	if listed != 1 || clean != 1 {
		t.Fatalf("blacklist = %+v", rep.Blacklist.Results)
	}

	if rep.Ping.Error != "" || rep.Ping.Stats.Received != 2 {
		t.Fatalf("ping = %+v / %+v", rep.Ping, rep.Ping.Stats)
	}
	if rep.RDAP != nil || rep.SSL != nil || rep.Web != nil {
		t.Fatal("unselected sections should stay nil")
	}

	wantSections := []string{SectionPublicIP, SectionWhois, SectionDNS, SectionHosting, SectionBlacklist, SectionPing}
	if strings.Join(obs.sections, ",") != strings.Join(wantSections, ",") {
		t.Fatalf("observed sections = %v", obs.sections)
	}
	if len(obs.lookups) != 1 || obs.lookups[0] != nil {
		t.Fatalf("observed lookups = %v", obs.lookups)
	}
}

func TestBuildWhoisExhausted(t *testing.T) {
	q := querierFunc(func(context.Context, string, string) (string, error) {
		return "# nothing here\n\n", nil
	})
	obs := &recordingObserver{}
	b := offlineBuilder(t, q, obs)
	b.Sections = []string{SectionWhois}

	rep := b.Build(context.Background(), domain.Domain("example.test"))

	if rep.Whois.Error != domain.FailureMessage || rep.Whois.Result != nil {
		t.Fatalf("whois = %+v", rep.Whois)
	}
	if len(obs.lookups) != 1 || !errors.Is(obs.lookups[0], domain.ErrAllServersExhausted) {
		t.Fatalf("observed lookups = %v", obs.lookups)
	}
}

func TestBuildCancelledContextSkipsSections(t *testing.T) {
	obs := &recordingObserver{}
	b := offlineBuilder(t, querierFunc(func(context.Context, string, string) (string, error) {
		return "Domain Name: X\n", nil
	}), obs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := b.Build(ctx, domain.Domain("example.test"))

	if rep.Whois != nil || rep.DNS != nil || len(obs.sections) != 0 {
		t.Fatalf("sections ran on a cancelled context: %+v", rep)
	}
}

func TestParseSections(t *testing.T) {
	got, err := ParseSections(" WHOIS, dns ,,")
	if err != nil || strings.Join(got, ",") != "whois,dns" {
		t.Fatalf("ParseSections = %v, %v", got, err)
	}
	if _, err := ParseSections("whois,weather"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteText(t *testing.T) {
	color.NoColor = true
	rep := &Report{
		Domain:      "example.test",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Whois:       &WhoisSection{Error: domain.FailureMessage},
		DNS: &DNSSection{
			Records: map[string][]utils.DNSRecord{"MX": {{Type: "MX", Value: "mail.example.test", Priority: 10}}},
			Errors:  map[string]string{"AAAA": "timeout"},
		},
		Blacklist: &BlacklistSection{Results: []utils.BlacklistResult{{IP: "127.0.0.1", Zone: "bl.test", Listed: true}}},
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, rep); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Domain report for example.test",
		"== WHOIS ==",
		domain.FailureMessage,
		"10 mail.example.test",
		"AAAA:",
		"LISTED on bl.test",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "== SSL") {
		t.Fatal("nil sections should not be rendered")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	rep := &Report{Domain: "example.test", PublicIP: &PublicIPSection{IP: "203.0.113.7"}}
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"ip": "203.0.113.7"`) || strings.Contains(buf.String(), `"whois"`) {
		t.Fatalf("json = %s", buf.String())
	}
}

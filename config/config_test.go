package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"WHOIS_SERVERS":    "whois.a.test, whois.b.test:4343,,",
		"WHOIS_TIMEOUT":    "3s",
		"WHOIS_BACKEND":    "Library",
		"DNSBL_ZONES":      "bl.one.test,bl.two.test",
		"PING_COUNT":       "2",
		"PING_BACKEND":     "TCP",
		"RATE_LIMIT_RPS":   "0.5",
		"RATE_LIMIT_BURST": "1",
		"PORT":             "9000",
	}))
	if err != nil {
		t.Fatal(err)
	}

	want := domain.ServerTable{"default": {"whois.a.test", "whois.b.test:4343"}}
	if !reflect.DeepEqual(cfg.Whois.Servers, want) {
		t.Fatalf("servers = %v", cfg.Whois.Servers)
	}
	if cfg.Whois.Timeout != 3*time.Second || cfg.Whois.Backend != BackendLibrary {
		t.Fatalf("whois = %+v", cfg.Whois)
	}
	if len(cfg.DNS.DNSBLZones) != 2 || cfg.Ping.Count != 2 || cfg.Ping.Backend != "tcp" || cfg.Server.Port != "9000" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Server.RateLimitRPS != 0.5 || cfg.Server.RateLimitBurst != 1 {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if _, ok := cfg.WhoisQuerier().(*domain.LibraryQuerier); !ok {
		t.Fatalf("querier = %T", cfg.WhoisQuerier())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestApplyEnvBadValues(t *testing.T) {
	for key, val := range map[string]string{
		"WHOIS_TIMEOUT":  "soon",
		"PING_PORT":      "https",
		"RATE_LIMIT_RPS": "fast",
	} {
		if err := Default().ApplyEnv(envMap(map[string]string{key: val})); err == nil {
			t.Fatalf("%s=%s should fail", key, val)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Whois.Servers = domain.ServerTable{"com": {"whois.verisign-grs.com"}}
	cfg.Whois.Timeout = 0
	cfg.Whois.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation errors")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")
	yml := `
whois:
  timeout: 7s
  servers:
    default: [whois.iana.org]
    nl: [whois.domain-registry.nl, whois.iana.org]
dns:
  resolver: 9.9.9.9
ping:
  count: 1
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Whois.Timeout != 7*time.Second || cfg.DNS.Resolver != "9.9.9.9" || cfg.Ping.Count != 1 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := cfg.Whois.Servers.For(domain.Domain("example.nl")); !reflect.DeepEqual(got, []string{"whois.domain-registry.nl", "whois.iana.org"}) {
		t.Fatalf("nl servers = %v", got)
	}
	if cfg.Ping.Port != 443 {
		t.Fatalf("unset fields should keep defaults, port = %d", cfg.Ping.Port)
	}
}

func TestLoadFileReplacesServerTable(t *testing.T) {
	t.Setenv("WHOIS_SERVERS", "")
	path := filepath.Join(t.TempDir(), "report.yaml")
	yml := "whois:\n  servers:\n    default: [my.whois.test]\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Whois.Servers) != 1 {
		t.Fatalf("servers = %v", cfg.Whois.Servers)
	}
	if got := cfg.Whois.Servers.For(domain.Domain("example.com")); !reflect.DeepEqual(got, []string{"my.whois.test"}) {
		t.Fatalf("com servers = %v", got)
	}
}

func TestLoadFileKeepsServerTableWhenUnset(t *testing.T) {
	t.Setenv("WHOIS_SERVERS", "")
	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := os.WriteFile(path, []byte("logLevel: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Whois.Servers, domain.DefaultWhoisServers) {
		t.Fatalf("servers = %v", cfg.Whois.Servers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

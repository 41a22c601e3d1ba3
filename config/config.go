package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vit0-9/domain_report/pkg/utils"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

// DefaultFile is read when no --config path is given and the file exists.
const DefaultFile = "domainreport.yaml"

const (
	BackendTCP     = "tcp"
	BackendLibrary = "library"
)

type Config struct {
	Whois       Whois  `yaml:"whois"`
	DNS         DNS    `yaml:"dns"`
	GeoIP       GeoIP  `yaml:"geoip"`
	Ping        Ping   `yaml:"ping"`
	Server      Server `yaml:"server"`
	PublicIPURL string `yaml:"publicIPURL"`
	LogLevel    string `yaml:"logLevel"`
}

type Whois struct {
	// Servers maps a TLD to its ordered fallback list; "default" covers the rest.
	Servers        domain.ServerTable `yaml:"servers"`
	Timeout        time.Duration      `yaml:"timeout"`
	Backend        string             `yaml:"backend"`
	FollowReferral bool               `yaml:"followReferral"`
	RDAPTimeout    time.Duration      `yaml:"rdapTimeout"`
}

type DNS struct {
	Resolver    string        `yaml:"resolver"`
	Timeout     time.Duration `yaml:"timeout"`
	DNSBLZones  []string      `yaml:"dnsblZones"`
	RecordTypes []string      `yaml:"recordTypes"`
}

type GeoIP struct {
	CityDB string `yaml:"cityDB"`
	ASNDB  string `yaml:"asnDB"`
}

type Ping struct {
	// Backend is "auto" (ICMP, TCP connect when ICMP is refused), "icmp" or "tcp".
	Backend string        `yaml:"backend"`
	Count   int           `yaml:"count"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

type Server struct {
	Port           string  `yaml:"port"`
	RateLimitRPS   float64 `yaml:"rateLimitRPS"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	servers := make(domain.ServerTable, len(domain.DefaultWhoisServers))
	for tld, list := range domain.DefaultWhoisServers {
		servers[tld] = append([]string(nil), list...)
	}
	return &Config{
		Whois: Whois{
			Servers:     servers,
			Timeout:     domain.DefaultWhoisTimeout,
			Backend:     BackendTCP,
			RDAPTimeout: 15 * time.Second,
		},
		DNS: DNS{
			Timeout:     5 * time.Second,
			DNSBLZones:  append([]string(nil), utils.DefaultDNSBLZones...),
			RecordTypes: append([]string(nil), utils.DefaultRecordTypes...),
		},
		Ping: Ping{
			Backend: utils.PingBackendAuto,
			Count:   4,
			Port:    443,
			Timeout: 3 * time.Second,
		},
		Server: Server{
			Port:           "8080",
			RateLimitRPS:   2,
			RateLimitBurst: 5,
		},
		PublicIPURL: utils.DefaultPublicIPURL,
		LogLevel:    "info",
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// process environment, in that order. An empty path reads DefaultFile only
// when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	// A servers block replaces the built-in table instead of merging into it.
	defaults := c.Whois.Servers
	c.Whois.Servers = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		c.Whois.Servers = defaults
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Whois.Servers == nil {
		c.Whois.Servers = defaults
	}
	return nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("WHOIS_SERVERS"); v != "" {
		c.Whois.Servers = domain.ServerTable{"default": splitList(v)}
	}
	if err := envDuration(getenv, "WHOIS_TIMEOUT", &c.Whois.Timeout); err != nil {
		return err
	}
	if v := getenv("WHOIS_BACKEND"); v != "" {
		c.Whois.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("DNS_RESOLVER"); v != "" {
		c.DNS.Resolver = strings.TrimSpace(v)
	}
	if err := envDuration(getenv, "DNS_TIMEOUT", &c.DNS.Timeout); err != nil {
		return err
	}
	if v := getenv("DNSBL_ZONES"); v != "" {
		c.DNS.DNSBLZones = splitList(v)
	}
	if err := envInt(getenv, "PING_COUNT", &c.Ping.Count); err != nil {
		return err
	}
	if err := envInt(getenv, "PING_PORT", &c.Ping.Port); err != nil {
		return err
	}
	if v := getenv("PING_BACKEND"); v != "" {
		c.Ping.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("PUBLIC_IP_URL"); v != "" {
		c.PublicIPURL = v
	}
	if v := getenv("MMDB_CITY_PATH"); v != "" {
		c.GeoIP.CityDB = v
	}
	if v := getenv("MMDB_ASN_PATH"); v != "" {
		c.GeoIP.ASNDB = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.Server.RateLimitRPS = rps
	}
	if err := envInt(getenv, "RATE_LIMIT_BURST", &c.Server.RateLimitBurst); err != nil {
		return err
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate rejects configurations the report cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Whois.Servers["default"]) == 0 {
		errs = append(errs, errors.New("whois.servers must have a non-empty \"default\" list"))
	}
	for tld, list := range c.Whois.Servers {
		if len(list) == 0 {
			errs = append(errs, fmt.Errorf("whois.servers[%s] is empty", tld))
		}
	}
	if c.Whois.Timeout <= 0 {
		errs = append(errs, errors.New("whois.timeout must be positive"))
	}
	if c.Whois.Backend != BackendTCP && c.Whois.Backend != BackendLibrary {
		errs = append(errs, fmt.Errorf("whois.backend must be %q or %q, got %q", BackendTCP, BackendLibrary, c.Whois.Backend))
	}
	if c.DNS.Timeout <= 0 {
		errs = append(errs, errors.New("dns.timeout must be positive"))
	}
	if c.Ping.Count <= 0 || c.Ping.Port <= 0 || c.Ping.Port > 65535 {
		errs = append(errs, errors.New("ping.count and ping.port must be positive, port at most 65535"))
	}
	if !utils.ValidPingBackend(c.Ping.Backend) {
		errs = append(errs, fmt.Errorf("ping.backend must be auto, icmp or tcp, got %q", c.Ping.Backend))
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit settings cannot be negative"))
	}
	return errors.Join(errs...)
}

// WhoisQuerier returns the query primitive selected by Whois.Backend.
func (c *Config) WhoisQuerier() domain.Querier {
	if c.Whois.Backend == BackendLibrary {
		return &domain.LibraryQuerier{Timeout: c.Whois.Timeout, FollowReferral: c.Whois.FollowReferral}
	}
	return &domain.TCPQuerier{}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDuration(getenv func(string) string, key string, dst *time.Duration) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func envInt(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

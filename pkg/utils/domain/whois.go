package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// FailureMessage is printed when a lookup exhausts every configured server.
const FailureMessage = "Failed to retrieve WHOIS information from all servers"

// DefaultWhoisTimeout bounds a single server attempt.
const DefaultWhoisTimeout = 10 * time.Second

var (
	ErrServerUnreachable   = errors.New("whois server unreachable")
	ErrEmptyResponse       = errors.New("empty whois response")
	ErrAllServersExhausted = errors.New("all whois servers exhausted")
	ErrNoServers           = errors.New("whois server list is empty")
)

// WhoisError records the failure of one server attempt.
type WhoisError struct {
	Domain string
	Server string
	Err    error
}

func (e *WhoisError) Error() string {
	return fmt.Sprintf("whois lookup failed for %s via %s: %v", e.Domain, e.Server, e.Err)
}

func (e *WhoisError) Unwrap() error { return e.Err }

// Querier sends one WHOIS query to one server and returns the raw reply.
type Querier interface {
	Query(ctx context.Context, server, domain string) (string, error)
}

// AttemptObserver is notified after every server attempt. err is nil on success.
type AttemptObserver interface {
	ObserveAttempt(server string, elapsed time.Duration, err error)
}

// ServerTable maps a TLD to its ordered fallback list. The "default" entry is
// used for TLDs without their own list.
type ServerTable map[string][]string

// DefaultWhoisServers is the built-in server table.
var DefaultWhoisServers = ServerTable{
	"com":     {"whois.verisign-grs.com", "whois.markmonitor.com", "whois.iana.org"},
	"net":     {"whois.verisign-grs.com", "whois.iana.org"},
	"org":     {"whois.pir.org", "whois.iana.org"},
	"info":    {"whois.afilias.net", "whois.iana.org"},
	"biz":     {"whois.neulevel.biz", "whois.iana.org"},
	"io":      {"whois.nic.io", "whois.iana.org"},
	"dev":     {"whois.nic.google", "whois.iana.org"},
	"default": {"whois.iana.org", "whois.internic.net"},
}

// For returns the ordered server list for d.
func (t ServerTable) For(d Domain) []string {
	if servers := t[d.TLD()]; len(servers) > 0 {
		return servers
	}
	return t["default"]
}

// Contains reports whether server appears in any of the table's lists.
// Names compare case-insensitively.
func (t ServerTable) Contains(server string) bool {
	server = strings.TrimSpace(server)
	for _, list := range t {
		for _, s := range list {
			if strings.EqualFold(s, server) {
				return true
			}
		}
	}
	return false
}

// Resolver retrieves WHOIS text from an ordered server list, falling back to
// the next server whenever one is unreachable or answers with nothing useful.
// A Resolver holds no state between lookups.
type Resolver struct {
	servers  []string
	timeout  time.Duration
	querier  Querier
	observer AttemptObserver
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithQuerier replaces the default TCP querier.
func WithQuerier(q Querier) ResolverOption {
	return func(r *Resolver) {
		if q != nil {
			r.querier = q
		}
	}
}

// WithObserver registers an observer for every attempt.
func WithObserver(o AttemptObserver) ResolverOption {
	return func(r *Resolver) { r.observer = o }
}

// NewResolver builds a resolver over servers, tried in the given order.
func NewResolver(servers []string, opts ...ResolverOption) (*Resolver, error) {
	list := make([]string, 0, len(servers))
	for _, s := range servers {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	if len(list) == 0 {
		return nil, ErrNoServers
	}

	r := &Resolver{
		servers: list,
		timeout: DefaultWhoisTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.querier == nil {
		r.querier = &TCPQuerier{}
	}
	return r, nil
}

// Servers returns a copy of the ordered server list.
func (r *Resolver) Servers() []string {
	return append([]string(nil), r.servers...)
}

// WhoisResult is a successful lookup.
type WhoisResult struct {
	Domain    string    `json:"domain"`
	Server    string    `json:"server"`
	Lines     []string  `json:"lines"`
	Attempts  int       `json:"attempts"`
	QueryTime time.Time `json:"query_time"`
}

type lookupState int

const (
	stateQuerying lookupState = iota
	stateSuccess
	stateExhausted
)

// Lookup walks the server list until one server yields a non-empty filtered
// response. Servers after the successful one are never contacted. When all of
// them fail the returned error matches ErrAllServersExhausted and wraps every
// per-server error.
func (r *Resolver) Lookup(ctx context.Context, d Domain) (*WhoisResult, error) {
	var (
		state    = stateQuerying
		idx      int
		lines    []string
		failures []error
	)

	for state == stateQuerying {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			state = stateExhausted
			break
		}

		server := r.servers[idx]
		out, err := r.attempt(ctx, server, d)
		if err == nil {
			lines = out
			state = stateSuccess
			break
		}

		logrus.WithFields(logrus.Fields{"domain": d, "server": server}).Debugf("whois attempt failed: %v", err)
		failures = append(failures, err)

		if idx++; idx == len(r.servers) {
			state = stateExhausted
		}
	}

	if state == stateExhausted {
		return nil, fmt.Errorf("%w: %s: %w", ErrAllServersExhausted, d, errors.Join(failures...))
	}

	return &WhoisResult{
		Domain:    d.String(),
		Server:    r.servers[idx],
		Lines:     lines,
		Attempts:  idx + 1,
		QueryTime: time.Now(),
	}, nil
}

func (r *Resolver) attempt(ctx context.Context, server string, d Domain) (lines []string, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r.observer != nil {
			r.observer.ObserveAttempt(server, time.Since(start), err)
		}
	}()

	raw, qerr := r.querier.Query(attemptCtx, server, d.String())
	if qerr != nil {
		if !errors.Is(qerr, ErrServerUnreachable) {
			qerr = fmt.Errorf("%w: %w", ErrServerUnreachable, qerr)
		}
		return nil, &WhoisError{Domain: d.String(), Server: server, Err: qerr}
	}

	lines = FilterResponse(raw)
	if len(lines) == 0 {
		return nil, &WhoisError{Domain: d.String(), Server: server, Err: ErrEmptyResponse}
	}
	return lines, nil
}

// FilterResponse splits raw into lines and drops blank lines and protocol
// comments (first non-blank character '%' or '#'). Order is preserved and
// trailing whitespace is trimmed, so FilterResponse is idempotent over its
// own joined output. Lines of any length are kept; the queriers bound the
// reply size.
func FilterResponse(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// WhoisInfo is a best-effort summary extracted from filtered WHOIS lines.
type WhoisInfo struct {
	Registrar      string    `json:"registrar,omitempty"`
	CreationDate   time.Time `json:"creation_date,omitzero"`
	ExpirationDate time.Time `json:"expiration_date,omitzero"`
	UpdatedDate    time.Time `json:"updated_date,omitzero"`
	NameServers    []string  `json:"name_servers,omitempty"`
	Status         []string  `json:"status,omitempty"`
	RegistrantOrg  string    `json:"registrant_org,omitempty"`
	DNSSEC         string    `json:"dnssec,omitempty"`
}

var whoisPatterns = []struct {
	field string
	re    *regexp.Regexp
}{
	{"registrar", regexp.MustCompile(`(?i)^\s*registrar:\s*(.+)$`)},
	{"created", regexp.MustCompile(`(?i)^\s*(?:creation date|created|registered on|registered):\s*(.+)$`)},
	{"expires", regexp.MustCompile(`(?i)^\s*(?:registry expiry date|registrar registration expiration date|expiration date|expiry date|expires on|expires|paid-till):\s*(.+)$`)},
	{"updated", regexp.MustCompile(`(?i)^\s*(?:updated date|last updated|last modified|changed|modified):\s*(.+)$`)},
	{"nserver", regexp.MustCompile(`(?i)^\s*(?:name server|nserver):\s*(\S+)`)},
	{"status", regexp.MustCompile(`(?i)^\s*(?:domain )?status:\s*(\S+)`)},
	{"org", regexp.MustCompile(`(?i)^\s*registrant organi[sz]ation:\s*(.+)$`)},
	{"dnssec", regexp.MustCompile(`(?i)^\s*dnssec:\s*(.+)$`)},
}

// ParseWhoisLines extracts the common registration fields. The first
// occurrence wins for scalar fields.
func ParseWhoisLines(lines []string) WhoisInfo {
	var info WhoisInfo
	for _, line := range lines {
		for _, p := range whoisPatterns {
			m := p.re.FindStringSubmatch(line)
			if len(m) < 2 {
				continue
			}
			v := strings.TrimSpace(m[1])
			switch p.field {
			case "registrar":
				if info.Registrar == "" {
					info.Registrar = v
				}
			case "created":
				if info.CreationDate.IsZero() {
					info.CreationDate = parseDate(v)
				}
			case "expires":
				if info.ExpirationDate.IsZero() {
					info.ExpirationDate = parseDate(v)
				}
			case "updated":
				if info.UpdatedDate.IsZero() {
					info.UpdatedDate = parseDate(v)
				}
			case "nserver":
				info.NameServers = appendUnique(info.NameServers, strings.TrimSuffix(strings.ToLower(v), "."))
			case "status":
				info.Status = appendUnique(info.Status, v)
			case "org":
				if info.RegistrantOrg == "" {
					info.RegistrantOrg = v
				}
			case "dnssec":
				if info.DNSSEC == "" {
					info.DNSSEC = v
				}
			}
			break
		}
	}
	return info
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2-Jan-2006",
	"January 02 2006",
	"2006/01/02",
	"2006.01.02",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

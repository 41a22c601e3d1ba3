package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DefaultRecordTypes is the record set queried when the caller names none.
var DefaultRecordTypes = []string{"A", "AAAA", "CNAME", "MX", "NS", "TXT", "SOA", "CAA"}

const fallbackDNSServer = "1.1.1.1:53"

type DNSRecord struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Priority uint16 `json:"priority,omitempty"` // For MX records
	TTL      uint32 `json:"ttl,omitempty"`
}

// ErrNXDomain is returned by Query when the name does not exist.
var ErrNXDomain = errors.New("no such domain")

// DNSError describes a failed query. It unwraps to ErrNXDomain for
// non-existent names and to the transport error otherwise.
type DNSError struct {
	Name   string
	Type   string
	Server string
	Err    error
}

func (e *DNSError) Error() string {
	return fmt.Sprintf("query %s %s via %s: %v", e.Type, e.Name, e.Server, e.Err)
}

func (e *DNSError) Unwrap() error { return e.Err }

// DNSResolver sends queries to a single recursive resolver.
type DNSResolver struct {
	Server  string
	Timeout time.Duration
}

// DefaultDNSServer returns the first nameserver of /etc/resolv.conf, or a
// public resolver when the file is unusable.
func DefaultDNSServer() string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return fallbackDNSServer
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

// NewDNSResolver returns a resolver for server ("host" or "host:port").
// An empty server selects DefaultDNSServer.
func NewDNSResolver(server string, timeout time.Duration) *DNSResolver {
	server = strings.TrimSpace(server)
	if server == "" {
		server = DefaultDNSServer()
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DNSResolver{Server: server, Timeout: timeout}
}

// Query asks for name/qtype and returns the answer section. A truncated UDP
// answer is retried over TCP.
func (r *DNSResolver) Query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)

	client := &dns.Client{Timeout: r.Timeout}
	in, _, err := client.ExchangeContext(ctx, msg, r.Server)
	if err == nil && in.Truncated {
		client.Net = "tcp"
		in, _, err = client.ExchangeContext(ctx, msg, r.Server)
	}
	if err == nil {
		switch in.Rcode {
		case dns.RcodeSuccess:
			return in.Answer, nil
		case dns.RcodeNameError:
			err = ErrNXDomain
		default:
			err = errors.New(dns.RcodeToString[in.Rcode])
		}
	}
	return nil, &DNSError{Name: name, Type: dns.TypeToString[qtype], Server: r.Server, Err: err}
}

// LookupDNSRecords queries every record type and collects per-type errors
// instead of stopping at the first one.
func (r *DNSResolver) LookupDNSRecords(ctx context.Context, domain string, recordTypes []string) (map[string][]DNSRecord, map[string]string) {
	if len(recordTypes) == 0 {
		recordTypes = DefaultRecordTypes
	}
	results := make(map[string][]DNSRecord)
	errs := make(map[string]string)

	for _, recordType := range recordTypes {
		normalized := strings.ToUpper(strings.TrimSpace(recordType))
		qtype, ok := dns.StringToType[normalized]
		if !ok {
			errs[recordType] = fmt.Sprintf("Unsupported record type: %s", recordType)
			continue
		}

		answers, err := r.Query(ctx, domain, qtype)
		if err != nil {
			errs[normalized] = err.Error()
			continue
		}
		for _, rr := range answers {
			if rr.Header().Rrtype != qtype {
				continue
			}
			results[normalized] = append(results[normalized], recordFromRR(rr))
		}
	}
	return results, errs
}

// LookupIPs returns the A and AAAA addresses of domain.
func (r *DNSResolver) LookupIPs(ctx context.Context, domain string) ([]net.IP, error) {
	var (
		ips  []net.IP
		errs []error
	)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		answers, err := r.Query(ctx, domain, qtype)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, rr := range answers {
			switch v := rr.(type) {
			case *dns.A:
				ips = append(ips, v.A)
			case *dns.AAAA:
				ips = append(ips, v.AAAA)
			}
		}
	}
	if len(ips) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ips, nil
}

// LookupAddr returns the PTR names of ip without the trailing dot.
func (r *DNSResolver) LookupAddr(ctx context.Context, ip net.IP) ([]string, error) {
	arpa, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return nil, err
	}
	answers, err := r.Query(ctx, arpa, dns.TypePTR)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, rr := range answers {
		if ptr, ok := rr.(*dns.PTR); ok {
			names = append(names, trimDot(ptr.Ptr))
		}
	}
	return names, nil
}

func recordFromRR(rr dns.RR) DNSRecord {
	hdr := rr.Header()
	rec := DNSRecord{Type: dns.TypeToString[hdr.Rrtype], TTL: hdr.Ttl}

	switch v := rr.(type) {
	case *dns.A:
		rec.Value = v.A.String()
	case *dns.AAAA:
		rec.Value = v.AAAA.String()
	case *dns.CNAME:
		rec.Value = trimDot(v.Target)
	case *dns.MX:
		rec.Value = trimDot(v.Mx)
		rec.Priority = v.Preference
	case *dns.NS:
		rec.Value = trimDot(v.Ns)
	case *dns.TXT:
		rec.Value = strings.Join(v.Txt, "")
	case *dns.SOA:
		rec.Value = fmt.Sprintf("%s %s %d %d %d %d %d", trimDot(v.Ns), trimDot(v.Mbox), v.Serial, v.Refresh, v.Retry, v.Expire, v.Minttl)
	case *dns.CAA:
		rec.Value = fmt.Sprintf("%d %s %q", v.Flag, v.Tag, v.Value)
	default:
		// Everything after the header, tab separated by miekg/dns.
		fields := strings.SplitN(rr.String(), "\t", 5)
		rec.Value = fields[len(fields)-1]
	}
	return rec
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}

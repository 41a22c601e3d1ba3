// Package report assembles the per-domain report out of the lookup helpers in
// pkg/utils. Sections run one after another and each carries its own error.
package report

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vit0-9/domain_report/pkg/utils"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

const (
	SectionPublicIP  = "public_ip"
	SectionWhois     = "whois"
	SectionRDAP      = "rdap"
	SectionDNS       = "dns"
	SectionSSL       = "ssl"
	SectionHosting   = "hosting"
	SectionBlacklist = "blacklist"
	SectionPing      = "ping"
	SectionWeb       = "web"
)

// AllSections lists every section in the order Build runs them.
var AllSections = []string{
	SectionPublicIP,
	SectionWhois,
	SectionRDAP,
	SectionDNS,
	SectionSSL,
	SectionHosting,
	SectionBlacklist,
	SectionPing,
	SectionWeb,
}

// ErrUnknownSection is returned by ParseSections.
var ErrUnknownSection = errors.New("unknown report section")

// Observer receives timings and WHOIS outcomes. *metrics.Metrics implements it.
type Observer interface {
	ObserveSection(section string, elapsed time.Duration)
	ObserveLookup(err error)
}

// RDAPLookuper is satisfied by *domain.RDAPClient.
type RDAPLookuper interface {
	Lookup(ctx context.Context, d domain.Domain) (*domain.RDAPInfo, error)
}

type PublicIPSection struct {
	IP    string `json:"ip,omitempty"`
	Error string `json:"error,omitempty"`
}

type WhoisSection struct {
	Result  *domain.WhoisResult `json:"result,omitempty"`
	Summary *domain.WhoisInfo   `json:"summary,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type RDAPSection struct {
	Info  *domain.RDAPInfo `json:"info,omitempty"`
	Error string           `json:"error,omitempty"`
}

type DNSSection struct {
	Records map[string][]utils.DNSRecord `json:"records,omitempty"`
	Errors  map[string]string            `json:"errors,omitempty"`
}

type SSLSection struct {
	Info  *domain.SSLInfo `json:"info,omitempty"`
	Error string          `json:"error,omitempty"`
}

type HostingSection struct {
	Hosts []utils.IPInfoData `json:"hosts,omitempty"`
	Error string             `json:"error,omitempty"`
}

type BlacklistSection struct {
	Results []utils.BlacklistResult `json:"results,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

type PingSection struct {
	Stats *utils.PingStats `json:"stats,omitempty"`
	Error string           `json:"error,omitempty"`
}

type WebSection struct {
	Hops         []utils.RedirectHop            `json:"hops,omitempty"`
	FinalURL     string                         `json:"final_url,omitempty"`
	Technologies []utils.DetectedTechnologyInfo `json:"technologies,omitempty"`
	Error        string                         `json:"error,omitempty"`
}

// Report is the outcome of Build. Sections that were not selected stay nil.
type Report struct {
	Domain      string    `json:"domain"`
	GeneratedAt time.Time `json:"generated_at"`

	PublicIP  *PublicIPSection  `json:"public_ip,omitempty"`
	Whois     *WhoisSection     `json:"whois,omitempty"`
	RDAP      *RDAPSection      `json:"rdap,omitempty"`
	DNS       *DNSSection       `json:"dns,omitempty"`
	SSL       *SSLSection       `json:"ssl,omitempty"`
	Hosting   *HostingSection   `json:"hosting,omitempty"`
	Blacklist *BlacklistSection `json:"blacklist,omitempty"`
	Ping      *PingSection      `json:"ping,omitempty"`
	Web       *WebSection       `json:"web,omitempty"`
}

// Builder holds everything a report needs. The zero value of each optional
// field disables or defaults the matching behaviour.
type Builder struct {
	WhoisServers domain.ServerTable
	WhoisOptions []domain.ResolverOption

	RDAP        RDAPLookuper
	DNS         *utils.DNSResolver
	RecordTypes []string
	GeoIP       *utils.GeoIP
	DNSBLZones  []string
	Ping        utils.PingOptions
	SSLPort     int
	SSLTimeout  time.Duration
	PublicIPURL string

	// Sections restricts Build to the named sections; empty means all.
	Sections []string

	Observer Observer
	Log      logrus.FieldLogger
}

// ParseSections validates a comma separated list of section names.
func ParseSections(list string) ([]string, error) {
	var out []string
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		known := false
		for _, s := range AllSections {
			if s == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
		}
		out = append(out, name)
	}
	return out, nil
}

func (b *Builder) enabled(section string) bool {
	if len(b.Sections) == 0 {
		return true
	}
	for _, s := range b.Sections {
		if s == section {
			return true
		}
	}
	return false
}

func (b *Builder) logger() logrus.FieldLogger {
	if b.Log != nil {
		return b.Log
	}
	return logrus.StandardLogger()
}

func (b *Builder) dnsResolver() *utils.DNSResolver {
	if b.DNS != nil {
		return b.DNS
	}
	return utils.NewDNSResolver("", 0)
}

// Whois runs the fallback resolver over servers, or over the list configured
// for d's TLD when servers is empty.
func (b *Builder) Whois(ctx context.Context, d domain.Domain, servers ...string) (*domain.WhoisResult, error) {
	if len(servers) == 0 {
		servers = b.serverTable().For(d)
	}
	resolver, err := domain.NewResolver(servers, b.WhoisOptions...)
	if err != nil {
		return nil, err
	}
	res, err := resolver.Lookup(ctx, d)
	if b.Observer != nil {
		b.Observer.ObserveLookup(err)
	}
	return res, err
}

// KnownWhoisServer reports whether server is part of the configured table.
func (b *Builder) KnownWhoisServer(server string) bool {
	return b.serverTable().Contains(server)
}

func (b *Builder) serverTable() domain.ServerTable {
	if b.WhoisServers == nil {
		return domain.DefaultWhoisServers
	}
	return b.WhoisServers
}

// LookupIPs resolves the A and AAAA addresses of d through the configured resolver.
func (b *Builder) LookupIPs(ctx context.Context, d domain.Domain) ([]net.IP, error) {
	return b.dnsResolver().LookupIPs(ctx, d.String())
}

// Build produces the report for d. It never fails as a whole; problems are
// recorded on the section they belong to.
func (b *Builder) Build(ctx context.Context, d domain.Domain) *Report {
	rep := &Report{Domain: d.String(), GeneratedAt: time.Now()}
	log := b.logger().WithField("domain", d.String())

	// Addresses found by the DNS section feed hosting, blacklist and ping.
	var ips []net.IP
	resolveIPs := func() ([]net.IP, error) {
		if ips != nil {
			return ips, nil
		}
		found, err := b.LookupIPs(ctx, d)
		if err != nil {
			return nil, err
		}
		ips = found
		return ips, nil
	}

	b.run(ctx, log, SectionPublicIP, func() {
		rep.PublicIP = &PublicIPSection{}
		ip, err := utils.GetPublicIP(ctx, b.PublicIPURL)
		if err != nil {
			rep.PublicIP.Error = err.Error()
			return
		}
		rep.PublicIP.IP = ip
	})

	b.run(ctx, log, SectionWhois, func() {
		rep.Whois = &WhoisSection{}
		res, err := b.Whois(ctx, d)
		if err != nil {
			rep.Whois.Error = domain.FailureMessage
			log.WithError(err).Warn("whois lookup exhausted")
			return
		}
		summary := domain.ParseWhoisLines(res.Lines)
		rep.Whois.Result = res
		rep.Whois.Summary = &summary
	})

	b.run(ctx, log, SectionRDAP, func() {
		rep.RDAP = &RDAPSection{}
		if b.RDAP == nil {
			rep.RDAP.Error = "RDAP client not configured"
			return
		}
		info, err := b.RDAP.Lookup(ctx, d)
		if err != nil {
			rep.RDAP.Error = err.Error()
			return
		}
		rep.RDAP.Info = info
	})

	b.run(ctx, log, SectionDNS, func() {
		records, errs := b.dnsResolver().LookupDNSRecords(ctx, d.String(), b.RecordTypes)
		rep.DNS = &DNSSection{Records: records, Errors: errs}
		for _, rec := range append(records["A"], records["AAAA"]...) {
			if ip := net.ParseIP(rec.Value); ip != nil {
				ips = append(ips, ip)
			}
		}
	})

	b.run(ctx, log, SectionSSL, func() {
		rep.SSL = &SSLSection{}
		info, err := domain.GetSSLInfo(ctx, d.String(), b.SSLPort, b.SSLTimeout)
		if err != nil {
			rep.SSL.Error = err.Error()
		}
		rep.SSL.Info = info
	})

	b.run(ctx, log, SectionHosting, func() {
		rep.Hosting = &HostingSection{}
		addrs, err := resolveIPs()
		if err != nil {
			rep.Hosting.Error = err.Error()
			return
		}
		for _, ip := range addrs {
			rep.Hosting.Hosts = append(rep.Hosting.Hosts, b.GeoIP.Lookup(ctx, b.dnsResolver(), ip.String()))
		}
	})

	b.run(ctx, log, SectionBlacklist, func() {
		rep.Blacklist = &BlacklistSection{}
		addrs, err := resolveIPs()
		if err != nil {
			rep.Blacklist.Error = err.Error()
			return
		}
		zones := b.DNSBLZones
		if len(zones) == 0 {
			zones = utils.DefaultDNSBLZones
		}
		for _, ip := range addrs {
			rep.Blacklist.Results = append(rep.Blacklist.Results, b.dnsResolver().CheckBlacklists(ctx, ip, zones)...)
		}
	})

	b.run(ctx, log, SectionPing, func() {
		rep.Ping = &PingSection{}
		addrs, err := resolveIPs()
		if err != nil {
			rep.Ping.Error = err.Error()
			return
		}
		if len(addrs) == 0 {
			rep.Ping.Error = "no addresses to probe"
			return
		}
		stats, err := utils.Ping(ctx, addrs[0].String(), b.Ping)
		if err != nil {
			rep.Ping.Error = err.Error()
			return
		}
		rep.Ping.Stats = stats
		if stats.Received == 0 {
			rep.Ping.Error = "host unreachable"
		}
	})

	b.run(ctx, log, SectionWeb, func() {
		rep.Web = &WebSection{}
		hops, finalURL, err := utils.ResolveRedirect(ctx, "http://"+d.String())
		rep.Web.Hops = hops
		rep.Web.FinalURL = finalURL
		if err != nil {
			rep.Web.Error = err.Error()
			return
		}
		techs, _, err := utils.AnalyzeStack(ctx, finalURL)
		if err != nil {
			rep.Web.Error = err.Error()
			return
		}
		rep.Web.Technologies = techs
	})

	return rep
}

func (b *Builder) run(ctx context.Context, log logrus.FieldLogger, section string, fn func()) {
	if !b.enabled(section) {
		return
	}
	if ctx.Err() != nil {
		log.WithField("section", section).Debug("skipped, context done")
		return
	}
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	if b.Observer != nil {
		b.Observer.ObserveSection(section, elapsed)
	}
	log.WithFields(logrus.Fields{"section": section, "elapsed": elapsed}).Debug("section done")
}

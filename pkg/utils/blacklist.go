package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

// DefaultDNSBLZones are the block lists consulted when none are configured.
var DefaultDNSBLZones = []string{"zen.spamhaus.org", "bl.spamcop.net", "b.barracudacentral.org"}

// BlacklistResult is the verdict of one DNSBL zone for one address.
type BlacklistResult struct {
	IP         string `json:"ip"`
	Zone       string `json:"zone"`
	Listed     bool   `json:"listed"`
	ReturnCode string `json:"return_code,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// reverseIPv4 turns 1.2.3.4 into 4.3.2.1.
func reverseIPv4(ip net.IP) (string, bool) {
	v4 := ip.To4()
	if v4 == nil {
		return "", false
	}
	return fmt.Sprintf("%d.%d.%d.%d", v4[3], v4[2], v4[1], v4[0]), true
}

// CheckBlacklists queries every zone for ip. Only IPv4 is supported; IPv6
// addresses return nil.
func (r *DNSResolver) CheckBlacklists(ctx context.Context, ip net.IP, zones []string) []BlacklistResult {
	reversed, ok := reverseIPv4(ip)
	if !ok {
		return nil
	}
	if len(zones) == 0 {
		zones = DefaultDNSBLZones
	}

	results := make([]BlacklistResult, 0, len(zones))
	for _, zone := range zones {
		zone = strings.TrimSuffix(strings.TrimSpace(zone), ".")
		if zone == "" {
			continue
		}
		res := BlacklistResult{IP: ip.String(), Zone: zone}
		query := reversed + "." + zone

		answers, err := r.Query(ctx, query, dns.TypeA)
		switch {
		case errors.Is(err, ErrNXDomain):
		case err != nil:
			res.Error = err.Error()
			logrus.WithFields(logrus.Fields{"ip": res.IP, "zone": zone}).Warnf("DNSBL query failed: %v", err)
		default:
			for _, rr := range answers {
				a, ok := rr.(*dns.A)
				if !ok || !a.A.IsLoopback() {
					continue
				}
				res.Listed = true
				res.ReturnCode = a.A.String()
				break
			}
			if res.Listed {
				if txt, err := r.Query(ctx, query, dns.TypeTXT); err == nil {
					for _, rr := range txt {
						if t, ok := rr.(*dns.TXT); ok {
							res.Reason = strings.Join(t.Txt, " ")
							break
						}
					}
				}
			}
		}
		results = append(results, res)
	}
	return results
}

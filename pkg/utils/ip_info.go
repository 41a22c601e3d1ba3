package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/sirupsen/logrus"
)

type IPInfoData struct {
	IPAddress          string   `json:"ip_address"`
	IsValid            bool     `json:"is_valid"`
	Version            string   `json:"version,omitempty"`
	IsLoopback         bool     `json:"is_loopback"`
	IsPrivate          bool     `json:"is_private"`
	IsMulticast        bool     `json:"is_multicast"`
	IsLinkLocalUnicast bool     `json:"is_link_local_unicast"`
	IsGlobalUnicast    bool     `json:"is_global_unicast"`
	ReverseDNSNames    []string `json:"reverse_dns_names,omitempty"`
	Error              string   `json:"error,omitempty"`

	CountryCode    string  `json:"country_code,omitempty"`
	CountryName    string  `json:"country_name,omitempty"`
	CityName       string  `json:"city_name,omitempty"`
	PostalCode     string  `json:"postal_code,omitempty"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
	TimeZone       string  `json:"time_zone,omitempty"`
	ASN            uint    `json:"asn,omitempty"`
	ASOrganization string  `json:"as_organization,omitempty"`
	GeoError       string  `json:"geo_error,omitempty"`
}

// GeoIP wraps the optional MaxMind City and ASN databases. A nil *GeoIP or a
// missing database only disables the corresponding fields.
type GeoIP struct {
	city    *geoip2.Reader
	asn     *geoip2.Reader
	cityErr error
	asnErr  error
}

// OpenGeoIP opens whichever database paths are set.
func OpenGeoIP(cityDBPath, asnDBPath string) *GeoIP {
	g := &GeoIP{}
	g.city, g.cityErr = openMMDB("GeoLite2-City", cityDBPath)
	g.asn, g.asnErr = openMMDB("GeoLite2-ASN", asnDBPath)
	return g
}

func openMMDB(name, path string) (*geoip2.Reader, error) {
	if path == "" {
		logrus.Warnf("%s database path not provided, lookups disabled", name)
		return nil, fmt.Errorf("%s path not provided", name)
	}
	db, err := geoip2.Open(path)
	if err != nil {
		logrus.Errorf("could not open %s database at %s: %v", name, path, err)
		return nil, err
	}
	logrus.Infof("loaded %s database from %s", name, path)
	return db, nil
}

// Close releases both readers.
func (g *GeoIP) Close() error {
	if g == nil {
		return nil
	}
	var errs []error
	if g.city != nil {
		errs = append(errs, g.city.Close())
	}
	if g.asn != nil {
		errs = append(errs, g.asn.Close())
	}
	return errors.Join(errs...)
}

// Lookup classifies ipStr, resolves its PTR names through r (skipped when r is
// nil) and, when the databases are open, adds location and ASN data.
func (g *GeoIP) Lookup(ctx context.Context, r *DNSResolver, ipStr string) IPInfoData {
	data := IPInfoData{IPAddress: ipStr}
	ip := net.ParseIP(strings.TrimSpace(ipStr))
	if ip == nil {
		data.Error = "Invalid IP address format"
		return data
	}

	data.IsValid = true
	data.Version = "IPv6"
	if ip.To4() != nil {
		data.Version = "IPv4"
	}
	data.IsLoopback = ip.IsLoopback()
	data.IsPrivate = ip.IsPrivate()
	data.IsMulticast = ip.IsMulticast()
	data.IsLinkLocalUnicast = ip.IsLinkLocalUnicast()
	data.IsGlobalUnicast = ip.IsGlobalUnicast()

	if r != nil {
		if names, err := r.LookupAddr(ctx, ip); err == nil {
			data.ReverseDNSNames = names
		}
	}

	if g == nil {
		data.GeoError = "GeoIP databases not configured"
		return data
	}

	var geoErrs []string
	switch {
	case g.city != nil:
		rec, err := g.city.City(ip)
		if err != nil {
			geoErrs = append(geoErrs, fmt.Sprintf("City/Country lookup error: %v", err))
			break
		}
		data.CountryCode = rec.Country.IsoCode
		data.CountryName = rec.Country.Names["en"]
		data.CityName = rec.City.Names["en"]
		data.PostalCode = rec.Postal.Code
		data.Latitude = rec.Location.Latitude
		data.Longitude = rec.Location.Longitude
		data.TimeZone = rec.Location.TimeZone
	case g.cityErr != nil:
		geoErrs = append(geoErrs, fmt.Sprintf("City/Country DB not loaded: %v", g.cityErr))
	}

	switch {
	case g.asn != nil:
		rec, err := g.asn.ASN(ip)
		if err != nil {
			geoErrs = append(geoErrs, fmt.Sprintf("ASN lookup error: %v", err))
			break
		}
		data.ASN = rec.AutonomousSystemNumber
		data.ASOrganization = rec.AutonomousSystemOrganization
	case g.asnErr != nil:
		geoErrs = append(geoErrs, fmt.Sprintf("ASN DB not loaded: %v", g.asnErr))
	}

	data.GeoError = strings.Join(geoErrs, "; ")
	return data
}

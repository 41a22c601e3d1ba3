package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// ErrInvalidDomain is returned by ParseDomain for input outside the hostname grammar.
var ErrInvalidDomain = errors.New("invalid domain format")

// Labels are 1-63 alphanumeric/hyphen characters without a leading or trailing
// hyphen; the top-level label is alphabetic (2+) or an IDN "xn--" label.
var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+([a-z]{2,63}|xn--[a-z0-9-]{1,59})$`)

// Domain is a validated, lower-cased ASCII hostname. Build one with ParseDomain.
type Domain string

// ParseDomain normalizes raw (trim, punycode, lower case, drop root dot) and
// checks it against the hostname grammar.
func ParseDomain(raw string) (Domain, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "", fmt.Errorf("%w: domain cannot be empty", ErrInvalidDomain)
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidDomain, raw, err)
	}
	ascii = strings.ToLower(ascii)

	if len(ascii) > 253 || !domainPattern.MatchString(ascii) {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, raw)
	}
	return Domain(ascii), nil
}

func (d Domain) String() string { return string(d) }

// TLD returns the last label.
func (d Domain) TLD() string {
	s := string(d)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Registrable returns the eTLD+1 of d, or d itself when the public suffix
// list cannot produce one (e.g. d is itself a public suffix).
func (d Domain) Registrable() string {
	etld1, err := publicsuffix.EffectiveTLDPlusOne(string(d))
	if err != nil {
		return string(d)
	}
	return etld1
}

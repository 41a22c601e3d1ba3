package models

import "github.com/vit0-9/domain_report/pkg/utils"

// DNSLookupResponse is the output of a DNS lookup.
type DNSLookupResponse struct {
	Domain   string                       `json:"domain"`
	Resolver string                       `json:"resolver"`
	Records  map[string][]utils.DNSRecord `json:"records"`          // Keyed by record type
	Errors   map[string]string            `json:"errors,omitempty"` // Errors for specific record type lookups
}

// BlacklistResponse lists one result per address and zone.
type BlacklistResponse struct {
	Domain  string                  `json:"domain"`
	Zones   []string                `json:"zones"`
	Results []utils.BlacklistResult `json:"results"`
	Error   string                  `json:"error,omitempty"`
}

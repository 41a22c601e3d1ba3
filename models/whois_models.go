package models

import (
	"time"

	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

// WhoisLookupResponse carries the filtered WHOIS lines and the fields parsed
// out of them.
type WhoisLookupResponse struct {
	Domain    string            `json:"domain"`
	Server    string            `json:"whois_server,omitempty"`
	Attempts  int               `json:"attempts,omitempty"`
	Lines     []string          `json:"lines,omitempty"`
	Summary   *domain.WhoisInfo `json:"summary,omitempty"`
	QueryTime time.Time         `json:"query_time"`
	Error     string            `json:"error,omitempty"`
	ErrorCode string            `json:"error_code,omitempty"`
	Details   string            `json:"details,omitempty"`
}

type RDAPLookupResponse struct {
	Domain    string           `json:"domain"`
	Info      *domain.RDAPInfo `json:"info,omitempty"`
	QueryTime time.Time        `json:"query_time"`
	Error     string           `json:"error,omitempty"`
}

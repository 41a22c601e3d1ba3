package domain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openrdap/rdap"
)

// RDAPInfo is the registration data returned by an RDAP server.
type RDAPInfo struct {
	Domain      string            `json:"domain"`
	Handle      string            `json:"handle,omitempty"`
	Registrar   string            `json:"registrar,omitempty"`
	Status      []string          `json:"status,omitempty"`
	NameServers []string          `json:"name_servers,omitempty"`
	Events      map[string]string `json:"events,omitempty"`
	QueryTime   time.Time         `json:"query_time"`
}

// RDAPClient queries RDAP servers discovered through the IANA bootstrap registry.
type RDAPClient struct {
	client *rdap.Client
}

// NewRDAPClient returns a client whose HTTP requests are bounded by timeout.
func NewRDAPClient(timeout time.Duration) *RDAPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RDAPClient{client: &rdap.Client{HTTP: &http.Client{Timeout: timeout}}}
}

// Lookup fetches the RDAP domain object for d.
func (c *RDAPClient) Lookup(ctx context.Context, d Domain) (*RDAPInfo, error) {
	req := rdap.NewRequest(rdap.DomainRequest, d.String()).WithContext(ctx)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rdap lookup for %s: %w", d, err)
	}

	obj, ok := resp.Object.(*rdap.Domain)
	if !ok {
		return nil, fmt.Errorf("rdap lookup for %s: unexpected object %T", d, resp.Object)
	}
	return summarizeRDAP(d, obj), nil
}

func summarizeRDAP(d Domain, obj *rdap.Domain) *RDAPInfo {
	info := &RDAPInfo{
		Domain:    d.String(),
		Handle:    obj.Handle,
		Status:    obj.Status,
		Events:    make(map[string]string),
		QueryTime: time.Now(),
	}
	if obj.LDHName != "" {
		info.Domain = strings.ToLower(obj.LDHName)
	}

	for _, ns := range obj.Nameservers {
		if ns.LDHName != "" {
			info.NameServers = appendUnique(info.NameServers, strings.ToLower(strings.TrimSuffix(ns.LDHName, ".")))
		}
	}

	for _, ev := range obj.Events {
		if ev.Action != "" && ev.Date != "" {
			info.Events[ev.Action] = ev.Date
		}
	}

	for _, ent := range obj.Entities {
		if !hasRole(ent.Roles, "registrar") {
			continue
		}
		if ent.VCard != nil {
			info.Registrar = ent.VCard.Name()
		}
		if info.Registrar == "" {
			info.Registrar = ent.Handle
		}
		break
	}
	return info
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

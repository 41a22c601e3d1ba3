package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/domain_report/models"
	"github.com/vit0-9/domain_report/pkg/report"
	"github.com/vit0-9/domain_report/pkg/utils"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

const maxPingCount = 10

// NetworkHandlers groups the DNS, TLS and reachability endpoints. They share
// the resolver and databases of the report builder.
type NetworkHandlers struct {
	Reports *report.Builder
}

func NewNetworkHandlers(b *report.Builder) *NetworkHandlers {
	return &NetworkHandlers{Reports: b}
}

// DNSLookupHandler godoc
// @Summary      Perform DNS lookups for a domain
// @Description  Retrieves DNS records for a given domain. If 'record_types' is omitted, the configured default set is queried.
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain to lookup"
// @Param        record_types query []string false "DNS record types to query (e.g., A, MX, TXT)" collectionFormat(csv)
// @Success      200 {object} models.DNSLookupResponse "Successfully retrieved DNS records or errors for specific types"
// @Failure      400 {object} models.APIErrorResponse
// @Router       /domain/dns [get]
func (h *NetworkHandlers) DNSLookupHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}

	// Accept both ?record_types=A&record_types=MX and ?record_types=A,MX.
	var types []string
	for _, v := range c.QueryArray("record_types") {
		for _, rt := range strings.Split(v, ",") {
			if rt = strings.ToUpper(strings.TrimSpace(rt)); rt != "" {
				types = append(types, rt)
			}
		}
	}
	if len(types) == 0 {
		types = h.Reports.RecordTypes
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	resolver := h.resolver()
	records, errs := resolver.LookupDNSRecords(ctx, d.String(), types)
	c.JSON(http.StatusOK, models.DNSLookupResponse{
		Domain:   d.String(),
		Resolver: resolver.Server,
		Records:  records,
		Errors:   errs,
	})
}

func (h *NetworkHandlers) resolver() *utils.DNSResolver {
	if h.Reports.DNS != nil {
		return h.Reports.DNS
	}
	return utils.NewDNSResolver("", 0)
}

// SSLCheckHandler godoc
// @Summary      Check SSL certificate information for a domain/host
// @Description  Retrieves SSL certificate details for a given host and optional port (defaults to 443).
// @Tags         Domain
// @Produce      json
// @Param        host query string true "Host (domain or IP) for SSL check"
// @Param        port query int false "Port for SSL check (defaults to 443)"
// @Success      200 {object} models.SSLCheckResponse "Successfully retrieved SSL certificate information or error during check"
// @Failure      400 {object} models.APIErrorResponse
// @Router       /domain/ssl [get]
func (h *NetworkHandlers) SSLCheckHandler(c *gin.Context) {
	host := strings.TrimSpace(c.Query("host"))
	if host == "" {
		badRequest(c, "host query parameter is required", "")
		return
	}

	port := 443
	if portQueryStr := c.Query("port"); portQueryStr != "" {
		p, err := strconv.Atoi(portQueryStr)
		if err != nil || p <= 0 || p > 65535 {
			badRequest(c, "Invalid port number", portQueryStr)
			return
		}
		port = p
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	info, err := domain.GetSSLInfo(ctx, host, port, h.Reports.SSLTimeout)
	resp := models.SSLCheckResponse{Host: host, Port: port, Certificate: info, QueryTime: time.Now()}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// HostingHandler godoc
// @Summary      Hosting information for a domain
// @Description  Resolves the domain and returns address class, reverse DNS and GeoIP/ASN data per address.
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain"
// @Success      200 {object} models.HostingResponse
// @Failure      400 {object} models.APIErrorResponse
// @Router       /domain/hosting [get]
func (h *NetworkHandlers) HostingHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	resp := models.HostingResponse{Domain: d.String(), Hosts: []utils.IPInfoData{}}
	ips, err := h.Reports.LookupIPs(ctx, d)
	if err != nil {
		resp.Error = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	resolver := h.resolver()
	for _, ip := range ips {
		resp.Hosts = append(resp.Hosts, h.Reports.GeoIP.Lookup(ctx, resolver, ip.String()))
	}
	c.JSON(http.StatusOK, resp)
}

// BlacklistHandler godoc
// @Summary      DNSBL check for a domain's addresses
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain"
// @Success      200 {object} models.BlacklistResponse
// @Failure      400 {object} models.APIErrorResponse
// @Router       /domain/blacklist [get]
func (h *NetworkHandlers) BlacklistHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}

	zones := h.Reports.DNSBLZones
	if len(zones) == 0 {
		zones = utils.DefaultDNSBLZones
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	resp := models.BlacklistResponse{Domain: d.String(), Zones: zones, Results: []utils.BlacklistResult{}}
	ips, err := h.Reports.LookupIPs(ctx, d)
	if err != nil {
		resp.Error = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	resolver := h.resolver()
	for _, ip := range ips {
		resp.Results = append(resp.Results, resolver.CheckBlacklists(ctx, ip, zones)...)
	}
	c.JSON(http.StatusOK, resp)
}

// PingHandler godoc
// @Summary      Ping the domain
// @Description  Sends ICMP echo requests to the first address of the domain, or times TCP handshakes when ICMP is unavailable or backend=tcp.
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain"
// @Param        count query int false "Number of probes (max 10)"
// @Param        port query int false "TCP port (defaults to the configured port)"
// @Param        backend query string false "auto, icmp or tcp"
// @Success      200 {object} models.PingResponse
// @Failure      400 {object} models.APIErrorResponse
// @Router       /domain/ping [get]
func (h *NetworkHandlers) PingHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}

	opts := h.Reports.Ping
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxPingCount {
			badRequest(c, "count must be between 1 and 10", v)
			return
		}
		opts.Count = n
	}
	if v := c.Query("port"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			badRequest(c, "Invalid port number", v)
			return
		}
		opts.Port = p
	}
	if v := c.Query("backend"); v != "" {
		if !utils.ValidPingBackend(v) {
			badRequest(c, "backend must be auto, icmp or tcp", v)
			return
		}
		opts.Backend = v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	resp := models.PingResponse{Domain: d.String()}
	ips, err := h.Reports.LookupIPs(ctx, d)
	if err != nil {
		resp.Error = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	if len(ips) == 0 {
		resp.Error = "no addresses to probe"
		c.JSON(http.StatusOK, resp)
		return
	}
	stats, err := utils.Ping(ctx, ips[0].String(), opts)
	if err != nil {
		resp.Error = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Stats = stats
	if stats.Received == 0 {
		resp.Error = "host unreachable"
	}
	c.JSON(http.StatusOK, resp)
}

// PublicIPHandler godoc
// @Summary      Public IP of this server
// @Tags         Network
// @Produce      json
// @Success      200 {object} models.PublicIPResponse
// @Router       /net/public-ip [get]
func (h *NetworkHandlers) PublicIPHandler(c *gin.Context) {
	service := h.Reports.PublicIPURL
	if service == "" {
		service = utils.DefaultPublicIPURL
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	resp := models.PublicIPResponse{Service: service}
	ip, err := utils.GetPublicIP(ctx, service)
	if err != nil {
		resp.Error = err.Error()
	}
	resp.IP = ip
	c.PureJSON(http.StatusOK, resp)
}

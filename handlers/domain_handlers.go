package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vit0-9/domain_report/models"
	"github.com/vit0-9/domain_report/pkg/report"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

// DomainHandlers serves the WHOIS, RDAP and full report endpoints.
type DomainHandlers struct {
	Reports *report.Builder
}

func NewDomainHandlers(b *report.Builder) *DomainHandlers {
	return &DomainHandlers{Reports: b}
}

// domainParam reads and validates the "domain" query parameter. It writes the
// 400 response itself when the value is unusable.
func domainParam(c *gin.Context) (domain.Domain, bool) {
	raw := c.Query("domain")
	if raw == "" {
		badRequest(c, "domain query parameter is required", "")
		return "", false
	}
	d, err := domain.ParseDomain(raw)
	if err != nil {
		badRequest(c, "Invalid domain name", err.Error())
		return "", false
	}
	return d, true
}

func badRequest(c *gin.Context, msg, details string) {
	c.JSON(http.StatusBadRequest, models.APIErrorResponse{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  models.ErrCodeInvalidInput,
		Message:    msg,
		Details:    details,
	})
}

// WhoisLookupHandler godoc
// @Summary      WHOIS lookup with server fallback
// @Description  Queries the configured WHOIS servers in order and returns the first non-empty reply with comment and blank lines removed. Repeat 'server' to try a subset of the configured servers in a different order.
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain for WHOIS lookup"
// @Param        server query []string false "Configured WHOIS servers to try, in order" collectionFormat(multi)
// @Success      200 {object} models.WhoisLookupResponse
// @Failure      400 {object} models.APIErrorResponse
// @Failure      502 {object} models.WhoisLookupResponse "Every server failed"
// @Router       /domain/whois [get]
func (h *DomainHandlers) WhoisLookupHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}

	var servers []string
	for _, s := range c.QueryArray("server") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		// Only configured servers may be named, so a request cannot make us
		// dial arbitrary hosts or grow the per-server metric labels.
		if !h.Reports.KnownWhoisServer(s) {
			badRequest(c, "server is not a configured WHOIS server", s)
			return
		}
		servers = append(servers, s)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	res, err := h.Reports.Whois(ctx, d, servers...)
	if err != nil {
		status, code := http.StatusBadGateway, models.ErrCodeWhoisUnavailable
		if errors.Is(err, domain.ErrNoServers) {
			status, code = http.StatusBadRequest, models.ErrCodeInvalidInput
		}
		logrus.WithField("domain", d.String()).WithError(err).Warn("whois lookup failed")
		c.JSON(status, models.WhoisLookupResponse{
			Domain:    d.String(),
			QueryTime: time.Now(),
			Error:     domain.FailureMessage,
			ErrorCode: code,
			Details:   err.Error(),
		})
		return
	}

	summary := domain.ParseWhoisLines(res.Lines)
	c.JSON(http.StatusOK, models.WhoisLookupResponse{
		Domain:    res.Domain,
		Server:    res.Server,
		Attempts:  res.Attempts,
		Lines:     res.Lines,
		Summary:   &summary,
		QueryTime: res.QueryTime,
	})
}

// RDAPLookupHandler godoc
// @Summary      RDAP lookup for a domain
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain for RDAP lookup"
// @Success      200 {object} models.RDAPLookupResponse "RDAP data or error during lookup"
// @Failure      400 {object} models.APIErrorResponse
// @Router       /domain/rdap [get]
func (h *DomainHandlers) RDAPLookupHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}
	resp := models.RDAPLookupResponse{Domain: d.String(), QueryTime: time.Now()}
	if h.Reports.RDAP == nil {
		resp.Error = "RDAP client not configured"
		c.JSON(http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	info, err := h.Reports.RDAP.Lookup(ctx, d)
	if err != nil {
		resp.Error = err.Error()
		c.JSON(http.StatusOK, resp) // Still 200 but with error in body
		return
	}
	resp.Info = info
	c.JSON(http.StatusOK, resp)
}

// ReportHandler godoc
// @Summary      Full domain report
// @Description  Runs every report section in order. 'sections' limits the run to a comma separated subset.
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain to report on"
// @Param        sections query string false "Comma separated sections"
// @Success      200 {object} report.Report
// @Failure      400 {object} models.APIErrorResponse
// @Router       /domain/report [get]
func (h *DomainHandlers) ReportHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}

	b := *h.Reports
	if raw := c.Query("sections"); raw != "" {
		sections, err := report.ParseSections(raw)
		if err != nil {
			badRequest(c, "Invalid sections parameter", err.Error())
			return
		}
		b.Sections = sections
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Minute)
	defer cancel()

	c.JSON(http.StatusOK, b.Build(ctx, d))
}

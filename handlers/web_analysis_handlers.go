package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vit0-9/domain_report/models"
	"github.com/vit0-9/domain_report/pkg/utils"
)

// WebAnalysisHandler godoc
// @Summary      Redirect chain and technology stack of a domain's website
// @Description  Follows redirects from http://<domain> hop by hop and fingerprints the final page with Wappalyzergo.
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain whose website to analyze"
// @Success      200 {object} models.WebAnalysisResponse "Successfully analyzed stack or error during analysis"
// @Failure      400 {object} models.APIErrorResponse
// @Failure      500 {object} models.WebAnalysisResponse "Analyzer unavailable"
// @Router       /domain/web [get]
func (h *DomainHandlers) WebAnalysisHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}
	requestURL := "http://" + d.String()
	resp := models.WebAnalysisResponse{Domain: d.String(), RequestURL: requestURL}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	hops, finalURL, err := utils.ResolveRedirect(ctx, requestURL)
	resp.Hops = models.NewRedirectHops(hops)
	resp.FinalURL = finalURL
	if err != nil {
		resp.Error = err.Error()
		c.PureJSON(http.StatusOK, resp) // Still 200 but with error in body
		return
	}

	techs, _, err := utils.AnalyzeStack(ctx, finalURL)
	if err != nil {
		if errors.Is(err, utils.ErrAnalyzerUnavailable) {
			logrus.WithError(err).Error("stack analyzer unavailable")
			resp.Error = "Technology stack analyzer is currently unavailable."
			c.PureJSON(http.StatusInternalServerError, resp)
			return
		}
		resp.Error = err.Error()
		c.PureJSON(http.StatusOK, resp)
		return
	}
	resp.Technologies = models.NewDetectedTechnologies(techs)
	c.PureJSON(http.StatusOK, resp)
}

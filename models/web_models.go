package models

import "github.com/vit0-9/domain_report/pkg/utils"

// DetectedTechnology holds information about a single detected technology.
type DetectedTechnology struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Description string   `json:"description,omitempty"`
	Website     string   `json:"website,omitempty"`
	CPE         string   `json:"cpe,omitempty"`
}

type RedirectHop struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Location   string `json:"location,omitempty"`
}

// WebAnalysisResponse is the redirect chain of http://<domain> and the
// technologies found on the page it ends at.
type WebAnalysisResponse struct {
	Domain       string               `json:"domain"`
	RequestURL   string               `json:"request_url"`
	FinalURL     string               `json:"final_url,omitempty"`
	Hops         []RedirectHop        `json:"hops,omitempty"`
	Technologies []DetectedTechnology `json:"technologies,omitempty"`
	Error        string               `json:"error,omitempty"`
}

func NewRedirectHops(hops []utils.RedirectHop) []RedirectHop {
	out := make([]RedirectHop, len(hops))
	for i, h := range hops {
		out[i] = RedirectHop{URL: h.URL, StatusCode: h.StatusCode, Location: h.Location}
	}
	return out
}

func NewDetectedTechnologies(techs []utils.DetectedTechnologyInfo) []DetectedTechnology {
	out := make([]DetectedTechnology, len(techs))
	for i, t := range techs {
		out[i] = DetectedTechnology{
			Name:        t.Name,
			Version:     t.Version,
			Categories:  t.Categories,
			Description: t.Description,
			Website:     t.Website,
			CPE:         t.CPE,
		}
	}
	return out
}

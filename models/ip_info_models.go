package models

import "github.com/vit0-9/domain_report/pkg/utils"

// HostingResponse describes every address the domain resolves to.
type HostingResponse struct {
	Domain string             `json:"domain"`
	Hosts  []utils.IPInfoData `json:"hosts"`
	Error  string             `json:"error,omitempty"`
}

type PublicIPResponse struct {
	IP      string `json:"ip,omitempty"`
	Service string `json:"service"`
	Error   string `json:"error,omitempty"`
}

type PingResponse struct {
	Domain string           `json:"domain"`
	Stats  *utils.PingStats `json:"stats,omitempty"`
	Error  string           `json:"error,omitempty"`
}

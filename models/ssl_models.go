package models

import (
	"time"

	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

// SSLCheckResponse represents the response from SSL certificate check
type SSLCheckResponse struct {
	Host        string          `json:"host"`
	Port        int             `json:"port"`
	Certificate *domain.SSLInfo `json:"certificate,omitempty"`
	QueryTime   time.Time       `json:"query_time"`
	Error       string          `json:"error,omitempty"`
}

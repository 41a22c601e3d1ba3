package models

// APIErrorResponse is returned for rejected requests (bad input, rate limit,
// WHOIS exhaustion). Lookup failures of a single section are reported inside
// the section's own response instead.
type APIErrorResponse struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput     = "invalid_input"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeWhoisUnavailable = "whois_unavailable"
)

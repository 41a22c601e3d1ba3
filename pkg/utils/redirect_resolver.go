package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const maxRedirectHops = 10

var ErrTooManyRedirects = errors.New("too many redirects")

// RedirectHop is one response in a redirect chain.
type RedirectHop struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Location   string `json:"location,omitempty"`
}

// ResolveRedirect follows redirects from initialURL one hop at a time and
// returns every hop plus the final URL. On error the hops seen so far are
// still returned.
func ResolveRedirect(ctx context.Context, initialURL string) ([]RedirectHop, string, error) {
	client := &http.Client{
		Timeout:   15 * time.Second,
		Transport: HTTPClient().Transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	var hops []RedirectHop
	current := initialURL
	for i := 0; i <= maxRedirectHops; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return hops, current, fmt.Errorf("invalid URL %s: %w", current, err)
		}
		req.Header.Set("User-Agent", randomUserAgent())

		resp, err := client.Do(req)
		if err != nil {
			return hops, current, fmt.Errorf("request failed for %s: %w", current, err)
		}
		resp.Body.Close()

		hop := RedirectHop{URL: current, StatusCode: resp.StatusCode}
		loc, err := resp.Location()
		if err != nil || resp.StatusCode < 300 || resp.StatusCode >= 400 {
			hops = append(hops, hop)
			return hops, current, nil
		}
		hop.Location = loc.String()
		hops = append(hops, hop)
		current = loc.String()
	}
	return hops, current, fmt.Errorf("%w from %s", ErrTooManyRedirects, initialURL)
}

package utils

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// DefaultPublicIPURL answers with the caller's address as plain text.
const DefaultPublicIPURL = "https://api.ipify.org"

const maxBodySize = 5 << 20

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}

// HTTPClient returns the shared client, which follows up to 10 redirects and
// keeps cookies per registrable domain.
func HTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			logrus.Warnf("cookie jar unavailable: %v", err)
		}
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Jar:       jar,
			Transport: newTransport(),
		}
	})
	return httpClient
}

func randomUserAgent() string {
	return defaultUserAgents[rand.Intn(len(defaultUserAgents))]
}

// FetchResult encapsulates the results of an HTTP fetch operation.
type FetchResult struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	FinalURL   string // URL after all redirects
}

// FetchURL GETs targetURL with browser-like headers. Compressed bodies are
// decoded by the transport.
func FetchURL(ctx context.Context, targetURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", targetURL, err)
	}
	req.Header.Set("User-Agent", randomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := HTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", targetURL, err)
	}

	return &FetchResult{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header,
		Body:       body,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// GetPublicIP asks serviceURL for the address this host is seen from.
func GetPublicIP(ctx context.Context, serviceURL string) (string, error) {
	if serviceURL == "" {
		serviceURL = DefaultPublicIPURL
	}
	res, err := FetchURL(ctx, serviceURL)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("public IP service %s answered %s", serviceURL, res.Status)
	}

	candidate := strings.TrimSpace(string(res.Body))
	ip := net.ParseIP(candidate)
	if ip == nil {
		return "", fmt.Errorf("public IP service %s returned %q, not an IP address", serviceURL, truncate(candidate, 64))
	}
	return ip.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

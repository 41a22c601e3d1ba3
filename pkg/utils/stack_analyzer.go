package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	wappalyze "github.com/projectdiscovery/wappalyzergo"
	"github.com/sirupsen/logrus"
)

var (
	wappalyzerClient   *wappalyze.Wappalyze
	wappalyzerInitOnce sync.Once
	wappalyzerInitErr  error
)

const versionSeparator = ":"

// ErrAnalyzerUnavailable means the fingerprint database could not be loaded.
var ErrAnalyzerUnavailable = errors.New("technology stack analyzer unavailable")

func wappalyzer() (*wappalyze.Wappalyze, error) {
	wappalyzerInitOnce.Do(func() {
		wappalyzerClient, wappalyzerInitErr = wappalyze.New()
		if wappalyzerInitErr != nil {
			wappalyzerInitErr = fmt.Errorf("%w: %w", ErrAnalyzerUnavailable, wappalyzerInitErr)
			logrus.Error(wappalyzerInitErr)
		}
	})
	return wappalyzerClient, wappalyzerInitErr
}

type DetectedTechnologyInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Description string   `json:"description,omitempty"`
	Website     string   `json:"website,omitempty"`
	CPE         string   `json:"cpe,omitempty"`
}

// splitAppKey separates wappalyzergo's "Name:version" keys.
func splitAppKey(key string) (name, version string) {
	name, version, _ = strings.Cut(key, versionSeparator)
	return name, version
}

// AnalyzeStack fetches targetURL and fingerprints the technologies behind it.
// It returns the detections sorted by name and the final URL after redirects.
func AnalyzeStack(ctx context.Context, targetURL string) ([]DetectedTechnologyInfo, string, error) {
	client, err := wappalyzer()
	if err != nil {
		return nil, targetURL, err
	}

	res, err := FetchURL(ctx, targetURL)
	if err != nil {
		return nil, targetURL, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, res.FinalURL, fmt.Errorf("failed to fetch %s: received status code %d (%s)", targetURL, res.StatusCode, res.Status)
	}

	detected := client.FingerprintWithInfo(res.Headers, res.Body)
	results := make([]DetectedTechnologyInfo, 0, len(detected))
	for key, info := range detected {
		name, version := splitAppKey(key)
		results = append(results, DetectedTechnologyInfo{
			Name:        name,
			Version:     version,
			Categories:  info.Categories,
			Description: info.Description,
			Website:     info.Website,
			CPE:         info.CPE,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	logrus.WithField("url", res.FinalURL).Debugf("detected %d technologies", len(results))
	return results, res.FinalURL, nil
}

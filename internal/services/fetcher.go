package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher retrieves raw XML from the game API.
type Fetcher interface {
	// Fetch requests path, relative to the API base URL, and returns the body.
	Fetch(ctx context.Context, path string) (string, error)
}

// HTTPFetcher implements Fetcher against the public game API.
type HTTPFetcher struct {
	baseURL     string
	languageKey string
	client      *http.Client
	logger      *slog.Logger
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher for baseURL. languageKey is appended to
// every request that does not set one.
func NewHTTPFetcher(baseURL, languageKey string, timeout time.Duration, logger *slog.Logger) *HTTPFetcher {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &HTTPFetcher{
		baseURL:     baseURL,
		languageKey: languageKey,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (f *HTTPFetcher) requestURL(path string) (string, error) {
	u, err := url.Parse(f.baseURL + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	q := u.Query()
	if f.languageKey != "" && q.Get("languageKey") == "" {
		q.Set("languageKey", f.languageKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (string, error) {
	target, err := f.requestURL(path)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("Upstream request failed", "path", path, "status", resp.StatusCode)
		return "", fmt.Errorf("upstream %s returned status %d", path, resp.StatusCode)
	}

	f.logger.Debug("Upstream request completed", "path", path, "bytes", len(body), "duration", time.Since(start))
	return string(body), nil
}

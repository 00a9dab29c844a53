// Package gsa provides a client for the GSA Site Scanning API, used as the
// federal-domain oracle: given a domain, is it a tracked federal website?
package gsa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.gsa.gov/technology/site-scanning/v1"

// Result is the oracle's tri-state answer.
type Result int

const (
	Unknown Result = iota
	Federal
	NotFederal
)

// Client answers whether a domain belongs to a tracked federal website.
type Client interface {
	IsFederal(ctx context.Context, domain string) (Result, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a GSA Site Scanning client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type websitesResponse struct {
	Count int `json:"count"`
}

// IsFederal queries the websites index for the domain. Any API failure maps
// to Unknown alongside the error so callers can degrade.
func (c *httpClient) IsFederal(ctx context.Context, domain string) (Result, error) {
	reqURL := fmt.Sprintf("%s/websites?target_url_domain=%s", c.baseURL, url.QueryEscape(domain))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Unknown, eris.Wrap(err, "gsa: create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Unknown, eris.Wrap(err, "gsa: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Unknown, eris.Wrap(err, "gsa: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return Unknown, eris.Errorf("gsa: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result websitesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return Unknown, eris.Wrap(err, "gsa: unmarshal response")
	}

	if result.Count > 0 {
		return Federal, nil
	}
	return NotFederal, nil
}

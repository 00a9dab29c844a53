// Package google provides a client for the Google Places API (New), used to
// look up a place profile for government-entity validation.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// Client performs Google Places API operations.
type Client interface {
	// Lookup text-searches for a place and returns the best-matching profile,
	// or nil when nothing plausible was found.
	Lookup(ctx context.Context, name, city, state string) (*PlaceProfile, error)
	// Ping reports whether the API endpoint is reachable.
	Ping(ctx context.Context) error
}

// PlaceProfile is the distilled place record consumed by the government
// validator. NameSimilarity is computed client-side against the query name.
type PlaceProfile struct {
	PlaceID          string   `json:"place_id"`
	DisplayName      string   `json:"display_name"`
	FormattedAddress string   `json:"formatted_address"`
	BusinessStatus   string   `json:"business_status"`
	NationalPhone    string   `json:"national_phone"`
	WebsiteURI       string   `json:"website_uri"`
	PrimaryType      string   `json:"primary_type"`
	Types            []string `json:"types"`
	NameSimilarity   float64  `json:"name_similarity"`
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

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Places API client.
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

type textSearchRequest struct {
	TextQuery string `json:"textQuery"`
}

type textSearchResponse struct {
	Places []place `json:"places"`
}

type place struct {
	ID                  string      `json:"id"`
	DisplayName         displayName `json:"displayName"`
	FormattedAddress    string      `json:"formattedAddress"`
	BusinessStatus      string      `json:"businessStatus"`
	NationalPhoneNumber string      `json:"nationalPhoneNumber"`
	WebsiteURI          string      `json:"websiteUri"`
	PrimaryType         string      `json:"primaryType"`
	Types               []string    `json:"types"`
}

type displayName struct {
	Text string `json:"text"`
}

const fieldMask = "places.id,places.displayName,places.formattedAddress," +
	"places.businessStatus,places.nationalPhoneNumber,places.websiteUri," +
	"places.primaryType,places.types"

func (c *httpClient) Lookup(ctx context.Context, name, city, state string) (*PlaceProfile, error) {
	query := strings.TrimSpace(strings.Join([]string{name, city, state}, " "))

	body, err := json.Marshal(textSearchRequest{TextQuery: query})
	if err != nil {
		return nil, eris.Wrap(err, "google: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "google: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("google: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result textSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "google: unmarshal response")
	}
	if len(result.Places) == 0 {
		return nil, nil
	}

	top := result.Places[0]
	return &PlaceProfile{
		PlaceID:          top.ID,
		DisplayName:      top.DisplayName.Text,
		FormattedAddress: top.FormattedAddress,
		BusinessStatus:   top.BusinessStatus,
		NationalPhone:    top.NationalPhoneNumber,
		WebsiteURI:       top.WebsiteURI,
		PrimaryType:      top.PrimaryType,
		Types:            top.Types,
		NameSimilarity:   NameSimilarity(name, top.DisplayName.Text),
	}, nil
}

// Ping issues a HEAD request against the API base URL. Any HTTP response
// counts as reachable; only transport failures are errors.
func (c *httpClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return eris.Wrap(err, "google: create ping request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "google: ping")
	}
	return resp.Body.Close()
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9\s]`)

// NameSimilarity computes a token-set Jaccard similarity between two names,
// case- and punctuation-insensitive.
func NameSimilarity(a, b string) float64 {
	setA := tokens(a)
	setB := tokens(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokens(s string) map[string]bool {
	s = nonWordRe.ReplaceAllString(strings.ToLower(s), " ")
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

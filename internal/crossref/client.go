// Package crossref fetches missing record fields from the CrossRef REST API.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit stays under the public pool allowance.
	RateLimit = 5.0

	// ReferenceSeparator joins formatted references into one cell.
	ReferenceSeparator = "; "

	userAgent = "citenet/1.0"
)

// Client is a rate-limited HTTP client for the CrossRef works endpoint.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	mailto     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto identifies the caller so requests use the polite pool.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit overrides the request rate in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new CrossRef client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, doi string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			DOI:        doi,
		}
	}
	return nil
}

// workURL builds the works/{doi} URL. The DOI's slashes stay literal.
func (c *Client) workURL(doi string) string {
	segments := strings.Split(doi, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := c.baseURL + "/works/" + strings.Join(segments, "/")
	if c.mailto != "" {
		u += "?mailto=" + url.QueryEscape(c.mailto)
	}
	return u
}

// Work fetches the CrossRef record for a DOI.
func (c *Client) Work(ctx context.Context, doi string) (*Work, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return nil, fmt.Errorf("%w: empty DOI", ErrNotFound)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.workURL(doi), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	ua := userAgent
	if c.mailto != "" {
		ua += " (mailto:" + c.mailto + ")"
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, doi); err != nil {
		return nil, err
	}

	var wr workResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("%w: parsing work %s: %v", ErrInvalidResponse, doi, err)
	}
	return &wr.Message, nil
}

// References fetches a work and formats its reference list as a single
// cell: each reference is its DOI, article title and author joined by ", ",
// and references are joined by "; ". Entries with none of those fields are
// skipped. An empty result means CrossRef has no deposited references.
func (c *Client) References(ctx context.Context, doi string) (string, error) {
	w, err := c.Work(ctx, doi)
	if err != nil {
		return "", err
	}
	return FormatReferences(w.Reference), nil
}

// FormatReferences renders a reference list in the export's references
// cell format.
func FormatReferences(refs []Reference) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		var fields []string
		for _, f := range []string{r.DOI, r.ArticleTitle, r.Author} {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) == 0 {
			continue
		}
		parts = append(parts, strings.Join(fields, ", "))
	}
	return strings.Join(parts, ReferenceSeparator)
}

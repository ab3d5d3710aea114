// Package fetcher retrieves JSON documents over HTTP.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/parser"
)

// MaxBodySize bounds the size of a fetched document.
const MaxBodySize = 16 << 20

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// RequestOptions carries the per-request headers and bearer token.
type RequestOptions struct {
	Headers   map[string]string
	AuthToken string
}

// Options configures a Client.
type Options struct {
	Timeout time.Duration
	// CacheSize is the number of response bodies kept; 0 disables caching.
	CacheSize int
	CacheTTL  time.Duration
	Logger    zerolog.Logger
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client fetches documents and caches successful response bodies.
type Client struct {
	http  *http.Client
	cache *expirable.LRU[string, []byte]
	log   zerolog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		http: httpClient,
		log:  opts.Logger.With().Str("component", "fetcher").Logger(),
	}
	if opts.CacheSize > 0 {
		c.cache = expirable.NewLRU[string, []byte](opts.CacheSize, nil, opts.CacheTTL)
	}
	return c
}

// Fetch downloads the document at rawURL and parses it. Every call returns a
// freshly parsed document, even when the body comes from the cache.
func (c *Client) Fetch(ctx context.Context, rawURL string, req RequestOptions) (models.IntermediateRepresentation, error) {
	body, err := c.FetchBytes(ctx, rawURL, req)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return parser.ParseBytes(body)
}

// FetchBytes downloads the raw body at rawURL.
func (c *Client) FetchBytes(ctx context.Context, rawURL string, req RequestOptions) ([]byte, error) {
	target := NormalizeURL(rawURL)
	key := cacheKey(target, req)

	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			c.log.Debug().Str("url", target).Msg("cache hit")
			return body, nil
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.NewFetchError(fmt.Sprintf("invalid URL '%s'", rawURL), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.AuthToken)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Debug().Err(err).Str("url", target).Msg("request failed")
		return nil, errors.NewFetchError(fmt.Sprintf("request to '%s' failed", target), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.log.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched document")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewFetchError(fmt.Sprintf("status %d from '%s'", resp.StatusCode, target), errors.ErrHTTPStatus)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, errors.NewFetchError(fmt.Sprintf("failed to read response from '%s'", target), err)
	}
	if len(body) > MaxBodySize {
		return nil, errors.NewFetchError(fmt.Sprintf("response from '%s' exceeds %d bytes", target, MaxBodySize), nil)
	}

	if c.cache != nil {
		c.cache.Add(key, body)
	}
	return body, nil
}

// NormalizeURL prefixes https:// when rawURL has no http or https scheme.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if schemePattern.MatchString(rawURL) {
		return rawURL
	}
	return "https://" + rawURL
}

// ParseHeaders parses "Key: Value" lines into a header map.
func ParseHeaders(lines []string) (map[string]string, error) {
	headers := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, errors.NewInputError(fmt.Sprintf("malformed header '%s'", line), errors.ErrMalformedHeader)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

func cacheKey(target string, req RequestOptions) string {
	keys := make([]string, 0, len(req.Headers))
	for k := range req.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(target)
	for _, k := range keys {
		b.WriteString("\n")
		b.WriteString(http.CanonicalHeaderKey(k))
		b.WriteString(": ")
		b.WriteString(req.Headers[k])
	}
	if req.AuthToken != "" {
		b.WriteString("\nAuthorization: Bearer ")
		b.WriteString(req.AuthToken)
	}
	return b.String()
}

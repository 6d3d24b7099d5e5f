package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrNetwork covers unreachable endpoints, transport failures and
	// non-2xx responses.
	ErrNetwork = errors.New("network error")
	// ErrDecode is returned when the response body is not the expected
	// `{"result":[...]}` envelope.
	ErrDecode = errors.New("decode error")
)

// APIKeyHeader is the request header carrying the node API token.
const APIKeyHeader = "API-Key"

// DefaultTimeout bounds a single fetch when no client is supplied.
const DefaultTimeout = 15 * time.Second

// Fetcher reads the transaction list from a node API endpoint.
type Fetcher struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for per-entry diagnostics.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher for endpoint. endpoint must be an absolute
// http(s) URL. apiKey may be empty, in which case no API-Key header is sent.
func NewFetcher(endpoint, apiKey string, opts ...FetcherOption) (*Fetcher, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}
	f := &Fetcher{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Endpoint returns the configured endpoint URL.
func (f *Fetcher) Endpoint() string { return f.endpoint }

// Fetch performs one GET against the endpoint and decodes the response.
// Transport failures and non-2xx statuses wrap ErrNetwork; malformed bodies
// wrap ErrDecode. Non-conforming entries are listed in FetchResult.Skipped.
func (f *Fetcher) Fetch(ctx context.Context) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.apiKey != "" {
		req.Header.Set(APIKeyHeader, f.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("fetching transactions", "endpoint", f.endpoint)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}

	res, err := ParseResponse(body)
	if err != nil {
		return nil, err
	}

	for _, s := range res.Skipped {
		f.logger.Debug("skipped entry", "index", s.Index, "reason", s.Reason)
	}
	f.logger.Debug("fetched transactions",
		"records", len(res.Records),
		"skipped", len(res.Skipped),
	)
	return res, nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}

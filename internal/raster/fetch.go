package raster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forest-guardian/vegetation-mask/internal/properties"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrUpstreamFetch marks a failed download of source imagery, including
// non-2xx responses.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

const (
	defaultFetchRetries = 3
	fetchRetryDelay     = 5 * time.Second
)

// Fetcher downloads raster imagery over HTTP with bounded retries.
type Fetcher struct {
	client  *http.Client
	retries int
	delay   time.Duration
}

// NewFetcher returns a Fetcher backed by a plain HTTP client.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:  http.DefaultClient,
		retries: defaultFetchRetries,
		delay:   fetchRetryDelay,
	}
}

// NewAuthenticatedFetcher returns a Fetcher whose client obtains tokens
// through the OAuth2 client credentials flow configured via
// IMAGERY_CLIENT_ID, IMAGERY_CLIENT_SECRET and IMAGERY_TOKEN_URL.
func NewAuthenticatedFetcher(ctx context.Context) (*Fetcher, error) {
	clientID := properties.ImageryClientID()
	clientSecret := properties.ImageryClientSecret()
	tokenURL := properties.ImageryTokenURL()
	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return nil, fmt.Errorf("missing required environment variables: IMAGERY_CLIENT_ID, IMAGERY_CLIENT_SECRET, or IMAGERY_TOKEN_URL")
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return &Fetcher{
		client:  config.Client(ctx),
		retries: defaultFetchRetries,
		delay:   fetchRetryDelay,
	}, nil
}

// Fetch downloads the raw bytes at url. A non-2xx status is an
// ErrUpstreamFetch, retried up to the configured attempt count.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.retries; attempt++ {
		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt < f.retries {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", url, f.retries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status code %d from %s", ErrUpstreamFetch, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUpstreamFetch, err)
	}
	return body, nil
}

// FetchImage downloads the imagery at url and opens it as a raster image.
func (f *Fetcher) FetchImage(ctx context.Context, url string) (*Image, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return OpenBytes(body)
}

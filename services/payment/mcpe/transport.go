package mcpe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const DefaultTimeout = 30 * time.Second

// Poster performs the form POST to the gateway and returns the raw body.
type Poster interface {
	Post(ctx context.Context, url, body string) (string, error)
}

type PosterFunc func(ctx context.Context, url, body string) (string, error)

func (f PosterFunc) Post(ctx context.Context, url, body string) (string, error) {
	return f(ctx, url, body)
}

// HTTPPoster is the production Poster. It is safe for concurrent use.
type HTTPPoster struct {
	client *http.Client
}

func NewHTTPPoster(timeout time.Duration) *HTTPPoster {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPPoster{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// NewHTTPPosterWithClient uses hc as is; handy for tests against httptest servers.
func NewHTTPPosterWithClient(hc *http.Client) *HTTPPoster {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPPoster{client: hc}
}

func (p *HTTPPoster) Post(ctx context.Context, url, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return strings.TrimPrefix(string(respBody), "\ufeff"), nil
}

// BreakerPoster fails fast once the gateway keeps erroring. It never retries.
type BreakerPoster struct {
	next Poster
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerPoster(name string, next Poster, logger zerolog.Logger) *BreakerPoster {
	var st gobreaker.Settings
	st.Name = name
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}
	// A caller giving up is not a gateway fault.
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("circuit breaker state changed")
	}

	return &BreakerPoster{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[string](st),
	}
}

func (b *BreakerPoster) Post(ctx context.Context, url, body string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.Post(ctx, url, body)
	})
}

// State exposes the breaker state for health reporting.
func (b *BreakerPoster) State() gobreaker.State {
	return b.cb.State()
}

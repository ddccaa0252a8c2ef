package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/oops"
	"golang.org/x/xerrors"
	"k8s.io/utils/clock"

	"github.com/aquasecurity/advisory-scraper/pkg/log"
)

// Fetcher returns the raw body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TransportError is returned when a page could not be retrieved, after retries.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) retryable() bool {
	switch {
	case e.StatusCode == 0:
		return !xerrors.Is(e.Err, context.Canceled) && !xerrors.Is(e.Err, context.DeadlineExceeded)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= http.StatusInternalServerError
	}
}

type Option func(*Client)

func WithClock(c clock.Clock) Option {
	return func(client *Client) {
		client.clock = c
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithUserAgent(ua string) Option {
	return func(client *Client) {
		client.userAgent = ua
	}
}

// Client fetches pages one at a time with a bounded exponential backoff.
type Client struct {
	httpClient *http.Client
	clock      clock.Clock
	retries    int
	backoff    time.Duration
	userAgent  string
	logger     *log.Logger
}

func NewClient(timeout time.Duration, retries int, backoff time.Duration, opts ...Option) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	c := &Client{
		httpClient: httpClient,
		clock:      clock.RealClock{},
		retries:    retries,
		backoff:    backoff,
		userAgent:  "advisory-scraper",
		logger:     log.WithPrefix("fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	eb := oops.In("fetch").With("url", url)

	wait := c.backoff
	for attempt := 0; ; attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}

		var terr *TransportError
		if !xerrors.As(err, &terr) || !terr.retryable() || attempt >= c.retries {
			return nil, eb.With("attempts", attempt+1).Wrap(err)
		}

		c.logger.Warn("Retrying request", log.URL(url), log.Int("attempt", attempt+1), log.Err(err))
		c.clock.Sleep(wait)
		wait *= 2
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("Fetching page", log.URL(url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: xerrors.Errorf("failed to read body: %w", err)}
	}
	return body, nil
}

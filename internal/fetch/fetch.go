package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/time/rate"
)

// Defaults for fetcher construction. The page cap keeps pathological
// pages from dominating a scan; the interval paces requests per host.
const (
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 12_6) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/123.0 Safari/537.36"

	DefaultTimeout          = 18 * time.Second
	DefaultRequestInterval  = 350 * time.Millisecond
	DefaultMaxPageBytes     = 1_800_000
	DefaultMaxResourceBytes = 1_500_000

	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// Errors reported for responses that arrived but were rejected.
var (
	// ErrUnsupportedContent marks a response with a content type the
	// caller cannot use.
	ErrUnsupportedContent = errors.New("unsupported content type")

	// ErrTooLarge marks a response body over the configured cap.
	ErrTooLarge = errors.New("response too large")
)

// HTTPError is a non-success HTTP status.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Page is a fetched HTML page. URL is the final URL after redirects;
// extraction resolves relative references against it.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

// Fetcher performs rate-limited, size-capped HTTP fetches. It is safe
// for concurrent use; the per-host limiters and the resource cache are
// shared across goroutines.
type Fetcher struct {
	client           *http.Client
	logger           *slog.Logger
	userAgent        string
	cookie           string
	extraHeaders     map[string]string
	requestInterval  time.Duration
	maxPageBytes     int64
	maxResourceBytes int64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	cacheDir  string
	resources resourceCache
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCookie sends the given Cookie header with every request.
// Useful for sites that hide team pages behind a consent or login wall.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithExtraHeaders adds custom headers to every request. Extra headers
// are applied after the defaults and may override them.
func WithExtraHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		if len(headers) == 0 {
			return
		}
		if f.extraHeaders == nil {
			f.extraHeaders = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			f.extraHeaders[k] = v
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithHTTPClient substitutes the HTTP client, for tests and custom
// transports.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithRequestInterval overrides the minimum delay between requests to
// the same host.
func WithRequestInterval(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.requestInterval = d
		}
	}
}

// WithMaxPageBytes overrides the HTML page size cap.
func WithMaxPageBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPageBytes = n
		}
	}
}

// WithMaxResourceBytes overrides the script resource size cap.
func WithMaxResourceBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxResourceBytes = n
		}
	}
}

// WithResourceCacheDir persists the script resource cache under dir, so
// batch runs spanning many sites reuse bundles across process restarts.
func WithResourceCacheDir(dir string) Option {
	return func(f *Fetcher) {
		f.cacheDir = dir
	}
}

// WithLogger sets the logger for retry and rejection events.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher with the default limits.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:           &http.Client{Timeout: DefaultTimeout},
		logger:           slog.Default(),
		userAgent:        DefaultUserAgent,
		requestInterval:  DefaultRequestInterval,
		maxPageBytes:     DefaultMaxPageBytes,
		maxResourceBytes: DefaultMaxResourceBytes,
		limiters:         make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.cacheDir != "" {
		cache, err := newPersistentResourceCache(f.cacheDir)
		if err == nil {
			f.resources = cache
			return f
		}
		f.logger.Warn("resource cache persistence unavailable, using memory", "dir", f.cacheDir, "error", err)
	}
	f.resources = newResourceCache()
	return f
}

// FetchPage retrieves one HTML page. Responses that are not HTML, carry
// a non-success status, or exceed the page cap are errors.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	res, err := f.get(ctx, pageURL, f.maxPageBytes, isHTMLContent)
	if err != nil {
		return nil, err
	}
	return &Page{
		URL:         res.finalURL,
		StatusCode:  res.status,
		ContentType: res.contentType,
		Body:        string(res.body),
	}, nil
}

type response struct {
	body        []byte
	finalURL    string
	status      int
	contentType string
}

// get performs the rate-limited, retried GET underlying both page and
// resource fetches. acceptable vets the response content type.
func (f *Fetcher) get(ctx context.Context, rawURL string, maxBytes int64, acceptable func(string) bool) (*response, error) {
	return retry.DoWithData(
		func() (*response, error) {
			if err := f.wait(ctx, rawURL); err != nil {
				return nil, err
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
			if err != nil {
				return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
			}
			req.Header.Set("User-Agent", f.userAgent)
			req.Header.Set("Accept", acceptHeader)
			req.Header.Set("Accept-Language", acceptLanguage)
			if f.cookie != "" {
				req.Header.Set("Cookie", f.cookie)
			}
			for k, v := range f.extraHeaders {
				req.Header.Set(k, v)
			}

			resp, err := f.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close() //nolint:errcheck // best effort

			if resp.StatusCode < 200 || resp.StatusCode >= 400 {
				return nil, &HTTPError{URL: rawURL, StatusCode: resp.StatusCode}
			}

			contentType := resp.Header.Get("Content-Type")
			if !acceptable(contentType) {
				return nil, fmt.Errorf("%w: %q at %s", ErrUnsupportedContent, contentType, rawURL)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", rawURL, err)
			}
			if int64(len(body)) > maxBytes {
				return nil, fmt.Errorf("%w: over %d bytes at %s", ErrTooLarge, maxBytes, rawURL)
			}

			return &response{
				body:        body,
				finalURL:    resp.Request.URL.String(),
				status:      resp.StatusCode,
				contentType: contentType,
			}, nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Debug("retrying request", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
}

// isRetryableError reports whether a fetch failure is transient.
// Rejected content and oversized bodies never change on retry; of the
// HTTP statuses only 429 and the 5xx family do.
func isRetryableError(err error) bool {
	if errors.Is(err, ErrUnsupportedContent) || errors.Is(err, ErrTooLarge) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	return true
}

// wait blocks until the host's rate limiter admits another request.
func (f *Fetcher) wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return f.limiter(strings.ToLower(u.Host)).Wait(ctx)
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(f.requestInterval), 1)
		f.limiters[host] = l
	}
	return l
}

func isHTMLContent(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

func isTextResource(contentType string) bool {
	lower := strings.ToLower(contentType)
	for _, token := range []string{"javascript", "text", "json"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

package mosaic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SwatchArtifact is the renderable content the swatch service returned for a
// color key. It is opaque to the pipeline and inserted verbatim when rendered.
type SwatchArtifact string

// Resolver maps a color key to a swatch. Implementations must be safe for
// concurrent use; the Assembler calls Resolve from one goroutine per tile.
type Resolver interface {
	Resolve(ctx context.Context, key ColorKey) (SwatchArtifact, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, key ColorKey) (SwatchArtifact, error)

// Resolve calls f(ctx, key).
func (f ResolverFunc) Resolve(ctx context.Context, key ColorKey) (SwatchArtifact, error) {
	return f(ctx, key)
}

// StatusError is returned when the swatch service answered with anything
// other than 200 OK.
type StatusError struct {
	Key  ColorKey
	Code int
	Text string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("swatch %s: HTTP %d: %s", e.Key, e.Code, e.Text)
}

// TransportError is returned when no response reached the client at all.
// It carries no status code.
type TransportError struct {
	Key ColorKey
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("swatch %s: network error: %v", e.Key, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DefaultUserAgent is sent with every swatch request unless overridden.
const DefaultUserAgent = "mosaic-mcp/0.1.0"

// HTTPResolver fetches swatches from GET {BaseURL}/color/{key}.
//
// Every call issues its own request. Identical keys are neither coalesced nor
// cached, and failed requests are not retried.
type HTTPResolver struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// NewHTTPResolver returns a resolver for the service rooted at baseURL.
// A zero timeout leaves requests unbounded.
func NewHTTPResolver(baseURL string, timeout time.Duration, userAgent string) (*HTTPResolver, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid swatch URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid swatch URL %q: scheme must be http or https", baseURL)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}, nil
}

// WithClient replaces the HTTP client, e.g. with an httptest server's client.
func (r *HTTPResolver) WithClient(client *http.Client) *HTTPResolver {
	r.client = client
	return r
}

// URL is the address queried for key.
func (r *HTTPResolver) URL(key ColorKey) string {
	return r.baseURL + "/color/" + url.PathEscape(string(key))
}

// Resolve downloads the swatch for key.
func (r *HTTPResolver) Resolve(ctx context.Context, key ColorKey) (SwatchArtifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(key), nil)
	if err != nil {
		return "", &TransportError{Key: key, Err: err}
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &TransportError{Key: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{
			Key:  key,
			Code: resp.StatusCode,
			Text: statusText(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Key: key, Err: err}
	}
	return SwatchArtifact(body), nil
}

// statusText strips the numeric prefix net/http puts in Response.Status.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

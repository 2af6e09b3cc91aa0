package curl

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultCurlPath is the binary looked up on PATH when no explicit
	// path is configured.
	DefaultCurlPath = "curl"
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client runs requests through the curl binary. The zero-value options
// match plain `curl --silent --include <url>` behavior: no redirect
// following, no compression, no proxy.
type Client struct {
	curlPath        string
	timeout         time.Duration
	proxy           string
	followRedirects bool
	compressed      bool
	iface           string
	defaultHeaders  []string
	runner          Runner
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		curlPath: DefaultCurlPath,
		timeout:  DefaultTimeout,
		runner:   execRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCurlPath sets the path of the curl binary to invoke.
func WithCurlPath(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.curlPath = path
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxy = proxyURL
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirects = follow
	}
}

func WithCompression(compressed bool) ClientOption {
	return func(c *Client) {
		c.compressed = compressed
	}
}

// WithInterface binds all requests to a network interface, curl's
// --interface flag.
func WithInterface(name string) ClientOption {
	return func(c *Client) {
		c.iface = name
	}
}

// WithDefaultHeader adds a raw header line sent with every request,
// before any per-request headers.
func WithDefaultHeader(header string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders = append(c.defaultHeaders, header)
	}
}

func WithDefaultHeaders(headers ...string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders = append(c.defaultHeaders, headers...)
	}
}

// WithRunner replaces the subprocess runner. Used by tests to feed the
// parser canned captures without a curl binary.
func WithRunner(r Runner) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.runner = r
		}
	}
}

// Do runs one request through curl and parses the capture. Client-level
// settings fill in whatever the request leaves unset; the request is not
// mutated. Errors come only from the process layer — a capture that
// parses to nothing still returns a Response with StatusCode 0.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("request has no URL")
	}

	r := *req
	if r.Timeout == 0 {
		r.Timeout = c.timeout
	}
	if r.Proxy == "" {
		r.Proxy = c.proxy
	}
	if r.Interface == "" {
		r.Interface = c.iface
	}
	if c.followRedirects {
		r.FollowRedirects = true
	}
	if c.compressed {
		r.Compressed = true
	}
	if len(c.defaultHeaders) > 0 {
		r.Headers = append(append([]string{}, c.defaultHeaders...), req.Headers...)
	}

	if r.Timeout > 0 {
		// curl enforces --max-time itself; the context deadline is a
		// backstop with a little slack so curl gets to report first.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout+time.Second)
		defer cancel()
	}

	start := time.Now()
	out, err := c.runner.Run(ctx, c.curlPath, r.Args())
	if err != nil {
		return nil, err
	}

	resp := ParseOutput(out)
	resp.Duration = time.Since(start)
	return resp, nil
}

func (c *Client) Get(ctx context.Context, url string, headers ...string) (*Response, error) {
	return c.Do(ctx, NewRequest("GET", url).SetHeaders(headers...))
}

func (c *Client) Post(ctx context.Context, url, body string, headers ...string) (*Response, error) {
	return c.Do(ctx, NewRequest("POST", url).SetBody(body).SetHeaders(headers...))
}

func (c *Client) Put(ctx context.Context, url, body string, headers ...string) (*Response, error) {
	return c.Do(ctx, NewRequest("PUT", url).SetBody(body).SetHeaders(headers...))
}

func (c *Client) Patch(ctx context.Context, url, body string, headers ...string) (*Response, error) {
	return c.Do(ctx, NewRequest("PATCH", url).SetBody(body).SetHeaders(headers...))
}

func (c *Client) Delete(ctx context.Context, url string, headers ...string) (*Response, error) {
	return c.Do(ctx, NewRequest("DELETE", url).SetHeaders(headers...))
}

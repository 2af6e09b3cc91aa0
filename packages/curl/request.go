package curl

import (
	"strings"
	"time"
)

// Request describes one curl invocation. Headers are raw "Name: value"
// lines passed to curl in the order they were added.
type Request struct {
	Method          string
	URL             string
	Headers         []string
	Body            string
	Proxy           string
	FollowRedirects bool
	Compressed      bool
	Interface       string
	Timeout         time.Duration
}

func NewRequest(method, rawURL string) *Request {
	if method == "" {
		method = "GET"
	}
	return &Request{
		Method: strings.ToUpper(method),
		URL:    rawURL,
	}
}

// SetHeader appends a raw header line, e.g. "Accept: application/json".
func (r *Request) SetHeader(header string) *Request {
	r.Headers = append(r.Headers, header)
	return r
}

func (r *Request) SetHeaders(headers ...string) *Request {
	r.Headers = append(r.Headers, headers...)
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetProxy(proxy string) *Request {
	r.Proxy = proxy
	return r
}

func (r *Request) SetFollowRedirects(follow bool) *Request {
	r.FollowRedirects = follow
	return r
}

func (r *Request) SetCompressed(compressed bool) *Request {
	r.Compressed = compressed
	return r
}

// SetInterface sets the network interface curl should bind to.
func (r *Request) SetInterface(name string) *Request {
	r.Interface = name
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

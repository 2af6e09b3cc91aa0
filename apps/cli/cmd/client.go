package cmd

import (
	"sort"
	"time"

	"github.com/curlwrap/curlwrap/packages/config"
	"github.com/curlwrap/curlwrap/packages/curl"
)

// newClient builds a curl client from file config, with flag-derived
// options appended so they take precedence.
func newClient(cfg *config.Config, overrides ...curl.ClientOption) *curl.Client {
	opts := []curl.ClientOption{
		curl.WithCurlPath(cfg.CurlPath),
		curl.WithFollowRedirects(cfg.GetFollowRedirects()),
		curl.WithCompression(cfg.GetCompressed()),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, curl.WithTimeout(time.Duration(cfg.Timeout)*time.Millisecond))
	}
	if cfg.Proxy != "" {
		opts = append(opts, curl.WithProxy(cfg.Proxy))
	}
	if cfg.Interface != "" {
		opts = append(opts, curl.WithInterface(cfg.Interface))
	}

	// Config headers are a map; emit them in sorted order so argv is
	// stable across runs.
	keys := make([]string, 0, len(cfg.Headers))
	for k := range cfg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		opts = append(opts, curl.WithDefaultHeader(k+": "+cfg.Headers[k]))
	}

	opts = append(opts, overrides...)
	return curl.NewClient(opts...)
}

package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/curlwrap/curlwrap/packages/curl"
)

// Runner executes suites sequentially through a curl client.
type Runner struct {
	client *curl.Client
	bail   bool
}

type Option func(*Runner)

// WithBail stops a suite at the first failed request.
func WithBail(bail bool) Option {
	return func(r *Runner) {
		r.bail = bail
	}
}

func New(client *curl.Client, opts ...Option) *Runner {
	r := &Runner{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CheckResult is the outcome of a single expectation.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// RequestResult is the outcome of one request in a suite.
type RequestResult struct {
	Name     string
	Response *curl.Response
	Err      error
	Checks   []*CheckResult
	Passed   bool
}

// Result is the outcome of a whole suite run.
type Result struct {
	Suite    string
	Results  []*RequestResult
	Passed   int
	Failed   int
	Duration time.Duration
}

// Run executes the suite's requests in order. Request failures are
// collected into the result; the returned error covers only problems
// with the suite itself.
func (r *Runner) Run(ctx context.Context, suite *Suite) (*Result, error) {
	result := &Result{Suite: suite.Name}
	start := time.Now()

	for _, spec := range suite.Requests {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rr := r.runRequest(ctx, suite, spec)
		result.Results = append(result.Results, rr)
		if rr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}

		if r.bail && !rr.Passed {
			break
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) runRequest(ctx context.Context, suite *Suite, spec *RequestSpec) *RequestResult {
	rr := &RequestResult{Name: spec.Name}

	resp, err := r.client.Do(ctx, buildRequest(suite.Defaults, spec))
	if err != nil {
		rr.Err = err
		return rr
	}
	rr.Response = resp

	rr.Checks = evaluate(resp, spec.Expect, suite.BaseDir)
	rr.Passed = true
	for _, c := range rr.Checks {
		if !c.Passed {
			rr.Passed = false
			break
		}
	}

	return rr
}

// buildRequest turns a spec plus suite defaults into a curl request.
// Header maps are emitted in sorted key order so runs are reproducible.
func buildRequest(defaults *Defaults, spec *RequestSpec) *curl.Request {
	req := curl.NewRequest(spec.Method, spec.URL)

	if defaults != nil {
		req.SetHeaders(headerLines(defaults.Headers)...)
		req.SetProxy(defaults.Proxy)
		req.SetFollowRedirects(defaults.FollowRedirects)
		req.SetCompressed(defaults.Compressed)
		if defaults.Timeout > 0 {
			req.SetTimeout(time.Duration(defaults.Timeout) * time.Millisecond)
		}
	}

	req.SetHeaders(headerLines(spec.Headers)...)
	if spec.Body != "" {
		req.SetBody(spec.Body)
	}
	if spec.Proxy != "" {
		req.SetProxy(spec.Proxy)
	}
	if spec.FollowRedirects != nil {
		req.SetFollowRedirects(*spec.FollowRedirects)
	}
	if spec.Compressed != nil {
		req.SetCompressed(*spec.Compressed)
	}
	if spec.Timeout > 0 {
		req.SetTimeout(time.Duration(spec.Timeout) * time.Millisecond)
	}

	return req
}

func headerLines(headers map[string]string) []string {
	if len(headers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+headers[k])
	}
	return lines
}

func evaluate(resp *curl.Response, expect *Expect, baseDir string) []*CheckResult {
	var checks []*CheckResult

	// A capture without a recognizable status line fails the request
	// even when no expectations were written.
	if expect == nil {
		if resp.StatusCode == 0 {
			checks = append(checks, &CheckResult{
				Name:    "response parsed",
				Message: "curl output contained no status line",
			})
		} else {
			checks = append(checks, &CheckResult{Name: "response parsed", Passed: true})
		}
		return checks
	}

	if expect.Status > 0 {
		c := &CheckResult{Name: fmt.Sprintf("status == %d", expect.Status)}
		if resp.StatusCode == expect.Status {
			c.Passed = true
		} else {
			c.Message = fmt.Sprintf("got %d", resp.StatusCode)
		}
		checks = append(checks, c)
	}

	for _, name := range sortedKeys(expect.HeaderContains) {
		want := expect.HeaderContains[name]
		c := &CheckResult{Name: fmt.Sprintf("header %s contains %q", name, want)}
		got := resp.Header(name)
		if strings.Contains(got, want) {
			c.Passed = true
		} else {
			c.Message = fmt.Sprintf("got %q", got)
		}
		checks = append(checks, c)
	}

	for _, want := range expect.BodyContains {
		c := &CheckResult{Name: fmt.Sprintf("body contains %q", want)}
		if strings.Contains(resp.Body, want) {
			c.Passed = true
		} else {
			c.Message = "not found in body"
		}
		checks = append(checks, c)
	}

	for _, path := range sortedKeys(expect.JSONPath) {
		want := expect.JSONPath[path]
		c := &CheckResult{Name: fmt.Sprintf("jsonPath %s == %q", path, want)}
		value := gjson.Get(resp.Body, path)
		switch {
		case !value.Exists():
			c.Message = "path not found"
		case value.String() == want:
			c.Passed = true
		default:
			c.Message = fmt.Sprintf("got %q", value.String())
		}
		checks = append(checks, c)
	}

	if expect.JSONSchema != "" {
		checks = append(checks, checkSchema(resp.Body, expect.JSONSchema, baseDir))
	}

	return checks
}

func checkSchema(body, schemaPath, baseDir string) *CheckResult {
	c := &CheckResult{Name: fmt.Sprintf("body matches schema %s", schemaPath)}

	if !filepath.IsAbs(schemaPath) && baseDir != "" {
		schemaPath = filepath.Join(baseDir, schemaPath)
	}
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		c.Message = err.Error()
		return c
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + abs)
	documentLoader := gojsonschema.NewStringLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		c.Message = fmt.Sprintf("schema validation error: %v", err)
		return c
	}

	if result.Valid() {
		c.Passed = true
		return c
	}

	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	c.Message = strings.Join(msgs, "; ")
	return c
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

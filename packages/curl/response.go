package curl

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// blockSeparator ends each header section in a curl --include capture.
// When curl follows redirects it prints one full message per hop, so the
// same separator also divides one embedded message from the next.
const blockSeparator = "\r\n\r\n"

// statusLineRe tolerates any version token after "HTTP/" and any
// whitespace before the three-digit code.
var statusLineRe = regexp.MustCompile(`HTTP/.*?\s(\d{3})`)

// Response is the final HTTP message parsed out of a curl capture.
// Headers keeps the lines in the order curl printed them, untouched
// except for whitespace trimming. A StatusCode of 0 means no usable
// status line was found in the capture.
type Response struct {
	StatusCode int
	Headers    []string
	Body       string
	Duration   time.Duration
}

// ParseOutput turns the full stdout capture of a curl --include run into
// a Response. The capture may hold several messages back to back when
// curl followed redirects; blocks whose status code starts with '3' are
// treated as intermediate hops and skipped, and the first block with a
// non-redirect status line supplies the code and headers. The body is
// always the trimmed text after the last separator, whichever block the
// status came from. ParseOutput never fails: a capture with no usable
// status line yields StatusCode 0 and no headers.
func ParseOutput(raw []byte) *Response {
	text := strings.ToValidUTF8(string(raw), "�")
	blocks := strings.Split(text, blockSeparator)

	resp := &Response{
		Body: strings.TrimSpace(blocks[len(blocks)-1]),
	}

	for _, block := range blocks {
		m := statusLineRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		if strings.HasPrefix(m[1], "3") {
			// Redirect hop, not the final answer.
			continue
		}
		resp.StatusCode, _ = strconv.Atoi(m[1])
		resp.Headers = headerLines(block)
		break
	}

	return resp
}

// headerLines returns the trimmed header lines of a message block,
// dropping the status line and stopping at the first blank line.
func headerLines(block string) []string {
	var headers []string
	for _, line := range strings.Split(block, "\n")[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}
		headers = append(headers, strings.TrimSpace(line))
	}
	return headers
}

// Header returns the value of the named header, matching case
// insensitively, or "" if the capture did not include it.
func (r *Response) Header(key string) string {
	for _, line := range r.Headers {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), key) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal([]byte(r.Body), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

package curl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput_SingleMessage(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n<html>Hi</html>")

	resp := ParseOutput(raw)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"Content-Type: text/html"}, resp.Headers)
	assert.Equal(t, "<html>Hi</html>", resp.Body)
}

func TestParseOutput_MultipleHeaders(t *testing.T) {
	raw := []byte("HTTP/1.1 201 Created\r\n" +
		"Content-Type: application/json\r\n" +
		"Location: /things/42\r\n" +
		"X-Request-Id: abc\r\n" +
		"\r\n" +
		`{"id":42}`)

	resp := ParseOutput(raw)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, []string{
		"Content-Type: application/json",
		"Location: /things/42",
		"X-Request-Id: abc",
	}, resp.Headers)
	assert.Equal(t, `{"id":42}`, resp.Body)
}

func TestParseOutput_SkipsRedirectBlocks(t *testing.T) {
	raw := []byte("HTTP/1.1 301 Moved Permanently\r\n" +
		"Location: https://example.com/final\r\n" +
		"\r\n" +
		"HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"made it")

	resp := ParseOutput(raw)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"Content-Type: text/plain"}, resp.Headers)
	assert.Equal(t, "made it", resp.Body)
}

func TestParseOutput_MultipleRedirectHops(t *testing.T) {
	raw := []byte("HTTP/1.1 302 Found\r\nLocation: /a\r\n\r\n" +
		"HTTP/1.1 308 Permanent Redirect\r\nLocation: /b\r\n\r\n" +
		"HTTP/2 404 Not Found\r\nContent-Type: text/plain\r\n\r\n" +
		"nope")

	resp := ParseOutput(raw)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, []string{"Content-Type: text/plain"}, resp.Headers)
	assert.Equal(t, "nope", resp.Body)
}

func TestParseOutput_BodyIsAlwaysLastBlock(t *testing.T) {
	// The status block embeds text of its own, but the body must come
	// from the block after the last separator.
	raw := []byte("HTTP/1.1 301 Moved\r\nLocation: /next\r\n\r\n" +
		"HTTP/1.1 200 OK\r\nContent-Length: 4\r\n\r\n" +
		"real")

	resp := ParseOutput(raw)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "real", resp.Body)
}

func TestParseOutput_OnlyRedirects(t *testing.T) {
	raw := []byte("HTTP/1.1 302 Found\r\nLocation: /gone\r\n\r\nmoved away")

	resp := ParseOutput(raw)

	assert.Equal(t, 0, resp.StatusCode)
	assert.Empty(t, resp.Headers)
	assert.Equal(t, "moved away", resp.Body)
}

func TestParseOutput_NoStatusLine(t *testing.T) {
	resp := ParseOutput([]byte("not an http capture at all"))

	assert.Equal(t, 0, resp.StatusCode)
	assert.Empty(t, resp.Headers)
	assert.Equal(t, "not an http capture at all", resp.Body)
}

func TestParseOutput_Empty(t *testing.T) {
	resp := ParseOutput(nil)

	assert.Equal(t, 0, resp.StatusCode)
	assert.Empty(t, resp.Headers)
	assert.Equal(t, "", resp.Body)
}

func TestParseOutput_NoBody(t *testing.T) {
	// HEAD-style capture: headers, separator, nothing after.
	raw := []byte("HTTP/1.1 204 No Content\r\nServer: test\r\n\r\n")

	resp := ParseOutput(raw)

	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, []string{"Server: test"}, resp.Headers)
	assert.Equal(t, "", resp.Body)
}

func TestParseOutput_TrimsHeaderLines(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\n  Content-Type: text/html  \r\n\r\nbody")

	resp := ParseOutput(raw)

	assert.Equal(t, []string{"Content-Type: text/html"}, resp.Headers)
}

func TestParseOutput_TrimsBody(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nServer: test\r\n\r\n  body text\r\n")

	resp := ParseOutput(raw)

	assert.Equal(t, "body text", resp.Body)
}

func TestParseOutput_ToleratesVersionTokens(t *testing.T) {
	for _, version := range []string{"HTTP/1.0", "HTTP/1.1", "HTTP/2", "HTTP/3", "HTTP/banana"} {
		raw := []byte(version + " 200 OK\r\nServer: test\r\n\r\nok")
		resp := ParseOutput(raw)
		assert.Equal(t, 200, resp.StatusCode, "version %q", version)
	}
}

func TestParseOutput_InvalidUTF8(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\n\r\nab")
	raw = append(raw, 0xff, 0xfe, 0xfd)
	raw = append(raw, 'c', 'd')

	resp := ParseOutput(raw)

	// Each run of invalid bytes collapses to one replacement character.
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ab�cd", resp.Body)
}

func TestParseOutput_Deterministic(t *testing.T) {
	raw := []byte("HTTP/1.1 302 Found\r\nLocation: /x\r\n\r\n" +
		"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nhello")

	first := ParseOutput(raw)
	second := ParseOutput(raw)

	assert.Equal(t, first.StatusCode, second.StatusCode)
	assert.Equal(t, first.Headers, second.Headers)
	assert.Equal(t, first.Body, second.Body)
}

func TestResponse_Header(t *testing.T) {
	resp := ParseOutput([]byte("HTTP/1.1 200 OK\r\n" +
		"Content-Type: application/json; charset=utf-8\r\n" +
		"X-Rate-Limit: 100\r\n" +
		"\r\n" +
		"{}"))

	assert.Equal(t, "application/json; charset=utf-8", resp.Header("content-type"))
	assert.Equal(t, "100", resp.Header("X-RATE-LIMIT"))
	assert.Equal(t, "", resp.Header("Missing"))
}

func TestResponse_BodyJSON(t *testing.T) {
	resp := ParseOutput([]byte("HTTP/1.1 200 OK\r\n" +
		"Content-Type: application/json\r\n" +
		"\r\n" +
		`{"name":"test","count":3}`))

	require.True(t, resp.IsJSON())

	body, err := resp.BodyJSON()
	require.NoError(t, err)

	m, ok := body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test", m["name"])
	assert.Equal(t, float64(3), m["count"])
}

func TestResponse_StatusClasses(t *testing.T) {
	tests := []struct {
		code    int
		success bool
		client  bool
		server  bool
	}{
		{200, true, false, false},
		{204, true, false, false},
		{404, false, true, false},
		{500, false, false, true},
		{0, false, false, false},
	}

	for _, tt := range tests {
		r := &Response{StatusCode: tt.code}
		assert.Equal(t, tt.success, r.IsSuccess(), "code %d", tt.code)
		assert.Equal(t, tt.client, r.IsClientError(), "code %d", tt.code)
		assert.Equal(t, tt.server, r.IsServerError(), "code %d", tt.code)
	}
}

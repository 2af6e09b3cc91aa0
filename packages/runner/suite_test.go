package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSuite(t *testing.T) {
	path := writeSuite(t, `
name: smoke
defaults:
  headers:
    User-Agent: curlwrap-suite
  followRedirects: true
requests:
  - name: fetch home
    method: GET
    url: https://example.com/
    expect:
      status: 200
      bodyContains: ["Example"]
  - method: post
    url: https://example.com/things
    body: '{"name":"x"}'
    headers:
      Content-Type: application/json
    expect:
      status: 201
      jsonPath:
        name: x
`)

	suite, err := LoadSuite(path)
	require.NoError(t, err)

	assert.Equal(t, "smoke", suite.Name)
	assert.Equal(t, filepath.Dir(path), suite.BaseDir)
	require.Len(t, suite.Requests, 2)

	assert.Equal(t, "fetch home", suite.Requests[0].Name)
	assert.True(t, suite.Defaults.FollowRedirects)
	assert.Equal(t, "curlwrap-suite", suite.Defaults.Headers["User-Agent"])

	// Unnamed requests get a generated name and default method GET is
	// only applied when method is missing.
	assert.Equal(t, "POST https://example.com/things", suite.Requests[1].Name)
	assert.Equal(t, "x", suite.Requests[1].Expect.JSONPath["name"])
}

func TestLoadSuite_NameDefaultsToFilename(t *testing.T) {
	path := writeSuite(t, `
requests:
  - url: https://example.com
`)

	suite, err := LoadSuite(path)
	require.NoError(t, err)
	assert.Equal(t, "suite", suite.Name)
	assert.Equal(t, "GET", suite.Requests[0].Method)
}

func TestLoadSuite_NoRequests(t *testing.T) {
	path := writeSuite(t, `name: empty`)

	_, err := LoadSuite(path)
	assert.ErrorContains(t, err, "no requests")
}

func TestLoadSuite_MissingURL(t *testing.T) {
	path := writeSuite(t, `
requests:
  - method: GET
`)

	_, err := LoadSuite(path)
	assert.ErrorContains(t, err, "has no url")
}

func TestLoadSuite_BadYAML(t *testing.T) {
	path := writeSuite(t, "requests: [")

	_, err := LoadSuite(path)
	assert.Error(t, err)
}

func TestLoadSuite_MissingFile(t *testing.T) {
	_, err := LoadSuite(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

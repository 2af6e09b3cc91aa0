// Package curl drives the curl command-line binary and parses its output.
//
// It provides:
//   - A chainable Request builder (method, headers, body, proxy, redirects,
//     compression, network interface)
//   - Mapping from a Request to a curl argument vector
//   - A Client that spawns curl as a subprocess and captures stdout
//   - ParseOutput, which turns a curl --include capture into a Response
//
// The curl binary owns all transport concerns (TLS, redirects, compression).
// This package only builds arguments, runs the process, and parses text.
package curl

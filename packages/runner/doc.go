// Package runner executes YAML-defined request suites through the curl
// client and evaluates the expectations attached to each request.
package runner

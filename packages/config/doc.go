// Package config handles configuration loading for curlwrap.
//
// It provides:
//   - Loading configuration from .curlwrap.config.json and friends
//   - Default configuration values
//   - Merging of file config with flag overrides
package config

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config represents the curlwrap configuration
type Config struct {
	CurlPath        string            `json:"curlPath,omitempty"`
	Timeout         int               `json:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool             `json:"followRedirects,omitempty"`
	Compressed      *bool             `json:"compressed,omitempty"`
	Proxy           string            `json:"proxy,omitempty"`
	Interface       string            `json:"interface,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"` // Default headers for all requests
	HistoryDB       string            `json:"historyDb,omitempty"`
	NoHistory       *bool             `json:"noHistory,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty"`
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to false.
// Plain curl does not follow redirects unless asked, and neither do we.
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, false)
}

// GetCompressed returns the compression setting, defaulting to false
func (c *Config) GetCompressed() bool {
	return getBool(c.Compressed, false)
}

// GetNoHistory returns the history opt-out, defaulting to false
func (c *Config) GetNoHistory() bool {
	return getBool(c.NoHistory, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// HistoryPath returns the configured history database path, or the
// default under the user's home directory.
func (c *Config) HistoryPath() string {
	if c.HistoryDB != "" {
		return c.HistoryDB
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".curlwrap", "history.db")
	}
	return filepath.Join(home, ".curlwrap", "history.db")
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".curlwrap.config.json",
	"curlwrap.config.json",
	".curlwraprc",
	".curlwraprc.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.CurlPath != "" {
		result.CurlPath = other.CurlPath
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Interface != "" {
		result.Interface = other.Interface
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.Compressed != nil {
		result.Compressed = other.Compressed
	}
	if other.NoHistory != nil {
		result.NoHistory = other.NoHistory
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}

	// Merge headers
	if len(other.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range other.Headers {
			result.Headers[k] = v
		}
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		CurlPath:        "curl",
		Timeout:         30000, // 30 seconds
		FollowRedirects: BoolPtr(false),
		Compressed:      BoolPtr(false),
		Proxy:           "",
		Interface:       "",
		Headers:         nil,
		HistoryDB:       "",
		NoHistory:       BoolPtr(false),
		NoColor:         BoolPtr(false),
		Verbose:         BoolPtr(false),
	}
}

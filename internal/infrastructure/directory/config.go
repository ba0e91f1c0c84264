package directory

import "errors"

// Config holds configuration for the employee directory HTTP client
type Config struct {
	// BaseURL is the base URL of the employee directory service
	BaseURL string
	// APIKey authenticates this service against the directory
	APIKey string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for directory configuration
var (
	ErrConfigMissingBaseURL = errors.New("directory: base URL is required")
	ErrConfigMissingAPIKey  = errors.New("directory: API key is required")
)

// NewConfig creates a directory configuration with defaults
func NewConfig(baseURL, apiKey string) *Config {
	return &Config{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		TimeoutSeconds: 10,
	}
}

// Validate validates the directory configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	return nil
}

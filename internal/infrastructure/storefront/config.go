package storefront

import (
	"errors"
	"strings"
	"time"
)

// apiBasePath is appended to the store URL to reach the 3DCart REST API.
const apiBasePath = "/3dCartWebAPI/v2"

// Config holds the 3DCart REST API credentials and client settings
type Config struct {
	StoreURL   string
	PrivateKey string
	Token      string
	Timeout    time.Duration
}

// Validate checks that required credentials are present
func (c *Config) Validate() error {
	if c.StoreURL == "" {
		return errors.New("storefront: store URL is required")
	}
	if c.PrivateKey == "" {
		return errors.New("storefront: private key is required")
	}
	if c.Token == "" {
		return errors.New("storefront: token is required")
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// baseURL returns the API base URL without a trailing slash
func (c *Config) baseURL() string {
	return strings.TrimRight(c.StoreURL, "/") + apiBasePath
}

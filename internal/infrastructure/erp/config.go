package erp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds the NetSuite SuiteTalk REST credentials and client settings
type Config struct {
	AccountID      string
	BaseURL        string
	RESTAPIVersion string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
	Timeout        time.Duration
}

// Validate checks that required credentials are present and fills defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		if c.AccountID == "" {
			return errors.New("erp: base URL or account ID is required")
		}
		c.BaseURL = fmt.Sprintf("https://%s.suitetalk.api.netsuite.com", strings.ToLower(c.AccountID))
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return errors.New("erp: consumer key and secret are required")
	}
	if c.TokenID == "" || c.TokenSecret == "" {
		return errors.New("erp: token ID and secret are required")
	}
	if c.RESTAPIVersion == "" {
		c.RESTAPIVersion = "v1"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}

// recordBaseURL returns the record service base URL without a trailing slash
func (c *Config) recordBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/services/rest/record/" + c.RESTAPIVersion
}

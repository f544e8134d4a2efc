package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := baseConfig()

	assert.Equal(t, "storefront-erp-integration", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Storefront.Timeout)
	assert.Equal(t, 60*time.Second, cfg.ERP.Timeout)
	assert.Equal(t, "v1", cfg.ERP.RESTAPIVersion)
	assert.Equal(t, 3, cfg.OrderProcessing.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.OrderProcessing.RetryDelay)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, []string{"csv", "xlsx", "xls"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "./uploads", cfg.Upload.Path)
}

func TestApplyDefaults_DoesNotOverrideSetValues(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = "9090"
	cfg.OrderProcessing.RetryAttempts = 5
	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 5, cfg.OrderProcessing.RetryAttempts)
}

func TestValidate_Development(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, cfg.validate())
}

func TestValidate_BodySizeBelowUploadCap(t *testing.T) {
	cfg := baseConfig()
	cfg.HTTP.MaxBodySize = 1 << 20
	cfg.Upload.MaxFileSize = 10 << 20

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_body_size")
}

func TestValidate_Production(t *testing.T) {
	makeProd := func() *Config {
		cfg := baseConfig()
		cfg.App.Env = "production"
		cfg.Storefront = StorefrontConfig{
			StoreURL:   "https://apirest.3dcart.com",
			PrivateKey: "pk",
			Token:      "tok",
			Timeout:    30 * time.Second,
		}
		cfg.ERP = ERPConfig{
			AccountID:      "123456",
			BaseURL:        "https://123456.suitetalk.api.netsuite.com",
			RESTAPIVersion: "v1",
			ConsumerKey:    "ck",
			ConsumerSecret: "cs",
			TokenID:        "ti",
			TokenSecret:    "ts",
			Timeout:        60 * time.Second,
		}
		cfg.Webhook.SecretKey = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "complete production config passes",
			mutate: func(*Config) {},
		},
		{
			name:    "missing storefront token",
			mutate:  func(c *Config) { c.Storefront.Token = "" },
			wantErr: "storefront credentials",
		},
		{
			name:    "missing erp token secret",
			mutate:  func(c *Config) { c.ERP.TokenSecret = "" },
			wantErr: "erp credentials",
		},
		{
			name:    "missing webhook secret",
			mutate:  func(c *Config) { c.Webhook.SecretKey = "" },
			wantErr: "webhook.secret_key",
		},
		{
			name: "notifications enabled without api key",
			mutate: func(c *Config) {
				c.Notifications.Enabled = true
				c.Notifications.APIKey = ""
			},
			wantErr: "notifications.api_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := makeProd()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

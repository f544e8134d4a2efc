package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App             AppConfig
	Log             LogConfig
	HTTP            HTTPConfig
	Storefront      StorefrontConfig
	ERP             ERPConfig
	Notifications   NotificationsConfig
	Webhook         WebhookConfig
	OrderProcessing OrderProcessingConfig
	Upload          UploadConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	MaxSizeMB  int    // rotate the log file after this many megabytes
	MaxBackups int    // rotated files to keep
	MaxAgeDays int    // days to keep rotated files
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// StorefrontConfig holds 3DCart REST API credentials
type StorefrontConfig struct {
	StoreURL   string
	PrivateKey string
	Token      string
	Timeout    time.Duration
}

// ERPConfig holds NetSuite SuiteTalk REST credentials
type ERPConfig struct {
	AccountID      string
	BaseURL        string
	RESTAPIVersion string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
	Timeout        time.Duration
}

// NotificationsConfig holds SendGrid notification settings
type NotificationsConfig struct {
	Enabled       bool
	APIKey        string
	FromEmail     string
	FromName      string
	ToEmails      []string
	SubjectPrefix string
}

// WebhookConfig holds inbound webhook settings
type WebhookConfig struct {
	SecretKey string
}

// OrderProcessingConfig holds synchronization workflow settings
type OrderProcessingConfig struct {
	AutoCreateCustomers bool
	RetryAttempts       int
	RetryDelay          time.Duration
	// FallbackItemID is the ERP item used when a line item can be neither
	// found nor created. Empty disables the fallback and fails the order.
	FallbackItemID string
}

// UploadConfig holds manual file upload settings
type UploadConfig struct {
	MaxFileSize       int64
	AllowedExtensions []string
	Path              string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INTEGRATION_ prefix (e.g., INTEGRATION_ERP_TOKEN_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("INTEGRATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Version: v.GetString("app.version"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Storefront: StorefrontConfig{
			StoreURL:   v.GetString("storefront.store_url"),
			PrivateKey: v.GetString("storefront.private_key"),
			Token:      v.GetString("storefront.token"),
			Timeout:    v.GetDuration("storefront.timeout"),
		},
		ERP: ERPConfig{
			AccountID:      v.GetString("erp.account_id"),
			BaseURL:        v.GetString("erp.base_url"),
			RESTAPIVersion: v.GetString("erp.rest_api_version"),
			ConsumerKey:    v.GetString("erp.consumer_key"),
			ConsumerSecret: v.GetString("erp.consumer_secret"),
			TokenID:        v.GetString("erp.token_id"),
			TokenSecret:    v.GetString("erp.token_secret"),
			Timeout:        v.GetDuration("erp.timeout"),
		},
		Notifications: NotificationsConfig{
			Enabled:       v.GetBool("notifications.enabled"),
			APIKey:        v.GetString("notifications.api_key"),
			FromEmail:     v.GetString("notifications.from_email"),
			FromName:      v.GetString("notifications.from_name"),
			ToEmails:      v.GetStringSlice("notifications.to_emails"),
			SubjectPrefix: v.GetString("notifications.subject_prefix"),
		},
		Webhook: WebhookConfig{
			SecretKey: v.GetString("webhook.secret_key"),
		},
		OrderProcessing: OrderProcessingConfig{
			AutoCreateCustomers: v.GetBool("order_processing.auto_create_customers"),
			RetryAttempts:       v.GetInt("order_processing.retry_attempts"),
			RetryDelay:          v.GetDuration("order_processing.retry_delay"),
			FallbackItemID:      v.GetString("order_processing.fallback_item_id"),
		},
		Upload: UploadConfig{
			MaxFileSize:       v.GetInt64("upload.max_file_size"),
			AllowedExtensions: v.GetStringSlice("upload.allowed_extensions"),
			Path:              v.GetString("upload.path"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront-erp-integration"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 30
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 30
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 12 << 20 // headroom above the upload cap
	}
	if cfg.Storefront.Timeout == 0 {
		cfg.Storefront.Timeout = 30 * time.Second
	}
	if cfg.ERP.RESTAPIVersion == "" {
		cfg.ERP.RESTAPIVersion = "v1"
	}
	if cfg.ERP.Timeout == 0 {
		cfg.ERP.Timeout = 60 * time.Second
	}
	if cfg.Notifications.FromName == "" {
		cfg.Notifications.FromName = "3DCart Integration"
	}
	if cfg.Notifications.SubjectPrefix == "" {
		cfg.Notifications.SubjectPrefix = "[3DCart Integration] "
	}
	if cfg.OrderProcessing.RetryAttempts == 0 {
		cfg.OrderProcessing.RetryAttempts = 3
	}
	if cfg.OrderProcessing.RetryDelay == 0 {
		cfg.OrderProcessing.RetryDelay = 5 * time.Second
	}
	if cfg.Upload.MaxFileSize == 0 {
		cfg.Upload.MaxFileSize = 10 << 20 // 10MB
	}
	if len(cfg.Upload.AllowedExtensions) == 0 {
		cfg.Upload.AllowedExtensions = []string{"csv", "xlsx", "xls"}
	}
	if cfg.Upload.Path == "" {
		cfg.Upload.Path = "./uploads"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.OrderProcessing.RetryAttempts < 0 {
		return fmt.Errorf("order_processing.retry_attempts cannot be negative")
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive")
	}
	if c.HTTP.MaxBodySize < c.Upload.MaxFileSize {
		return fmt.Errorf("http.max_body_size (%d) must not be smaller than upload.max_file_size (%d)",
			c.HTTP.MaxBodySize, c.Upload.MaxFileSize)
	}

	if c.App.Env == "production" {
		if c.Storefront.StoreURL == "" || c.Storefront.PrivateKey == "" || c.Storefront.Token == "" {
			return fmt.Errorf("storefront credentials are required in production")
		}
		if c.ERP.AccountID == "" && c.ERP.BaseURL == "" {
			return fmt.Errorf("erp.account_id or erp.base_url is required in production")
		}
		if c.ERP.ConsumerKey == "" || c.ERP.ConsumerSecret == "" ||
			c.ERP.TokenID == "" || c.ERP.TokenSecret == "" {
			return fmt.Errorf("erp credentials are required in production")
		}
		if c.Webhook.SecretKey == "" {
			return fmt.Errorf("webhook.secret_key is required in production")
		}
		if c.Notifications.Enabled && c.Notifications.APIKey == "" {
			return fmt.Errorf("notifications.api_key is required when notifications are enabled in production")
		}
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Session store backends
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds the application configuration
type Config struct {
	Port     string        `yaml:"port"`
	BaseURL  string        `yaml:"baseUrl"`
	LogLevel string        `yaml:"logLevel"`
	Static   string        `yaml:"staticDir"`
	Shopify  ShopifyConfig `yaml:"shopify"`
	Storage  StorageConfig `yaml:"storage"`
	RedisURL string        `yaml:"redisUrl"`
}

// ShopifyConfig holds the Shopify app credentials and routes
type ShopifyConfig struct {
	ClientID     string        `yaml:"clientId"`
	ClientSecret string        `yaml:"clientSecret"`
	APIVersion   string        `yaml:"apiVersion"`
	Embedded     bool          `yaml:"embedded"`
	Auth         AuthConfig    `yaml:"auth"`
	Webhook      WebhookConfig `yaml:"webhook"`
}

// AuthConfig holds the OAuth route paths
type AuthConfig struct {
	Path       string `yaml:"path"`
	Callback   string `yaml:"callback"`
	ExitIframe string `yaml:"exitIframe"`
}

// WebhookConfig holds the webhook route prefix
type WebhookConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig selects and configures the session store backend
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	DatabaseURL   string `yaml:"databaseUrl"`
	MongoURI      string `yaml:"mongoUri"`
	MongoDatabase string `yaml:"mongoDatabase"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Port:     "8080",
		BaseURL:  "http://localhost:8080",
		LogLevel: "info",
		Static:   "./wwwroot",
		Shopify: ShopifyConfig{
			APIVersion: "2024-01",
			Embedded:   true,
			Auth: AuthConfig{
				Path:       "/api/auth",
				Callback:   "/api/auth/callback",
				ExitIframe: "/ExitIframe",
			},
			Webhook: WebhookConfig{Path: "/api/webhooks"},
		},
		Storage: StorageConfig{
			Driver:        StoreSQLite,
			DatabaseURL:   "app.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "shopify_app",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Port)
	str("BASE_URL", &c.BaseURL)
	str("LOG_LEVEL", &c.LogLevel)
	str("STATIC_DIR", &c.Static)
	str("REDIS_URL", &c.RedisURL)

	str("SHOPIFY_CLIENT_ID", &c.Shopify.ClientID)
	str("SHOPIFY_CLIENT_SECRET", &c.Shopify.ClientSecret)
	str("SHOPIFY_API_VERSION", &c.Shopify.APIVersion)
	str("SHOPIFY_AUTH_PATH", &c.Shopify.Auth.Path)
	str("SHOPIFY_AUTH_CALLBACK", &c.Shopify.Auth.Callback)
	str("SHOPIFY_EXIT_IFRAME", &c.Shopify.Auth.ExitIframe)
	str("SHOPIFY_WEBHOOK_PATH", &c.Shopify.Webhook.Path)

	if v, ok := lookup("SHOPIFY_EMBEDDED"); ok && v != "" {
		embedded, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SHOPIFY_EMBEDDED: %w", err)
		}
		c.Shopify.Embedded = embedded
	}

	str("SESSION_STORE", &c.Storage.Driver)
	str("DATABASE_URL", &c.Storage.DatabaseURL)
	str("MONGODB_URI", &c.Storage.MongoURI)
	str("MONGODB_DATABASE", &c.Storage.MongoDatabase)
	return nil
}

// Validate checks the settings the app cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.Shopify.ClientID == "" {
		errs = append(errs, errors.New("SHOPIFY_CLIENT_ID is required"))
	}
	if c.Shopify.ClientSecret == "" {
		errs = append(errs, errors.New("SHOPIFY_CLIENT_SECRET is required"))
	}
	if c.BaseURL == "" {
		errs = append(errs, errors.New("BASE_URL is required"))
	}
	switch c.Storage.Driver {
	case StoreSQLite, StorePostgres, StoreMongo:
	default:
		errs = append(errs, fmt.Errorf("unsupported SESSION_STORE %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}

// CallbackURL is the absolute OAuth redirect URI registered with Shopify
func (c *Config) CallbackURL() string {
	return c.BaseURL + c.Shopify.Auth.Callback
}

// WebhookURL is the absolute address for a webhook route suffix such as "/uninstalled"
func (c *Config) WebhookURL(suffix string) string {
	return c.BaseURL + c.Shopify.Webhook.Path + suffix
}

// FileFromEnv returns the YAML config path named by CONFIG_FILE, if any
func FileFromEnv() string {
	return os.Getenv("CONFIG_FILE")
}

package wishwall

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for a wishwall deployment.
type Config struct {
	SiteName string // Site name shown in page titles (default "Wishwall")
	BaseURL  string // Canonical URL used for share links (default "http://localhost:3000")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/wishwall.db")
	StaticDir    string // Directory for static assets and uploaded blobs (default "public")

	SessionSecret string // Required: cookie session encryption secret
	CookieSecure  bool   // Set true for HTTPS deployments

	LogMode string // "dev" or "prod" (default "dev")
}

func (c *Config) setDefaults() {
	if c.SiteName == "" {
		c.SiteName = "Wishwall"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/wishwall.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.LogMode == "" {
		c.LogMode = "dev"
	}
}

// LoadConfig builds a Config from an optional config.yaml in configDir (or
// the working directory when empty) with WISHWALL_* environment overrides.
// A missing config file is not an error.
func LoadConfig(configDir string) (Config, error) {
	v := viper.New()
	v.SetDefault("site_name", "Wishwall")
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("addr", ":3000")
	v.SetDefault("database_path", "data/wishwall.db")
	v.SetDefault("static_dir", "public")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("log_mode", "dev")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("WISHWALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	return Config{
		SiteName:      v.GetString("site_name"),
		BaseURL:       strings.TrimSuffix(v.GetString("base_url"), "/"),
		Addr:          v.GetString("addr"),
		DatabasePath:  v.GetString("database_path"),
		StaticDir:     v.GetString("static_dir"),
		SessionSecret: v.GetString("session_secret"),
		CookieSecure:  v.GetBool("cookie_secure"),
		LogMode:       v.GetString("log_mode"),
	}, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes, before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// Package config loads the server's configuration from defaults, an
// optional TOML file, and FOLIO_-prefixed environment variables, in
// increasing order of precedence.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is everything the server needs to start.
type Config struct {
	ListenAddr   string `mapstructure:"listen_addr"`   // address the HTTP server binds
	DatabasePath string `mapstructure:"database_path"` // SQLite file holding scraper run status
	SiteName     string `mapstructure:"site_name"`     // rendered in the page chrome
	BaseURL      string `mapstructure:"base_url"`      // absolute URL the site is served under
	PrettyHTML   bool   `mapstructure:"pretty_html"`   // reindent rendered documents
	OTelEndpoint string `mapstructure:"otel_endpoint"` // OTLP trace endpoint; empty disables tracing
}

// Load reads configuration, optionally from the file at path. An empty
// path means defaults plus environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8065")
	v.SetDefault("database_path", "folio.db")
	v.SetDefault("site_name", "The Open State Project")
	v.SetDefault("base_url", "http://localhost:8065")
	v.SetDefault("pretty_html", false)
	v.SetDefault("otel_endpoint", "")

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config to struct: %w", err)
	}
	return cfg, nil
}

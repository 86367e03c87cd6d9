package config

import (
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Datagov    DatagovConfig    `yaml:"datagov" mapstructure:"datagov"`
	Geocode    GeocodeConfig    `yaml:"geocode" mapstructure:"geocode"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Directions DirectionsConfig `yaml:"directions" mapstructure:"directions"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DatagovConfig holds the data.gov.in price resource settings.
type DatagovConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DefaultLimit int    `yaml:"default_limit" mapstructure:"default_limit"`
}

// Timeout returns the upstream request timeout.
func (c DatagovConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GeocodeConfig configures Nominatim, the optional Google fallback, and
// lookup pacing.
type GeocodeConfig struct {
	NominatimURL     string `yaml:"nominatim_url" mapstructure:"nominatim_url"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	Country          string `yaml:"country" mapstructure:"country"`
	IntervalMS       int    `yaml:"interval_ms" mapstructure:"interval_ms"`
	MaxLookups       int    `yaml:"max_lookups" mapstructure:"max_lookups"`
	GoogleAPIKey     string `yaml:"google_api_key" mapstructure:"google_api_key"`
	BreakerThreshold int    `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
}

// Interval returns the minimum spacing between geocoder calls.
func (c GeocodeConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// SearchConfig tunes nearest-market ranking and the browse view.
type SearchConfig struct {
	MaxDistanceKm float64 `yaml:"max_distance_km" mapstructure:"max_distance_km"`
	Limit         int     `yaml:"limit" mapstructure:"limit"`
	MaxCandidates int     `yaml:"max_candidates" mapstructure:"max_candidates"`
	BrowseLimit   int     `yaml:"browse_limit" mapstructure:"browse_limit"`
}

// DirectionsConfig holds the maps link base URL.
type DirectionsConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MANDI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("datagov.base_url", "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070")
	v.SetDefault("datagov.api_key", "579b464db66ec23bdd0000019690f051ed194cd97481b30e543cb306")
	v.SetDefault("datagov.timeout_secs", 30)
	v.SetDefault("datagov.default_limit", 1000)
	v.SetDefault("geocode.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "mandi-cli/1.0")
	v.SetDefault("geocode.country", "India")
	v.SetDefault("geocode.interval_ms", 1000)
	v.SetDefault("geocode.max_lookups", 50)
	v.SetDefault("geocode.google_api_key", "")
	v.SetDefault("geocode.breaker_threshold", 5)
	v.SetDefault("search.max_distance_km", 200.0)
	v.SetDefault("search.limit", 10)
	v.SetDefault("search.max_candidates", 50)
	v.SetDefault("search.browse_limit", 100)
	v.SetDefault("directions.base_url", "https://www.google.com/maps")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is the command name;
// unknown modes only get the common checks.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Datagov.BaseURL == "" {
		errs = append(errs, "datagov.base_url is required")
	}
	if c.Datagov.APIKey == "" {
		errs = append(errs, "datagov.api_key is required")
	}
	if c.Datagov.TimeoutSecs <= 0 {
		errs = append(errs, "datagov.timeout_secs must be positive")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
		errs = append(errs, c.validateSearch()...)
	case "nearest":
		errs = append(errs, c.validateSearch()...)
	}

	if len(errs) > 0 {
		return eris.Wrap(errors.New(strings.Join(errs, "; ")), "config: validate "+mode)
	}
	return nil
}

func (c *Config) validateSearch() []string {
	var errs []string
	if c.Geocode.NominatimURL == "" {
		errs = append(errs, "geocode.nominatim_url is required")
	}
	if c.Geocode.UserAgent == "" {
		errs = append(errs, "geocode.user_agent is required")
	}
	if c.Geocode.IntervalMS < 0 {
		errs = append(errs, "geocode.interval_ms must not be negative")
	}
	if c.Search.MaxDistanceKm <= 0 {
		errs = append(errs, "search.max_distance_km must be positive")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

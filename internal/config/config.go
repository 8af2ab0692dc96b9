// Package config loads service configuration from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "CRISIS"

// Config holds service configuration.
type Config struct {
	Port               int           `mapstructure:"port"`
	DatabaseURL        string        `mapstructure:"database_url"`
	CatalogFile        string        `mapstructure:"catalog_file"`
	MaxTextLength      int           `mapstructure:"max_text_length"`
	EventBuffer        int           `mapstructure:"event_buffer"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFormat          string        `mapstructure:"log_format"`
	SessionMaxAge      time.Duration `mapstructure:"session_max_age"`
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
	ConversationWindow int           `mapstructure:"conversation_window"`
	// AllowedOrigins are extra Origin host patterns the stream endpoint
	// accepts. Empty means same-origin only.
	AllowedOrigins     []string      `mapstructure:"allowed_origins"`
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("catalog_file", "")
	v.SetDefault("max_text_length", 64<<10)
	v.SetDefault("event_buffer", 256)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("session_max_age", time.Hour)
	v.SetDefault("session_idle_timeout", 15*time.Minute)
	v.SetDefault("conversation_window", 20)
	v.SetDefault("allowed_origins", []string{})
}

// Load reads configuration. file may be empty; otherwise it must exist.
// CRISIS_-prefixed variables override the file, and the bare PORT,
// DATABASE_URL, LOG_LEVEL and LOG_FORMAT variables are honored as well.
func Load(file string) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, bare := range map[string]string{
		"port":         "PORT",
		"database_url": "DATABASE_URL",
		"log_level":    "LOG_LEVEL",
		"log_format":   "LOG_FORMAT",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+bare, bare); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxTextLength < 0 {
		errs = append(errs, fmt.Errorf("max_text_length must not be negative"))
	}
	if c.EventBuffer < 1 {
		errs = append(errs, fmt.Errorf("event_buffer must be positive"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.SessionMaxAge <= 0 || c.SessionIdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("session timeouts must be positive"))
	}
	if c.ConversationWindow < 1 {
		errs = append(errs, fmt.Errorf("conversation_window must be positive"))
	}
	for _, o := range c.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, fmt.Errorf("allowed_origins must not contain empty patterns"))
			break
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// NewLogger builds the process logger described by c, writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Package config loads the amiigo settings from a .env file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSecretKey = "a_very_secret_key_that_should_be_changed_and_kept_safe"

var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Config holds the application settings. Keys match the environment variable names.
type Config struct {
	AppName string `mapstructure:"app_name"`
	Debug   bool   `mapstructure:"debug"`
	APIV1   string `mapstructure:"api_v1_str"`

	ServerHost string `mapstructure:"server_host"`
	ServerPort int    `mapstructure:"server_port"`

	PostgresServer   string `mapstructure:"postgres_server"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDB       string `mapstructure:"postgres_db"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode"`
	DatabaseURL      string `mapstructure:"database_url"`

	SecretKey                string `mapstructure:"secret_key"`
	Algorithm                string `mapstructure:"algorithm"`
	AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`

	BackendCORSOrigins string `mapstructure:"backend_cors_origins"`

	RedisURI string `mapstructure:"redis_uri"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads envFile (if it exists) into the process environment and builds
// a Config from defaults overridden by environment variables.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Amiigo API")
	v.SetDefault("debug", false)
	v.SetDefault("api_v1_str", "/api/v1")
	v.SetDefault("server_host", "127.0.0.1")
	v.SetDefault("server_port", 8000)
	v.SetDefault("postgres_server", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "amiigo_user")
	v.SetDefault("postgres_password", "amiigo_password")
	v.SetDefault("postgres_db", "amiigo_db")
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("database_url", "")
	v.SetDefault("secret_key", defaultSecretKey)
	v.SetDefault("algorithm", "HS256")
	v.SetDefault("access_token_expire_minutes", 60*24*7)
	v.SetDefault("backend_cors_origins", `["*"]`)
	v.SetDefault("redis_uri", "")
	v.SetDefault("log_level", "info")
}

// Validate checks the settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("config: SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.PostgresPort <= 0 || c.PostgresPort > 65535 {
		return fmt.Errorf("config: POSTGRES_PORT must be between 1 and 65535, got %d", c.PostgresPort)
	}
	if c.SecretKey == "" {
		return errors.New("config: SECRET_KEY is required")
	}
	if !supportedAlgorithms[c.Algorithm] {
		return fmt.Errorf("config: unsupported ALGORITHM %q", c.Algorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.AccessTokenExpireMinutes)
	}
	if !strings.HasPrefix(c.APIV1, "/") {
		return fmt.Errorf("config: API_V1_STR must start with '/', got %q", c.APIV1)
	}
	if _, err := c.CORSOrigins(); err != nil {
		return err
	}
	return nil
}

// UsesDefaultSecret reports whether SECRET_KEY was left at its development value.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == defaultSecretKey
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

// AccessTokenTTL is the lifetime of issued access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// DatabaseDSN returns DATABASE_URL when set, otherwise a postgres URL assembled
// from the POSTGRES_* settings.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresServer, strconv.Itoa(c.PostgresPort)),
		Path:     "/" + c.PostgresDB,
		RawQuery: url.Values{"sslmode": []string{c.PostgresSSLMode}}.Encode(),
	}
	return u.String()
}

// SafeDSN is DatabaseDSN with the password masked.
func (c *Config) SafeDSN() string {
	dsn := c.DatabaseDSN()
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// CORSOrigins parses BACKEND_CORS_ORIGINS, which is either a JSON array or a
// comma separated list.
func (c *Config) CORSOrigins() ([]string, error) {
	raw := strings.TrimSpace(c.BackendCORSOrigins)
	if raw == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(raw, "[") {
		var origins []string
		if err := json.Unmarshal([]byte(raw), &origins); err != nil {
			return nil, fmt.Errorf("config: BACKEND_CORS_ORIGINS is not a valid JSON array: %w", err)
		}
		return origins, nil
	}

	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvFile is loaded before reading the environment when present
const DefaultEnvFile = "configs/.env"

type Config struct {
	Server   ServerConfig   `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Log      LogConfig      `mapstructure:",squash"`
}

type ServerConfig struct {
	Port               string `mapstructure:"port"`
	GinMode            string `mapstructure:"gin_mode"`
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	Version            string `mapstructure:"app_version"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"db_driver"`
	Host     string `mapstructure:"db_host"`
	Port     string `mapstructure:"db_port"`
	User     string `mapstructure:"db_user"`
	Password string `mapstructure:"db_password"`
	Name     string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"db_sslmode"`
	RawDSN   string `mapstructure:"db_dsn"`
	LogLevel string `mapstructure:"db_log_level"`
}

type LogConfig struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"`
}

var defaults = map[string]string{
	"port":                 "8080",
	"gin_mode":             "release",
	"cors_allowed_origins": "http://localhost:5173,http://127.0.0.1:5173",
	"app_version":          "1.0.0",
	"db_driver":            "postgres",
	"db_host":              "localhost",
	"db_port":              "",
	"db_user":              "postgres",
	"db_password":          "postgres",
	"db_name":              "postgres",
	"db_sslmode":           "disable",
	"db_dsn":               "",
	"db_log_level":         "warn",
	"log_level":            "info",
	"log_format":           "text",
}

// Load reads envFile (missing is fine) and then the process environment
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS, dropping blanks
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(s.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// DSN returns DB_DSN when set, otherwise one composed for the driver.
// For sqlite DB_NAME is the database file.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return d.RawDSN
	}

	switch d.Driver {
	case "mysql":
		port := d.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			d.User, d.Password, d.Host, port, d.Name)
	case "sqlite":
		return d.Name
	default:
		port := d.Port
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     d.Host + ":" + port,
			Path:     "/" + d.Name,
			RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
		}
		return u.String()
	}
}

// Package config provides centralized configuration management for the
// species finder. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	CITES    CITESConfig
	Database DatabaseConfig
	Search   SearchConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig locates the reference workbooks.
type DataConfig struct {
	// SchedulesFile holds the Schedule I-III sheets.
	SchedulesFile string `env:"WLPA_SCHEDULES_FILE" default:"WLPA.xlsx"`

	// ScheduleSheets lists the Schedule I-III sheet names in load order.
	ScheduleSheets []string `env:"WLPA_SCHEDULE_SHEETS" default:"Schedule-I,Schedule-II,Schedule-III"`

	// SpecimensFile holds the Schedule IV list.
	SpecimensFile string `env:"WLPA_SPECIMENS_FILE" default:"WLPA-SchIV.xlsx"`

	// SpecimensLayout is auto, flat or sheets (default: auto)
	SpecimensLayout string `env:"WLPA_SPECIMENS_LAYOUT" default:"auto"`

	// LoadTimeout bounds the startup load of all sources (default: 5m)
	LoadTimeout time.Duration `env:"WLPA_LOAD_TIMEOUT" default:"5m"`

	// S3 settings apply when either file is an s3://bucket/key location.
	// Credentials come from the standard AWS environment.
	S3Region    string `env:"WLPA_S3_REGION" envAlt:"AWS_REGION" default:"us-east-1"`
	S3Endpoint  string `env:"WLPA_S3_ENDPOINT"`
	S3PathStyle bool   `env:"WLPA_S3_PATH_STYLE" default:"false"`
}

// CITESConfig holds Species+ API settings. The token is a secret and is
// only ever read from the environment.
type CITESConfig struct {
	// Enabled loads Schedule IV for unified search from Species+ (default: false)
	Enabled bool `env:"CITES_ENABLED" default:"false"`

	Token   string `env:"CITES_API_TOKEN" envAlt:"SPECIES_PLUS_TOKEN"`
	BaseURL string `env:"CITES_BASE_URL" default:"https://api.speciesplus.net/api/v1/taxon_concepts"`

	// PerPage is the page size requested per call (default: 500)
	PerPage int `env:"CITES_PER_PAGE" default:"500"`

	// MaxPages caps pages per appendix, 0 for no cap (default: 200)
	MaxPages int `env:"CITES_MAX_PAGES" default:"200"`

	// RequestTimeout applies to each page request (default: 30s)
	RequestTimeout time.Duration `env:"CITES_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds the optional read-only reference database.
// When URL is empty the Schedule I-III records come from SchedulesFile.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SearchConfig holds query behavior.
type SearchConfig struct {
	// EmptyQuery is "none" (prompt for input) or "all" (list everything) (default: none)
	EmptyQuery string `env:"SEARCH_EMPTY_QUERY" default:"none"`

	// MaxRows caps rows rendered in the HTML table, 0 for no cap (default: 1000)
	MaxRows int `env:"SEARCH_MAX_ROWS" default:"1000"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	// Enabled serves /metrics (default: true)
	Enabled bool   `env:"METRICS_ENABLED" default:"true"`
	Path    string `env:"METRICS_PATH" default:"/metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// UsesDatabase reports whether Schedule I-III come from the database.
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

// UsesObjectStore reports whether any workbook is read from S3.
func (c *Config) UsesObjectStore() bool {
	return isS3(c.Data.SchedulesFile) || isS3(c.Data.SpecimensFile)
}

func isS3(location string) bool {
	return strings.HasPrefix(strings.ToLower(location), "s3://")
}

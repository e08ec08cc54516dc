package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for environment variable overrides (PNL_SERVER_PORT, ...).
const envPrefix = "PNL"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Sheets   SheetsConfig   `yaml:"sheets" envconfig:"SHEETS"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// SheetsConfig locates the remote Google Sheet the PNL ledger is read from.
// CredentialsFile points at a service-account JSON key with the
// spreadsheets.readonly scope; APIKey is the key-only fallback for sheets
// shared publicly.
type SheetsConfig struct {
	SpreadsheetID   string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	SheetName       string        `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"Clients Daily PNL"`
	CredentialsFile string        `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	APIKey          string        `yaml:"api_key" envconfig:"API_KEY"`
	CacheTTL        time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"5m"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from the optional YAML file with environment
// variables taking precedence, then validates the result.
func Load() (*Config, error) {
	var cfg Config

	// Defaults and environment variables in one pass. envconfig writes
	// the default for any unset variable, so the file merge below must
	// come after and skip fields the environment set explicitly.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	paths, err := NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	setPaths(paths)

	return &cfg, nil
}

// Validate checks the configuration against its struct tags. Sheets
// credentials are validated by the sheets client, not here: the report
// tool can run entirely off a local workbook.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// mergeFileConfig applies values from the config file over the
// env-processed config. The environment wins for any variable that was
// set explicitly; otherwise a non-zero file value replaces the default.
func mergeFileConfig(cfg, file *Config) {
	envSet := func(key string) bool {
		_, ok := os.LookupEnv(envPrefix + "_" + key)
		return ok
	}
	mergeInt := func(dst *int, src int, key string) {
		if src != 0 && !envSet(key) {
			*dst = src
		}
	}
	mergeString := func(dst *string, src, key string) {
		if src != "" && !envSet(key) {
			*dst = src
		}
	}
	mergeDuration := func(dst *time.Duration, src time.Duration, key string) {
		if src != 0 && !envSet(key) {
			*dst = src
		}
	}
	mergeFloat := func(dst *float64, src float64, key string) {
		if src != 0 && !envSet(key) {
			*dst = src
		}
	}

	mergeInt(&cfg.Server.Port, file.Server.Port, "SERVER_PORT")
	mergeDuration(&cfg.Server.ReadTimeout, file.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	mergeDuration(&cfg.Server.WriteTimeout, file.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	mergeDuration(&cfg.Server.IdleTimeout, file.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	mergeInt(&cfg.Server.MaxHeaderBytes, file.Server.MaxHeaderBytes, "SERVER_MAX_HEADER_BYTES")
	mergeDuration(&cfg.Server.ShutdownTimeout, file.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	mergeDuration(&cfg.Server.RequestTimeout, file.Server.RequestTimeout, "SERVER_REQUEST_TIMEOUT")

	if len(file.Security.AllowedOrigins) > 0 && !envSet("SECURITY_ALLOWED_ORIGINS") {
		cfg.Security.AllowedOrigins = file.Security.AllowedOrigins
	}
	mergeFloat(&cfg.Security.RateLimit.RPS, file.Security.RateLimit.RPS, "SECURITY_RATE_LIMIT_RPS")
	mergeInt(&cfg.Security.RateLimit.Burst, file.Security.RateLimit.Burst, "SECURITY_RATE_LIMIT_BURST")

	mergeString(&cfg.Logging.Level, file.Logging.Level, "LOGGING_LEVEL")
	mergeString(&cfg.Logging.Output, file.Logging.Output, "LOGGING_OUTPUT")
	mergeString(&cfg.Logging.FilePath, file.Logging.FilePath, "LOGGING_FILE_PATH")

	mergeString(&cfg.Sheets.SpreadsheetID, file.Sheets.SpreadsheetID, "SHEETS_SPREADSHEET_ID")
	mergeString(&cfg.Sheets.SheetName, file.Sheets.SheetName, "SHEETS_SHEET_NAME")
	mergeString(&cfg.Sheets.CredentialsFile, file.Sheets.CredentialsFile, "SHEETS_CREDENTIALS_FILE")
	mergeString(&cfg.Sheets.APIKey, file.Sheets.APIKey, "SHEETS_API_KEY")
	mergeDuration(&cfg.Sheets.CacheTTL, file.Sheets.CacheTTL, "SHEETS_CACHE_TTL")

	mergeString(&cfg.Paths.DataDir, file.Paths.DataDir, "PATHS_DATA_DIR")
	mergeString(&cfg.Paths.ReportsDir, file.Paths.ReportsDir, "PATHS_REPORTS_DIR")
	mergeString(&cfg.Paths.LogsDir, file.Paths.LogsDir, "PATHS_LOGS_DIR")
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configFilePath returns the config file location, overridable via
// PNL_CONFIG_FILE.
func configFilePath() string {
	if path := os.Getenv(envPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults reproduce the constants the ETL job has always run with.
const (
	DefaultSourceURL      = "https://web.archive.org/web/20230908091635%20/https://en.wikipedia.org/wiki/List_of_largest_banks"
	DefaultRatesPath      = "exchange_rate.csv"
	DefaultOutputCSVPath  = "banks.csv"
	DefaultDBDriver       = DriverSQLite
	DefaultDBDSN          = "Largest_banks"
	DefaultTableName      = "Largest_banks"
	DefaultLogPath        = "./console_log.txt"
	DefaultLogLevel       = "info"
	DefaultFetchRateLimit = 1.0
)

// Supported relational store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all configuration for the ETL run.
type Config struct {
	// Source page and side files
	SourceURL     string `mapstructure:"source_url"`
	RatesPath     string `mapstructure:"rates_path"`
	OutputCSVPath string `mapstructure:"output_csv_path"`

	// Relational store
	DBDriver  string `mapstructure:"db_driver"`
	DBDSN     string `mapstructure:"db_dsn"`
	TableName string `mapstructure:"table_name"`

	// Progress log file and diagnostic log level
	LogPath  string `mapstructure:"log_path"`
	LogLevel string `mapstructure:"log_level"`

	// Fetch behaviour; zero values mean no retry and no timeout
	FetchRetries   int           `mapstructure:"fetch_retries"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	FetchRateLimit float64       `mapstructure:"fetch_rate_limit"`
}

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over config file values.
//
// Recognised environment variables:
//   - BANKS_SOURCE_URL
//   - BANKS_RATES_PATH
//   - BANKS_OUTPUT_CSV_PATH
//   - BANKS_DB_DRIVER (sqlite or postgres)
//   - BANKS_DB_DSN
//   - BANKS_TABLE_NAME
//   - BANKS_LOG_PATH
//   - BANKS_LOG_LEVEL
//   - BANKS_FETCH_RETRIES
//   - BANKS_FETCH_TIMEOUT (Go duration, e.g. 30s)
//   - BANKS_FETCH_RATE_LIMIT (requests per second)
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.largestbanks")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	return unmarshal(v)
}

// LoadFile behaves like Load but reads the given config file, which must exist.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("source_url", DefaultSourceURL)
	v.SetDefault("rates_path", DefaultRatesPath)
	v.SetDefault("output_csv_path", DefaultOutputCSVPath)
	v.SetDefault("db_driver", DefaultDBDriver)
	v.SetDefault("db_dsn", DefaultDBDSN)
	v.SetDefault("table_name", DefaultTableName)
	v.SetDefault("log_path", DefaultLogPath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("fetch_retries", 0)
	v.SetDefault("fetch_timeout", time.Duration(0))
	v.SetDefault("fetch_rate_limit", DefaultFetchRateLimit)

	for _, key := range v.AllKeys() {
		v.BindEnv(key, "BANKS_"+strings.ToUpper(key))
	}

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that every required field is set and every value is usable.
func (c *Config) Validate() error {
	var missing []string
	if c.SourceURL == "" {
		missing = append(missing, "BANKS_SOURCE_URL")
	}
	if c.RatesPath == "" {
		missing = append(missing, "BANKS_RATES_PATH")
	}
	if c.OutputCSVPath == "" {
		missing = append(missing, "BANKS_OUTPUT_CSV_PATH")
	}
	if c.DBDSN == "" {
		missing = append(missing, "BANKS_DB_DSN")
	}
	if c.TableName == "" {
		missing = append(missing, "BANKS_TABLE_NAME")
	}
	if c.LogPath == "" {
		missing = append(missing, "BANKS_LOG_PATH")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	var invalid []string
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		invalid = append(invalid, fmt.Sprintf("db_driver %q (want %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres))
	}
	if !identifierPattern.MatchString(c.TableName) {
		invalid = append(invalid, fmt.Sprintf("table_name %q", c.TableName))
	}
	if c.FetchRetries < 0 {
		invalid = append(invalid, fmt.Sprintf("fetch_retries %d", c.FetchRetries))
	}
	if c.FetchTimeout < 0 {
		invalid = append(invalid, fmt.Sprintf("fetch_timeout %s", c.FetchTimeout))
	}
	if c.FetchRateLimit < 0 {
		invalid = append(invalid, fmt.Sprintf("fetch_rate_limit %g", c.FetchRateLimit))
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}

	return nil
}

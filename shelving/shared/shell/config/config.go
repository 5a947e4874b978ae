package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"

	DriverPGXPool = "pgxpool"
	DriverSQLDB   = "sqldb"
	DriverSQLX    = "sqlx"
)

var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrUnknownConfigKeys = errors.New("unknown config keys")
)

type Config struct {
	Storage       StorageConfig       `toml:"storage"`
	Cascade       CascadeConfig       `toml:"cascade"`
	Retry         RetryConfig         `toml:"retry"`
	Reconcile     ReconcileConfig     `toml:"reconcile"`
	Log           LogConfig           `toml:"log"`
	Observability ObservabilityConfig `toml:"observability"`
}

type StorageConfig struct {
	Engine       string `toml:"engine"`
	SQLitePath   string `toml:"sqlite_path"`
	Driver       string `toml:"driver"`
	DSN          string `toml:"dsn"`
	ReplicaDSN   string `toml:"replica_dsn"`
	Table        string `toml:"table"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

type CascadeConfig struct {
	Policy string `toml:"policy"`
}

type RetryConfig struct {
	MaxAttempts  int      `toml:"max_attempts"`
	BaseDelay    Duration `toml:"base_delay"`
	JitterFactor float64  `toml:"jitter_factor"`
}

type ReconcileConfig struct {
	Interval   Duration `toml:"interval"`
	StaleAfter Duration `toml:"stale_after"`
}

type LogConfig struct {
	Level        string `toml:"level"`
	ReportCaller bool   `toml:"report_caller"`
}

type ObservabilityConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
}

// Duration reads values like "10ms" or "1m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = parsed

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration of the embedded example file.
func DefaultConfig() Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}

	return config
}

// LoadConfig reads the file at path over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes data over the defaults. Keys the config does not know are an error.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	meta, err := toml.Decode(string(data), &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}

		return Config{}, fmt.Errorf("%w: %s", ErrUnknownConfigKeys, strings.Join(keys, ", "))
	}

	if err = config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// CreateConfigFile writes the example config to path. An existing file is left alone.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Engine {
	case EngineMemory:
	case EngineSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path must not be empty"))
		}
	case EnginePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn must not be empty"))
		}

		switch c.Storage.Driver {
		case DriverPGXPool, DriverSQLDB, DriverSQLX:
		default:
			errs = append(errs, fmt.Errorf("storage.driver %q is not one of pgxpool, sqldb, sqlx", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.engine %q is not one of memory, sqlite, postgres", c.Storage.Engine))
	}

	if c.Storage.Table == "" {
		errs = append(errs, errors.New("storage.table must not be empty"))
	}

	if _, err := shelf.ParseCascadePolicy(c.Cascade.Policy); err != nil {
		errs = append(errs, err)
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry.max_attempts must be at least 1"))
	}

	if c.Retry.BaseDelay.Duration < 0 {
		errs = append(errs, errors.New("retry.base_delay must not be negative"))
	}

	if c.Retry.JitterFactor < 0 || c.Retry.JitterFactor > 1 {
		errs = append(errs, errors.New("retry.jitter_factor must be between 0 and 1"))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if c.Reconcile.Interval.Duration <= 0 {
		errs = append(errs, errors.New("reconcile.interval must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

// CascadePolicy returns the validated cascade policy.
func (c Config) CascadePolicy() shelf.CascadePolicy {
	policy, _ := shelf.ParseCascadePolicy(c.Cascade.Policy)

	return policy
}

func (c Config) RetryOptions() []shell.RetryOption {
	return []shell.RetryOption{
		shell.WithMaxAttempts(c.Retry.MaxAttempts),
		shell.WithBaseDelay(c.Retry.BaseDelay.Duration),
		shell.WithJitterFactor(c.Retry.JitterFactor),
	}
}

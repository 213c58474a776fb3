package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/medvision/pkg/database"
	"github.com/JaimeStill/medvision/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMedvisionEnv             = "MEDVISION_ENV"
	EnvMedvisionShutdownTimeout = "MEDVISION_SHUTDOWN_TIMEOUT"
	EnvMedvisionVersion         = "MEDVISION_VERSION"
)

// DatabaseEnv names the MEDVISION_DB_* variables shared by the server and cmd/migrate.
var DatabaseEnv = &database.Env{
	Host:            "MEDVISION_DB_HOST",
	Port:            "MEDVISION_DB_PORT",
	Name:            "MEDVISION_DB_NAME",
	User:            "MEDVISION_DB_USER",
	Password:        "MEDVISION_DB_PASSWORD",
	SSLMode:         "MEDVISION_DB_SSL_MODE",
	MaxOpenConns:    "MEDVISION_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MEDVISION_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MEDVISION_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MEDVISION_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "MEDVISION_STORAGE_PROVIDER",
	ContainerName:    "MEDVISION_STORAGE_CONTAINER_NAME",
	ConnectionString: "MEDVISION_STORAGE_CONNECTION_STRING",
	Endpoint:         "MEDVISION_STORAGE_ENDPOINT",
	AccessKey:        "MEDVISION_STORAGE_ACCESS_KEY",
	SecretKey:        "MEDVISION_STORAGE_SECRET_KEY",
	UseSSL:           "MEDVISION_STORAGE_USE_SSL",
	Region:           "MEDVISION_STORAGE_REGION",
}

// Config is the root configuration for the MedVision service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Analysis        AnalysisConfig  `toml:"analysis"`
	Overlays        OverlaysConfig  `toml:"overlays"`
	Sessions        SessionsConfig  `toml:"sessions"`
	Reports         ReportsConfig   `toml:"reports"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the MEDVISION_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMedvisionEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Analysis.Merge(&overlay.Analysis)
	c.Overlays.Merge(&overlay.Overlays)
	c.Sessions.Merge(&overlay.Sessions)
	c.Reports.Merge(&overlay.Reports)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(DatabaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Overlays.Finalize(); err != nil {
		return fmt.Errorf("overlays: %w", err)
	}
	if err := c.Sessions.Finalize(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.Reports.Finalize(); err != nil {
		return fmt.Errorf("reports: %w", err)
	}
	return nil
}
func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMedvisionShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMedvisionVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMedvisionEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

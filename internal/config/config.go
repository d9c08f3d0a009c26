package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Service  ServiceConfig  `mapstructure:"service"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// ServiceConfig holds process service configuration
type ServiceConfig struct {
	DefaultPageSize int  `mapstructure:"default_page_size"`
	MaxPageSize     int  `mapstructure:"max_page_size"`
	AsyncEvents     bool `mapstructure:"async_events"`
}

// Load loads configuration from file and environment variables. A .env file
// in the working directory is applied to the environment first, if present.
func Load(configPath string) (*Config, error) {
	_ = gotenv.Load()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Database defaults
	viper.SetDefault("database.path", "data/processes.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")

	// Service defaults
	viper.SetDefault("service.default_page_size", 20)
	viper.SetDefault("service.max_page_size", 100)
	viper.SetDefault("service.async_events", false)
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.output_path", "LOG_OUTPUT_PATH")
	viper.BindEnv("logger.format", "LOG_FORMAT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	if c.Service.DefaultPageSize <= 0 {
		return fmt.Errorf("service.default_page_size must be positive")
	}
	if c.Service.MaxPageSize < c.Service.DefaultPageSize {
		return fmt.Errorf("service.max_page_size must be at least service.default_page_size")
	}

	return nil
}

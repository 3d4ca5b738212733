package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rentvault-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Engine    EngineConfig    `yaml:"engine"`
	APIKeys   []APIKeyConfig  `yaml:"api_keys"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects the storage backend. Driver "memory" keeps all
// state in process; "postgres" persists to PostgreSQL.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "memory" or "postgres"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// EngineConfig holds the initial governance parameters. After startup
// they are mutated only through the admin endpoints.
type EngineConfig struct {
	PlatformFeeRateBps int32  `yaml:"platform_fee_rate_bps"`
	InsuranceRateBps   int32  `yaml:"insurance_rate_bps"`
	TreasuryAccount    string `yaml:"treasury_account"`
}

// APIKeyConfig authorizes a machine caller (relayer sweep, insurer
// service) by bcrypt hash of its key.
type APIKeyConfig struct {
	Account string   `yaml:"account"`
	Roles   []string `yaml:"roles"` // "admin", "insurer", "relayer"
	KeyHash string   `yaml:"key_hash"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ActivateDueBookings     string `yaml:"activate_due_bookings"`
	CompleteElapsedBookings string `yaml:"complete_elapsed_bookings"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_DRIVER"); val != "" {
		c.Database.Driver = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("TREASURY_ACCOUNT"); val != "" {
		c.Engine.TreasuryAccount = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.Driver != "memory" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if c.Engine.PlatformFeeRateBps < 0 || c.Engine.PlatformFeeRateBps > domain.MaxPlatformFeeRateBps {
		return fmt.Errorf("platform fee rate out of range: %d", c.Engine.PlatformFeeRateBps)
	}
	if c.Engine.InsuranceRateBps < 0 || c.Engine.InsuranceRateBps > domain.MaxInsuranceRateBps {
		return fmt.Errorf("insurance rate out of range: %d", c.Engine.InsuranceRateBps)
	}
	if c.Engine.TreasuryAccount == "" {
		return fmt.Errorf("treasury account is required")
	}

	for i, key := range c.APIKeys {
		if key.Account == "" || key.KeyHash == "" {
			return fmt.Errorf("api key %d: account and key_hash are required", i)
		}
	}

	// Scheduler defaults
	if c.Scheduler.ActivateDueBookings == "" {
		c.Scheduler.ActivateDueBookings = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.CompleteElapsedBookings == "" {
		c.Scheduler.CompleteElapsedBookings = "0 */5 * * * *" // every 5 minutes
	}

	return nil
}

// InitialParams returns the governance record seeded from config.
func (c *Config) InitialParams() domain.Params {
	return domain.Params{
		PlatformFeeRateBps: c.Engine.PlatformFeeRateBps,
		InsuranceRateBps:   c.Engine.InsuranceRateBps,
		TreasuryAccount:    c.Engine.TreasuryAccount,
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

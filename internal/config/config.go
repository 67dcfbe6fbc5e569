package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete service configuration
type Config struct {
	App      AppConfig      `toml:"app"`
	Database DatabaseConfig `toml:"database"`
	JWT      JWTConfig      `toml:"jwt"`
	Secrets  SecretsConfig  `toml:"secrets"`
	Redis    RedisConfig    `toml:"redis"`
	Admin    AdminConfig    `toml:"admin"`
	Jobs     JobsConfig     `toml:"jobs"`
}

// AppConfig contains process level settings
type AppConfig struct {
	Name     string `toml:"name"`
	Env      string `toml:"env"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	Stage    string `toml:"stage"`
}

// DatabaseConfig holds the two role connection strings
type DatabaseConfig struct {
	AppConnectionString       string `toml:"app_connection_string"`
	MigrationConnectionString string `toml:"migration_connection_string"`
	AppRoleName               string `toml:"app_role_name"`
	MigrationRoleName         string `toml:"migration_role_name"`
	MaxConns                  int32  `toml:"max_conns"`
}

// JWTConfig contains token issuance and verification settings
type JWTConfig struct {
	Issuer           string `toml:"issuer"`
	Audience         string `toml:"audience"`
	PublicKeyPrefix  string `toml:"public_key_prefix"`
	PrivateKeyPrefix string `toml:"private_key_prefix"`
	PublicKeyName    string `toml:"public_key_name"`
	PrivateKeyName   string `toml:"private_key_name"`
	JWKSURL          string `toml:"jwks_url"`
}

// SecretsConfig selects and configures the secret backend
type SecretsConfig struct {
	Backend      string `toml:"backend"`
	AWSRegion    string `toml:"aws_region"`
	APIKeyPrefix string `toml:"api_key_prefix"`
	APIKeyName   string `toml:"api_key_name"`
}

// RedisConfig is optional; an empty address disables redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// AdminConfig contains admin surface limits
type AdminConfig struct {
	RateLimit  int           `toml:"rate_limit"`
	RateWindow time.Duration `toml:"rate_window"`
}

// JobsConfig toggles background jobs
type JobsConfig struct {
	Enabled              bool          `toml:"enabled"`
	OverdueSweepInterval time.Duration `toml:"overdue_sweep_interval"`
	PoolStatsInterval    time.Duration `toml:"pool_stats_interval"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "crm-neon-v1",
			Env:      "development",
			Port:     8080,
			LogLevel: "info",
			Stage:    "dev",
		},
		Database: DatabaseConfig{
			AppRoleName:       "crm-app-user",
			MigrationRoleName: "crm-migration-user",
			MaxConns:          10,
		},
		JWT: JWTConfig{
			Issuer:           "crm-neon",
			Audience:         "crm-neon-api",
			PublicKeyPrefix:  "crm-jwt-public-key",
			PrivateKeyPrefix: "crm-jwt-private-key",
		},
		Secrets: SecretsConfig{
			Backend:      "ssm",
			AWSRegion:    "us-east-2",
			APIKeyPrefix: "crm-api-key",
		},
		Admin: AdminConfig{
			RateLimit:  60,
			RateWindow: time.Minute,
		},
		Jobs: JobsConfig{
			OverdueSweepInterval: time.Hour,
			PoolStatsInterval:    5 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file,
// an optional .env file and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CRM_CONFIG_FILE")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.App.Name = getEnv("APP_NAME", c.App.Name)
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.Port = getEnvAsInt("PORT", c.App.Port)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.Stage = getEnv("STAGE", c.App.Stage)

	c.Database.AppConnectionString = getEnv("APP_CONNECTION_STRING", c.Database.AppConnectionString)
	c.Database.MigrationConnectionString = getEnv("MIGRATION_CONNECTION_STRING", c.Database.MigrationConnectionString)
	c.Database.AppRoleName = getEnv("APP_ROLE_NAME", c.Database.AppRoleName)
	c.Database.MigrationRoleName = getEnv("MIGRATION_ROLE_NAME", c.Database.MigrationRoleName)
	c.Database.MaxConns = int32(getEnvAsInt("DB_MAX_CONNS", int(c.Database.MaxConns)))

	c.JWT.Issuer = getEnv("JWT_ISSUER", c.JWT.Issuer)
	c.JWT.Audience = getEnv("JWT_AUDIENCE", c.JWT.Audience)
	c.JWT.PublicKeyPrefix = getEnv("JWT_PUBLIC_KEY_PREFIX", c.JWT.PublicKeyPrefix)
	c.JWT.PrivateKeyPrefix = getEnv("JWT_PRIVATE_KEY_PREFIX", c.JWT.PrivateKeyPrefix)
	c.JWT.PublicKeyName = getEnv("JWT_PUBLIC_KEY_NAME", c.JWT.PublicKeyName)
	c.JWT.PrivateKeyName = getEnv("JWT_PRIVATE_KEY_NAME", c.JWT.PrivateKeyName)
	c.JWT.JWKSURL = getEnv("JWKS_URL", c.JWT.JWKSURL)

	c.Secrets.Backend = getEnv("SECRETS_BACKEND", c.Secrets.Backend)
	c.Secrets.AWSRegion = getEnv("AWS_REGION", c.Secrets.AWSRegion)
	c.Secrets.APIKeyPrefix = getEnv("API_KEY_PREFIX", c.Secrets.APIKeyPrefix)
	c.Secrets.APIKeyName = getEnv("API_KEY_NAME", c.Secrets.APIKeyName)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)

	c.Admin.RateLimit = getEnvAsInt("ADMIN_RATE_LIMIT", c.Admin.RateLimit)
	c.Admin.RateWindow = getEnvAsDuration("ADMIN_RATE_WINDOW", c.Admin.RateWindow)

	c.Jobs.Enabled = getEnvAsBool("JOBS_ENABLED", c.Jobs.Enabled)
	c.Jobs.OverdueSweepInterval = getEnvAsDuration("OVERDUE_SWEEP_INTERVAL", c.Jobs.OverdueSweepInterval)
	c.Jobs.PoolStatsInterval = getEnvAsDuration("POOL_STATS_INTERVAL", c.Jobs.PoolStatsInterval)
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.Database.AppConnectionString == "" {
		errs = append(errs, errors.New("APP_CONNECTION_STRING is required"))
	}
	if c.Database.MigrationConnectionString == "" {
		errs = append(errs, errors.New("MIGRATION_CONNECTION_STRING is required"))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.App.Port))
	}
	switch c.Secrets.Backend {
	case "ssm", "env":
	default:
		errs = append(errs, fmt.Errorf("unknown secrets backend %q", c.Secrets.Backend))
	}
	return errors.Join(errs...)
}

// StageSuffix is "-prod" for the prod stage and "-dev" for everything else
func StageSuffix(stage string) string {
	if stage == "prod" {
		return "-prod"
	}
	return "-dev"
}

// PublicKeyParameter returns the secret name of the JWT public key
func (c *Config) PublicKeyParameter() string {
	if c.JWT.PublicKeyName != "" {
		return c.JWT.PublicKeyName
	}
	return c.JWT.PublicKeyPrefix + StageSuffix(c.App.Stage)
}

// PrivateKeyParameter returns the secret name of the JWT private key
func (c *Config) PrivateKeyParameter() string {
	if c.JWT.PrivateKeyName != "" {
		return c.JWT.PrivateKeyName
	}
	return c.JWT.PrivateKeyPrefix + StageSuffix(c.App.Stage)
}

// APIKeyParameter returns the secret name of the admin API key
func (c *Config) APIKeyParameter() string {
	if c.Secrets.APIKeyName != "" {
		return c.Secrets.APIKeyName
	}
	return c.Secrets.APIKeyPrefix + StageSuffix(c.App.Stage)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

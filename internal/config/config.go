package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Redis struct {
		Addr      string `yaml:"addr" env:"REDIS_ADDR"`
		Password  string `yaml:"password" env:"REDIS_PASSWORD"`
		DB        int    `yaml:"db" env:"REDIS_DB"`
		KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX"`
	} `yaml:"redis"`

	// Remote controls how the Postgres-backed stores are treated.
	Remote struct {
		Timeout time.Duration `yaml:"timeout" env:"REMOTE_TIMEOUT"`
		// AllowDegradedStart lets the API boot on the local store alone when Postgres is down.
		AllowDegradedStart bool `yaml:"allow_degraded_start" env:"REMOTE_ALLOW_DEGRADED_START"`
	} `yaml:"remote"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Cohort CohortConfig `yaml:"cohort"`

	RateLimit struct {
		ApplyLimit  int           `yaml:"apply_limit" env:"RATE_LIMIT_APPLY"`
		ApplyWindow time.Duration `yaml:"apply_window" env:"RATE_LIMIT_APPLY_WINDOW"`
	} `yaml:"rate_limit"`
}

// CohortConfig is the fixed student population used as the analytics denominator.
type CohortConfig struct {
	TotalStudents int `yaml:"total_students" env:"COHORT_TOTAL_STUDENTS"`
	// Branches maps a branch code to its cohort size.
	Branches map[string]int `yaml:"branches" env:"COHORT_BRANCHES"`
	// Years maps a year of study to its cohort size.
	Years                  map[int]int `yaml:"years" env:"COHORT_YEARS"`
	AcademicYearStartMonth int         `yaml:"academic_year_start_month" env:"COHORT_ACADEMIC_YEAR_START_MONTH"`
	TrendMonths            int         `yaml:"trend_months" env:"COHORT_TREND_MONTHS"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "placement"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Redis.Addr = "localhost:6379"
	config.Redis.KeyPrefix = "placement"

	config.Remote.Timeout = 3 * time.Second
	config.Remote.AllowDegradedStart = true

	config.JWT.Issuer = "placement.portal"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Cohort.TotalStudents = 0
	config.Cohort.AcademicYearStartMonth = int(time.July)
	config.Cohort.TrendMonths = 7

	config.RateLimit.ApplyLimit = 10
	config.RateLimit.ApplyWindow = time.Minute
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime: %w", err)
	}

	if config.Remote.Timeout <= 0 {
		return fmt.Errorf("remote timeout must be positive")
	}

	if config.Cohort.TotalStudents < 0 {
		return fmt.Errorf("cohort total_students cannot be negative")
	}

	if m := config.Cohort.AcademicYearStartMonth; m < 1 || m > 12 {
		return fmt.Errorf("cohort academic_year_start_month must be 1-12, got %d", m)
	}

	if config.Cohort.TrendMonths < 1 || config.Cohort.TrendMonths > 12 {
		return fmt.Errorf("cohort trend_months must be 1-12, got %d", config.Cohort.TrendMonths)
	}

	for branch, size := range config.Cohort.Branches {
		if size < 0 {
			return fmt.Errorf("cohort size for branch %s cannot be negative", branch)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// PublicBaseURL returns the externally reachable base URL of the API.
func (c *Config) PublicBaseURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Worker   WorkerConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name        string
	Environment string
	Port        string
	ResultsPort string
	Debug       bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	PasswordFile string
	SSLMode      string
	MaxIdle      int
	MaxOpen      int
	MaxLife      time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
	QueueKey string
}

// WorkerConfig holds tally worker configuration
type WorkerConfig struct {
	ConnectBackoff time.Duration
	ErrorBackoff   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Pawtally"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			ResultsPort: getEnv("RESULTS_PORT", "8081"),
			Debug:       getEnvBool("APP_DEBUG", true),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "db"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("POSTGRES_DB", "voting"),
			User:         getEnv("POSTGRES_USER", "postgres"),
			Password:     os.Getenv("POSTGRES_PASSWORD"),
			PasswordFile: os.Getenv("POSTGRES_PASSWORD_FILE"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxIdle:      getEnvInt("DB_MAX_IDLE", 10),
			MaxOpen:      getEnvInt("DB_MAX_OPEN", 100),
			MaxLife:      getEnvDuration("DB_MAX_LIFE", time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "redis"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
			QueueKey: getEnv("VOTE_QUEUE_KEY", "votes"),
		},
		Worker: WorkerConfig{
			ConnectBackoff: getEnvDuration("WORKER_CONNECT_BACKOFF", 2*time.Second),
			ErrorBackoff:   getEnvDuration("WORKER_ERROR_BACKOFF", time.Second),
		},
	}

	if err := config.Database.resolvePassword(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolvePassword reads the password file when no direct password is set.
// A direct POSTGRES_PASSWORD always wins over POSTGRES_PASSWORD_FILE.
func (d *DatabaseConfig) resolvePassword() error {
	if d.Password != "" || d.PasswordFile == "" {
		return nil
	}

	data, err := os.ReadFile(d.PasswordFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read password file %s: %w", d.PasswordFile, err)
	}

	d.Password = strings.TrimSpace(string(data))
	return nil
}

// GetDSN returns database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// GetRedisAddr returns Redis connection address
func (r *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// IsDevelopment returns true if environment is development
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if environment is production
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}
	if c.Redis.QueueKey == "" {
		return fmt.Errorf("vote queue key is required")
	}
	if c.Worker.ConnectBackoff <= 0 || c.Worker.ErrorBackoff <= 0 {
		return fmt.Errorf("worker backoff intervals must be positive")
	}

	return nil
}

// Print prints configuration (excluding sensitive data)
func (c *Config) Print() {
	fmt.Printf("=== Configuration ===\n")
	fmt.Printf("App Name: %s\n", c.App.Name)
	fmt.Printf("Environment: %s\n", c.App.Environment)
	fmt.Printf("Port: %s\n", c.App.Port)
	fmt.Printf("Debug: %v\n", c.App.Debug)
	fmt.Printf("Database: %s:%s/%s\n", c.Database.Host, c.Database.Port, c.Database.Name)
	fmt.Printf("Redis: %s:%s/%d\n", c.Redis.Host, c.Redis.Port, c.Redis.DB)
	fmt.Printf("Queue Key: %s\n", c.Redis.QueueKey)
	fmt.Printf("====================\n")
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	App        AppConfig
	Generator  GeneratorConfig
	Cleanup    CleanupConfig
	Publishing PublishingConfig
}

type ServerConfig struct {
	Port          string
	GenerateRPS   float64
	GenerateBurst int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// DSN overrides the individual fields when set.
	DSN      string
}

// RedisConfig leaves run tracking disabled when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type GeneratorConfig struct {
	OutDir             string
	TablesFile         string
	PromptsFile        string
	PresetServicesFile string
	VariationsFile     string
}

type CleanupConfig struct {
	RetentionDays int
	Schedule      string
}

// PublishingConfig leaves S3 publishing disabled when Bucket is empty.
type PublishingConfig struct {
	Bucket    string
	Prefix    string
	AWSRegion string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			GenerateRPS:   getEnvAsFloat("GENERATE_RPS", 2),
			GenerateBurst: getEnvAsInt("GENERATE_BURST", 5),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "templates"),
			DSN:      getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Generator: GeneratorConfig{
			OutDir:             getEnv("OUT_DIR", "out"),
			TablesFile:         getEnv("TABLES_FILE", ""),
			PromptsFile:        getEnv("PROMPTS_FILE", ""),
			PresetServicesFile: getEnv("PRESET_SERVICES_FILE", ""),
			VariationsFile:     getEnv("VARIATIONS_FILE", ""),
		},
		Cleanup: CleanupConfig{
			RetentionDays: getEnvAsInt("RETENTION_DAYS", 7),
			Schedule:      getEnv("CLEANUP_SCHEDULE", "0 30 0 * * *"),
		},
		Publishing: PublishingConfig{
			Bucket:    getEnv("S3_BUCKET", ""),
			Prefix:    getEnv("S3_PREFIX", "templates"),
			AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Generator.OutDir == "" {
		return fmt.Errorf("OUT_DIR is required")
	}

	if c.Cleanup.RetentionDays <= 0 {
		return fmt.Errorf("RETENTION_DAYS must be positive, got %d", c.Cleanup.RetentionDays)
	}

	return nil
}

func (c CleanupConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

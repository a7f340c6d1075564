// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port             string        `mapstructure:"PORT"`
	DBHost           string        `mapstructure:"DB_HOST"`
	DBPort           string        `mapstructure:"DB_PORT"`
	DBUser           string        `mapstructure:"DB_USER"`
	DBPassword       string        `mapstructure:"DB_PASSWORD"`
	DBName           string        `mapstructure:"DB_NAME"`
	DBSSLMode        string        `mapstructure:"DB_SSLMODE"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	Env              string        `mapstructure:"APP_ENV"`
	VKToken          string        `mapstructure:"VK_TOKEN"`
	VKAPIVersion     string        `mapstructure:"VK_API_VERSION"`
	OwnerID          string        `mapstructure:"OWNER_ID"`
	SyncLimit        int           `mapstructure:"SYNC_LIMIT"`
	SyncInterval     time.Duration `mapstructure:"SYNC_INTERVAL"`
	AdminAPIKey      string        `mapstructure:"ADMIN_API_KEY"`
	UploadsDir       string        `mapstructure:"UPLOADS_DIR"`
	PublicUploadsURL string        `mapstructure:"PUBLIC_UPLOADS_URL"`
	TracingEnabled   bool          `mapstructure:"TRACING_ENABLED"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err == nil {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "wallmirror")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("VK_TOKEN", "")
	viper.SetDefault("VK_API_VERSION", "5.199")
	viper.SetDefault("OWNER_ID", "")
	viper.SetDefault("SYNC_LIMIT", 200)
	viper.SetDefault("SYNC_INTERVAL", time.Hour)
	viper.SetDefault("ADMIN_API_KEY", "")
	viper.SetDefault("UPLOADS_DIR", "./data/uploads")
	viper.SetDefault("PUBLIC_UPLOADS_URL", "/uploads")
	viper.SetDefault("TRACING_ENABLED", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SyncLimit <= 0 {
		return errors.New("SYNC_LIMIT must be positive")
	}
	if c.SyncInterval <= 0 {
		return errors.New("SYNC_INTERVAL must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.AdminAPIKey == "" {
			return errors.New("ADMIN_API_KEY is required in production")
		}
		if c.VKToken == "" {
			return errors.New("VK_TOKEN is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	// OWNER_ID is deliberately not required here: a missing owner aborts a
	// sync pass with a configuration error, but the read-only feed API can
	// still serve previously mirrored posts.
	return nil
}

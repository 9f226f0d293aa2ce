package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	TelegramBotToken     string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	AdminClaimPIN        string        `mapstructure:"ADMIN_CLAIM_PIN"`
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DB_URL               string        `mapstructure:"DB_URL"`
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int           `mapstructure:"REDIS_DB"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	HTTPAddr             string        `mapstructure:"HTTP_ADDR"`
	LogLevel             string        `mapstructure:"LOG_LEVEL"`
	BroadcastConcurrency int           `mapstructure:"BROADCAST_CONCURRENCY"`
	BotDebug             bool          `mapstructure:"BOT_DEBUG"`
}

var configKeys = []string{
	"TELEGRAM_BOT_TOKEN", "ADMIN_CLAIM_PIN", "DB_DRIVER", "DB_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SESSION_TTL",
	"HTTP_ADDR", "LOG_LEVEL", "BROADCAST_CONCURRENCY", "BOT_DEBUG",
}

// LoadConfig reads the .env file at path and overlays the process environment.
// A missing file is not an error as long as the environment carries the token.
func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("failed to resolve config path: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(filepath.Dir(absPath))
	v.SetConfigName(filepath.Base(absPath))
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BROADCAST_CONCURRENCY", 1)
	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DB_URL == "" {
		return errors.New("DB_URL is required")
	}
	if c.BroadcastConcurrency < 1 {
		return errors.New("BROADCAST_CONCURRENCY must be at least 1")
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/ruralcare/health-api/pkg/messaging/redis"
)

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name     string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
}

type ServerConfig struct {
	Port         int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `yaml:"expiry_hours"`
	Issuer      string `yaml:"issuer"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
	Username string `yaml:"username" envconfig:"SMTP_USERNAME"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
	From     string `yaml:"from"`
}

type RedisConfig struct {
	URL          string        `yaml:"url" envconfig:"REDIS_URL"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
}

type ReminderConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"REMINDER_POLL_INTERVAL"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Redis     RedisConfig     `yaml:"redis"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment variables win over the file
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if config.Reminder.PollInterval <= 0 {
		config.Reminder.PollInterval = time.Hour
	}
	if config.JWT.ExpiryHours <= 0 {
		config.JWT.ExpiryHours = 24
	}

	return &config, nil
}

func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}

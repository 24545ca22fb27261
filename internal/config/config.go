package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "parkezy/libs/config"
)

// Config defines booking service configuration.
type Config struct {
	HTTP struct {
		Port         string        `yaml:"port" env:"BOOKING_HTTP_PORT"`
		ReadTimeout  time.Duration `yaml:"readTimeout" env:"BOOKING_HTTP_READ_TIMEOUT"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"BOOKING_HTTP_WRITE_TIMEOUT"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"BOOKING_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"BOOKING_POSTGRES_MAX_OPEN_CONNS"`
		MaxIdleConns int    `yaml:"maxIdleConns" env:"BOOKING_POSTGRES_MAX_IDLE_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"BOOKING_REDIS_ADDR"`
		Password string `yaml:"password" env:"BOOKING_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"BOOKING_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"BOOKING_REDIS_TTL"`
	} `yaml:"redis"`
	AMQP struct {
		URL      string `yaml:"url" env:"BOOKING_AMQP_URL"`
		Exchange string `yaml:"exchange" env:"BOOKING_AMQP_EXCHANGE"`
	} `yaml:"amqp"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"BOOKING_JWT_SECRET"`
		Issuer    string `yaml:"issuer" env:"BOOKING_JWT_ISSUER"`
	} `yaml:"auth"`
	Engine struct {
		TickInterval time.Duration `yaml:"tickInterval" env:"BOOKING_TICK_INTERVAL"`
	} `yaml:"engine"`
	Geofence struct {
		BaseURL string `yaml:"baseUrl" env:"BOOKING_GEOFENCE_URL"`
	} `yaml:"geofence"`
	Occupancy struct {
		BaseURL string `yaml:"baseUrl" env:"BOOKING_OCCUPANCY_URL"`
	} `yaml:"occupancy"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8084"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 300
	cfg.AMQP.Exchange = "parkezy.notifications"
	cfg.Engine.TickInterval = 30 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8084"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// SnapshotTTL returns the live-status cache ttl as duration.
func (c *Config) SnapshotTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// TickInterval returns the metric recalculation period.
func (c *Config) TickInterval() time.Duration {
	if c.Engine.TickInterval <= 0 {
		return 30 * time.Second
	}
	return c.Engine.TickInterval
}

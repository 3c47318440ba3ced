// Package config defines process configuration shared by the biz API and
// the console front end.
//
// Conventions:
//   - New returns defaults; Load layers a YAML file and env vars on top.
//   - All loading errors wrap ErrLoadConfig, validation errors wrap ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the biz API listen address.
	Addr string `koanf:"addr"`

	// ConsoleAddr is the console listen address.
	ConsoleAddr string `koanf:"console_addr"`

	// ServiceName is reported in the health payload.
	ServiceName string `koanf:"service_name"`

	RedisHost     string `koanf:"redis_host"`
	RedisPort     int    `koanf:"redis_port"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	DBHost         string `koanf:"db_host"`
	DBPort         int    `koanf:"db_port"`
	DBUser         string `koanf:"db_user"`
	DBPassword     string `koanf:"db_password"`
	DBName         string `koanf:"db_name"`
	DBMaxOpenConns int    `koanf:"db_max_open_conns"`
	DBMaxIdleConns int    `koanf:"db_max_idle_conns"`

	// APIBaseURL is where the console reaches the biz API.
	APIBaseURL string `koanf:"api_base_url"`

	// PollIntervalMS is the health monitor refresh period.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// Locale selects display strings and timestamp format: zh-CN or en.
	Locale string `koanf:"locale"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":3000",
		ConsoleAddr:    ":8080",
		ServiceName:    "biz",
		RedisHost:      "redis",
		RedisPort:      6379,
		DBHost:         "db",
		DBPort:         3306,
		DBUser:         "admin",
		DBName:         "mydb",
		DBMaxOpenConns: 10,
		DBMaxIdleConns: 5,
		APIBaseURL:     "http://localhost:3000",
		PollIntervalMS: 10_000,
		Locale:         "zh-CN",
	}
}

// PollInterval returns PollIntervalMS as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

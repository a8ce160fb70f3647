package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// Timezone is used only for rendering times to operators.
	Timezone string `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Session store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type SessionConfig struct {
	// Lifetime is the sliding session lifetime; every authenticated request
	// resets both index entries to this TTL.
	Lifetime    time.Duration `mapstructure:"lifetime"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	TokenPrefix string        `mapstructure:"token_prefix"`
	Store       string        `mapstructure:"store"`
	// EventChannel is the Redis pub/sub channel for session lifecycle events.
	// Empty disables publishing.
	EventChannel string `mapstructure:"event_channel"`
}

// Database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
	// Password login attempts allowed per username; zero disables a window.
	LoginAttemptsPerMinute int `mapstructure:"login_attempts_per_minute"`
	LoginAttemptsPerHour   int `mapstructure:"login_attempts_per_hour"`
}

package database

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds database connection settings.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	Name            string `toml:"name"`
	SslMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	ConnTimeout     int    `toml:"conn_timeout"`
}

// Dsn builds a PostgreSQL connection string from the configuration.
func (c *Config) Dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode,
	)
}

// ConnMaxLifetimeDuration returns the connection max lifetime in seconds.
func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Second
}

// ConnTimeoutDuration returns the connection timeout in seconds.
func (c *Config) ConnTimeoutDuration() time.Duration {
	return time.Duration(c.ConnTimeout) * time.Second
}

// Merge overlays non-zero values from the source configuration.
func (c *Config) Merge(source *Config) {
	if source == nil {
		return
	}

	if source.Host != "" {
		c.Host = source.Host
	}

	if source.Port > 0 {
		c.Port = source.Port
	}

	if source.User != "" {
		c.User = source.User
	}

	if source.Password != "" {
		c.Password = source.Password
	}

	if source.Name != "" {
		c.Name = source.Name
	}

	if source.SslMode != "" {
		c.SslMode = source.SslMode
	}

	if source.MaxOpenConns > 0 {
		c.MaxOpenConns = source.MaxOpenConns
	}

	if source.MaxIdleConns > 0 {
		c.MaxIdleConns = source.MaxIdleConns
	}

	if source.ConnMaxLifetime > 0 {
		c.ConnMaxLifetime = source.ConnMaxLifetime
	}

	if source.ConnTimeout > 0 {
		c.ConnTimeout = source.ConnTimeout
	}
}

// Finalize applies defaults, environment overrides, and validates the result.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}

	if c.Port == 0 {
		c.Port = 5432
	}

	if c.SslMode == "" {
		c.SslMode = "disable"
	}

	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}

	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}

	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 300
	}

	if c.ConnTimeout == 0 {
		c.ConnTimeout = 10
	}
}

func (c *Config) loadEnv() {
	if host := os.Getenv("SPECTRACK_DB_HOST"); host != "" {
		c.Host = host
	}

	if port := os.Getenv("SPECTRACK_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}

	if user := os.Getenv("SPECTRACK_DB_USER"); user != "" {
		c.User = user
	}

	if password := os.Getenv("SPECTRACK_DB_PASSWORD"); password != "" {
		c.Password = password
	}

	if name := os.Getenv("SPECTRACK_DB_NAME"); name != "" {
		c.Name = name
	}

	if sslMode := os.Getenv("SPECTRACK_DB_SSL_MODE"); sslMode != "" {
		c.SslMode = sslMode
	}
}

func (c *Config) validate() error {
	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Name == "" {
		return fmt.Errorf("database name is required")
	}

	return nil
}

package storage

import (
	"fmt"
	"os"
)

// Config holds Azure Blob Storage connection parameters.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
}

// Enabled reports whether a storage backend is configured. An empty
// connection string disables manifest archiving.
func (c *Config) Enabled() bool {
	return c.ConnectionString != ""
}

// Merge overlays non-zero values from the source configuration.
func (c *Config) Merge(source *Config) {
	if source == nil {
		return
	}

	if source.ContainerName != "" {
		c.ContainerName = source.ContainerName
	}

	if source.ConnectionString != "" {
		c.ConnectionString = source.ConnectionString
	}
}

// Finalize applies defaults, environment overrides, and validates the result.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "manifests"
	}
}

func (c *Config) loadEnv() {
	if container := os.Getenv("SPECTRACK_STORAGE_CONTAINER"); container != "" {
		c.ContainerName = container
	}

	if conn := os.Getenv("SPECTRACK_STORAGE_CONNECTION_STRING"); conn != "" {
		c.ConnectionString = conn
	}
}

func (c *Config) validate() error {
	if c.Enabled() && c.ContainerName == "" {
		return fmt.Errorf("storage container name is required")
	}

	return nil
}

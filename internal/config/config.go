package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Brownie44l1/numguess/internal/request"
)

// Config holds everything the server needs at startup
type Config struct {
	Host string
	Port int

	// ClientDir serves assets from disk instead of the bundled client
	// when non-empty.
	ClientDir string

	// ReadBufferSize bounds the one read each connection gets.
	ReadBufferSize int

	Debug bool
}

// Default is the fixed loopback endpoint the server has always used.
func Default() *Config {
	return &Config{
		Host:           "127.0.0.1",
		Port:           3000,
		ReadBufferSize: request.MaxSize,
	}
}

// Load returns the defaults with GUESS_HOST, GUESS_PORT, GUESS_CLIENT_DIR
// and GUESS_DEBUG applied, validated.
func Load() (*Config, error) {
	cfg := Default()
	cfg.Host = getEnvOrDefault("GUESS_HOST", cfg.Host)
	cfg.ClientDir = getEnvOrDefault("GUESS_CLIENT_DIR", cfg.ClientDir)

	port, err := getEnvAsIntOrDefault("GUESS_PORT", cfg.Port)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	debug, err := getEnvAsBoolOrDefault("GUESS_DEBUG", cfg.Debug)
	if err != nil {
		return nil, err
	}
	cfg.Debug = debug

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the config can actually be served
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.ReadBufferSize < 1 {
		return fmt.Errorf("invalid read buffer size: %d", c.ReadBufferSize)
	}
	if c.ClientDir != "" {
		info, err := os.Stat(c.ClientDir)
		if err != nil {
			return fmt.Errorf("client dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("client dir %s is not a directory", c.ClientDir)
		}
	}
	return nil
}

// Address returns host:port for net.Listen
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

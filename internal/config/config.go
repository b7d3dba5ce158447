package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DaemonConfig configures the packetd HTTP daemon.
type DaemonConfig struct {
	Name         string   `toml:"name"`
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	MaxHexDigits int      `toml:"max_hex_digits"`
	MaxDepth     int      `toml:"max_depth"`
}

const (
	DefaultDaemonName = "packetd"
	DefaultDaemonAddr = ":9200"
)

func DefaultDaemonConfig() DaemonConfig {
	limits := defaultLimits()
	return DaemonConfig{
		Name:         DefaultDaemonName,
		Addr:         DefaultDaemonAddr,
		MaxHexDigits: limits.MaxHexDigits,
		MaxDepth:     limits.MaxDepth,
	}
}

func LoadDaemonConfig(path string) (DaemonConfig, error) {
	cfg := DefaultDaemonConfig()
	if err := loadToml(path, &cfg); err != nil {
		return DaemonConfig{}, err
	}
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = DefaultDaemonName
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = DefaultDaemonAddr
	}
	if err := ValidateDaemonConfig(cfg); err != nil {
		return DaemonConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateDaemonConfig(cfg DaemonConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("daemon config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("daemon config missing addr")
	}
	if err := ValidateLimits(cfg.MaxHexDigits, cfg.MaxDepth); err != nil {
		return fmt.Errorf("daemon config: %w", err)
	}
	for i, origin := range cfg.CorsOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("cors_origins[%d] is empty", i)
		}
	}
	return nil
}

// ValidateLimits rejects negative decode limits. Zero disables a limit.
func ValidateLimits(maxHexDigits, maxDepth int) error {
	if maxHexDigits < 0 {
		return fmt.Errorf("max_hex_digits must not be negative: %d", maxHexDigits)
	}
	if maxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative: %d", maxDepth)
	}
	return nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/packetctl/internal/config"
	"github.com/danmuck/packetctl/internal/logging"
	"github.com/danmuck/packetctl/internal/protocol/packet"
	"github.com/rs/zerolog"
)

type fileConfig struct {
	Input        string `toml:"input"`
	MaxHexDigits int    `toml:"max_hex_digits"`
	MaxDepth     int    `toml:"max_depth"`
	LogLevel     string `toml:"log_level"`
}

type cliConfig struct {
	Input    string
	Limits   packet.Limits
	LogLevel zerolog.Level
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		Input:    "input.txt",
		Limits:   packet.DefaultLimits(),
		LogLevel: zerolog.InfoLevel,
	}
}

// loadCLIConfig overlays the keys present in path onto the defaults.
func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cliConfig{}, fmt.Errorf("load packetctl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cliConfig{}, fmt.Errorf("load packetctl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("input") {
		if input := strings.TrimSpace(raw.Input); input != "" {
			cfg.Input = input
		}
	}

	if meta.IsDefined("max_hex_digits") {
		cfg.Limits.MaxHexDigits = raw.MaxHexDigits
	}

	if meta.IsDefined("max_depth") {
		cfg.Limits.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return cliConfig{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if err := config.ValidateLimits(cfg.Limits.MaxHexDigits, cfg.Limits.MaxDepth); err != nil {
		return cliConfig{}, fmt.Errorf("load packetctl config: %w", err)
	}
	return cfg, nil
}

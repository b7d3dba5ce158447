package main

import (
	"flag"

	"github.com/danmuck/packetctl/internal/config"
	"github.com/danmuck/packetctl/internal/observability"
	"github.com/danmuck/packetctl/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/packetd/config.toml", "daemon TOML config")
	flag.Parse()

	logger := observability.InitLogger("packetd")
	cfg, err := config.LoadDaemonConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load packetd config")
	}
	log.Info().Str("path", *configPath).Msg("loaded packetd config")

	daemon := server.Appear(cfg, logger)
	log.Info().
		Str("name", daemon.Name).
		Str("addr", daemon.Addr).
		Int("max_hex_digits", cfg.MaxHexDigits).
		Int("max_depth", cfg.MaxDepth).
		Msg("packetd started")
	if err := daemon.Serve(); err != nil {
		log.Fatal().Err(err).Msg("packetd stopped")
	}
}

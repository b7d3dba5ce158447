package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/packetctl/internal/analysis"
	"github.com/danmuck/packetctl/internal/observability"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errEmptyInput = errors.New("input has no transmission line")

func main() {
	configPath := flag.String("config", "", "optional TOML config (see configgen -kind cli)")
	input := flag.String("input", "", "file whose first line is the transmission")
	hex := flag.String("hex", "", "transmission given inline; overrides -input")
	tree := flag.Bool("tree", false, "print the decoded packet tree")
	flag.Parse()

	logger := observability.InitLogger("packetctl")

	cfg := defaultCLIConfig()
	if *configPath != "" {
		loaded, err := loadCLIConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load packetctl config")
		}
		cfg = loaded
		zerolog.SetGlobalLevel(cfg.LogLevel)
		logger = logger.Level(cfg.LogLevel)
		logger.Debug().Str("path", *configPath).Msg("loaded packetctl config")
	}
	if *input != "" {
		cfg.Input = *input
	}

	transmission := *hex
	if transmission == "" {
		line, err := readTransmission(cfg.Input)
		if err != nil {
			log.Fatal().Err(err).Str("input", cfg.Input).Msg("failed to read transmission")
		}
		transmission = line
	}

	report, err := analysis.NewService(cfg.Limits, logger).Analyze(transmission)
	if err != nil {
		log.Fatal().Err(err).Msg("transmission rejected")
	}

	fmt.Printf("version sum: %d\n", report.VersionSum)
	fmt.Printf("value: %d\n", report.Value)
	if *tree {
		fmt.Println(report.Root)
	}
}

func readTransmission(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return firstLine(f)
}

func firstLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
		return "", errEmptyInput
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errEmptyInput
}

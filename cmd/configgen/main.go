package main

import (
	"flag"
	"log"

	"github.com/danmuck/packetctl/internal/config"
)

func main() {
	kind := flag.String("kind", "daemon", "config kind: daemon|cli")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing daemon config file")
	input := flag.String("input", "", "config path for validation (defaults to cmd/packetd/config.toml)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		if *kind != "daemon" {
			log.Fatalf("validation supports kind daemon only; use packetctl -config for cli configs")
		}
		path := *input
		if path == "" {
			path = "cmd/packetd/config.toml"
		}
		if _, err := config.LoadDaemonConfig(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated %s config at %s", *kind, path)
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "daemon":
			target = "cmd/packetd/config.toml"
		case "cli":
			target = "cmd/packetctl/config.toml"
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}

package testlog

import (
	"testing"

	"github.com/danmuck/packetctl/internal/logging"
	"github.com/rs/zerolog/log"
)

// Start switches logging to the test profile and marks the start of t.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Str("test", t.Name()).Msg("start")
}

// Package analysis runs the packet core end to end: one decode of a
// transmission followed by the version sum and evaluation of the tree.
package analysis

import (
	"errors"
	"sync"
	"time"

	"github.com/danmuck/packetctl/internal/observability"
	"github.com/danmuck/packetctl/internal/protocol/packet"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Report is the result of analysing one transmission.
type Report struct {
	ID         uuid.UUID      `json:"id"`
	VersionSum uint64         `json:"version_sum"`
	Value      uint64         `json:"value"`
	Packets    int            `json:"packets"`
	Depth      int            `json:"depth"`
	Root       *packet.Packet `json:"-"`
}

// Analyze decodes hex once with default limits and returns both results.
func Analyze(hex string) (Report, error) {
	return NewService(packet.DefaultLimits(), zerolog.Nop()).Analyze(hex)
}

// Service analyses transmissions, logging and recording metrics for each.
// It is safe for concurrent use.
type Service struct {
	decoder *packet.Decoder
	logger  zerolog.Logger
}

func NewService(limits packet.Limits, logger zerolog.Logger) *Service {
	return &Service{
		decoder: packet.NewDecoder(limits),
		logger:  logger,
	}
}

func (s *Service) Analyze(hex string) (Report, error) {
	start := time.Now()
	report := Report{ID: uuid.New()}

	root, err := s.decoder.DecodeTransmission(hex)
	if err == nil {
		report, err = traverse(report, root)
	}
	elapsed := time.Since(start)

	outcome := Outcome(err)
	observability.RecordDecode(outcome, report.Packets, elapsed)
	if err != nil {
		s.logger.Warn().
			Str("transmission_id", report.ID.String()).
			Int("hex_digits", len(hex)).
			Str("outcome", outcome).
			Err(err).
			Msg("transmission rejected")
		return Report{ID: report.ID}, err
	}

	s.logger.Debug().
		Str("transmission_id", report.ID.String()).
		Int("hex_digits", len(hex)).
		Int("packets", report.Packets).
		Int("depth", report.Depth).
		Uint64("version_sum", report.VersionSum).
		Uint64("value", report.Value).
		Dur("elapsed", elapsed).
		Msg("transmission analysed")
	return report, nil
}

// traverse runs the version sum alongside evaluation; the tree is
// immutable so neither needs a lock.
func traverse(report Report, root *packet.Packet) (Report, error) {
	var (
		wg      sync.WaitGroup
		sum     uint64
		packets int
		depth   int
		value   uint64
		evalErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sum = packet.SumVersions(root)
		packets = root.Count()
		depth = root.Depth()
	}()
	go func() {
		defer wg.Done()
		value, evalErr = packet.Evaluate(root)
	}()
	wg.Wait()
	if evalErr != nil {
		return report, evalErr
	}

	report.VersionSum = sum
	report.Value = value
	report.Packets = packets
	report.Depth = depth
	report.Root = root
	return report, nil
}

// Outcome classifies err into a metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, packet.ErrTruncatedInput):
		return observability.OutcomeTruncated
	case errors.Is(err, packet.ErrFramingOverrun):
		return observability.OutcomeOverrun
	case errors.Is(err, packet.ErrInvalidArity):
		return observability.OutcomeArity
	case errors.Is(err, packet.ErrLiteralOverflow), errors.Is(err, packet.ErrValueOverflow):
		return observability.OutcomeOverflow
	default:
		return observability.OutcomeRejected
	}
}

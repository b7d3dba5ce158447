package config

import "github.com/danmuck/packetctl/internal/protocol/packet"

func defaultLimits() packet.Limits {
	return packet.DefaultLimits()
}

// Limits converts the configured decode limits.
func (c DaemonConfig) Limits() packet.Limits {
	return packet.Limits{
		MaxHexDigits: c.MaxHexDigits,
		MaxDepth:     c.MaxDepth,
	}
}

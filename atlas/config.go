// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

// Page size limits.
const (
	MinPageSize = 64
	MaxPageSize = 16384
)

// Config holds atlas configuration.
type Config struct {
	// InitialSize is the side of a freshly created page in texels.
	// Must be a power of 2. Default: 256
	InitialSize uint32

	// MaxSize bounds page growth. It is further clamped to the device limit.
	// Default: 4096
	MaxSize uint32

	// Padding between glyphs to prevent sampling bleed.
	// Default: 1
	Padding uint32
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		InitialSize: 256,
		MaxSize:     4096,
		Padding:     1,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.InitialSize < MinPageSize {
		return &ConfigError{Field: "InitialSize", Reason: "must be at least 64"}
	}
	if c.InitialSize&(c.InitialSize-1) != 0 {
		return &ConfigError{Field: "InitialSize", Reason: "must be power of 2"}
	}
	if c.MaxSize < c.InitialSize {
		return &ConfigError{Field: "MaxSize", Reason: "must be at least InitialSize"}
	}
	if c.MaxSize > MaxPageSize {
		return &ConfigError{Field: "MaxSize", Reason: "must be at most 16384"}
	}
	if c.Padding > 8 {
		return &ConfigError{Field: "Padding", Reason: "must be at most 8"}
	}
	return nil
}

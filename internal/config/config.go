package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	// RoomReapGrace is how long an empty room survives before it is reaped.
	RoomReapGrace time.Duration `mapstructure:"room_reap_grace" yaml:"room_reap_grace"`
	// SnapshotTimeout bounds how long a canvas snapshot source may take to
	// reply before the next candidate is asked.
	SnapshotTimeout time.Duration `mapstructure:"snapshot_timeout" yaml:"snapshot_timeout"`
	// RelayRate and RelayBurst rate-limit inbound frames per connection;
	// drawing emits bursts of small segments.
	RelayRate  float64 `mapstructure:"relay_rate" yaml:"relay_rate"`
	RelayBurst int     `mapstructure:"relay_burst" yaml:"relay_burst"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		RoomReapGrace:     30 * time.Second,
		SnapshotTimeout:   5 * time.Second,
		RelayRate:         60,
		RelayBurst:        120,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.RoomReapGrace != 0 {
		c.RoomReapGrace = other.RoomReapGrace
	}
	if other.SnapshotTimeout != 0 {
		c.SnapshotTimeout = other.SnapshotTimeout
	}
	if other.RelayRate != 0 {
		c.RelayRate = other.RelayRate
	}
	if other.RelayBurst != 0 {
		c.RelayBurst = other.RelayBurst
	}
}

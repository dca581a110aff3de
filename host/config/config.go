// Package config holds the host tool's settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the host tool configuration.
type Config struct {
	Serial   SerialConfig    `yaml:"serial"`
	Run      RunConfig       `yaml:"run"`
	Channels []ChannelConfig `yaml:"channels"`
}

// SerialConfig selects the port a real board is attached to.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// RunConfig paces a simulated run.
type RunConfig struct {
	Passes     int    `yaml:"passes"`      // conversion passes per run
	TickHz     uint32 `yaml:"tick_hz"`     // virtual tick rate of the simulated board
	DrainTicks uint64 `yaml:"drain_ticks"` // extra ticks after the last pass to flush output
}

// ChannelConfig describes the level source behind one input channel of
// the simulated board.
type ChannelConfig struct {
	Channel   int    `yaml:"channel"`
	Waveform  string `yaml:"waveform"`            // constant, sine or triangle
	Level     uint16 `yaml:"level"`               // constant level, or the waveform midpoint
	Amplitude uint16 `yaml:"amplitude,omitempty"` // waveform swing around the midpoint
	Period    uint64 `yaml:"period,omitempty"`    // waveform period in ticks
}

// Default returns a configuration that runs the demo out of the box:
// a slow sine and triangle on the first two channels and fixed levels
// on the rest.
func Default() *Config {
	cfg := &Config{
		Serial: SerialConfig{
			Device: "/dev/ttyUSB0",
			Baud:   38400,
		},
		Run: RunConfig{
			Passes:     4,
			TickHz:     18_000_000,
			DrainTicks: 2_000_000,
		},
		Channels: []ChannelConfig{
			{Channel: 0, Waveform: "sine", Level: 2048, Amplitude: 1024, Period: 40_000_000},
			{Channel: 1, Waveform: "triangle", Level: 2048, Amplitude: 2047, Period: 80_000_000},
		},
	}
	for ch := 2; ch < 8; ch++ {
		cfg.Channels = append(cfg.Channels, ChannelConfig{
			Channel:  ch,
			Waveform: "constant",
			Level:    uint16(ch) * 256,
		})
	}
	return cfg
}

// Load reads configuration from a YAML file. A missing file is not an
// error; it yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ensureDefaults backfills fields a partial file left unset.
func (c *Config) ensureDefaults() {
	def := Default()
	if c.Serial.Device == "" {
		c.Serial.Device = def.Serial.Device
	}
	if c.Serial.Baud <= 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Run.Passes <= 0 {
		c.Run.Passes = def.Run.Passes
	}
	if c.Run.TickHz == 0 {
		c.Run.TickHz = def.Run.TickHz
	}
	if c.Run.DrainTicks == 0 {
		c.Run.DrainTicks = def.Run.DrainTicks
	}
	if len(c.Channels) == 0 {
		c.Channels = def.Channels
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Device)
	assert.Equal(t, 38400, cfg.Serial.Baud)
	assert.Equal(t, 4, cfg.Run.Passes)
	assert.Equal(t, uint32(18_000_000), cfg.Run.TickHz)
	assert.Len(t, cfg.Channels, 8)
	assert.Equal(t, "sine", cfg.Channels[0].Waveform)
	assert.Equal(t, "triangle", cfg.Channels[1].Waveform)
	for ch := 2; ch < 8; ch++ {
		assert.Equal(t, "constant", cfg.Channels[ch].Waveform)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duadc.yaml")
	content := `
serial:
  device: "/dev/ttyACM1"

run:
  passes: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Device)
	assert.Equal(t, 2, cfg.Run.Passes)
	// Unset fields fall back to defaults.
	assert.Equal(t, 38400, cfg.Serial.Baud)
	assert.Equal(t, uint32(18_000_000), cfg.Run.TickHz)
	assert.Len(t, cfg.Channels, 8)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duadc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duadc.yaml")

	cfg := Default()
	cfg.Serial.Device = "/dev/ttyS9"
	cfg.Run.Passes = 7
	cfg.Channels = cfg.Channels[:3]
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

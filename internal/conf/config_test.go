package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burakkonte/sinyalist/internal/seismic"
)

// Load and WriteExample both drive the global viper singleton, so these
// tests cannot run in parallel with each other.

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	viper.Reset()

	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, seismic.DefaultConfig().SampleRateHz, s.Detector.SampleRateHz)
	assert.Equal(t, "info", s.Log.Level)
	assert.False(t, s.MQTT.Enabled)
	assert.Equal(t, ":9090", s.Metrics.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "sinyalist.yaml")
	contents := `
detector:
  samplerate: 100
mqtt:
  enabled: true
  broker: "tcp://broker.local:1883"
  topic: "quakes/events"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100.0, s.Detector.SampleRateHz)
	assert.True(t, s.MQTT.Enabled)
	assert.Equal(t, "tcp://broker.local:1883", s.MQTT.Broker)
	assert.Equal(t, "quakes/events", s.MQTT.Topic)
}

func TestLoad_RejectsInvalidCombination(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "sinyalist.yaml")
	contents := "mqtt:\n  enabled: true\n  broker: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteExample_ProducesLoadableFile(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, WriteExample(path))

	viper.Reset()
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, seismic.DefaultConfig().SampleRateHz, s.Detector.SampleRateHz)
}

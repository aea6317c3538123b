// config.go: process-level settings for sinyalist — the detector's own
// Config (sample rate, filter windows, thresholds) plus the settings the
// binding shell needs (logging, MQTT, websocket, metrics). Loading follows
// a viper-defaults-plus-struct pattern.
package conf

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/burakkonte/sinyalist/internal/seismic"
)

// LogSettings controls the logging subsystem.
type LogSettings struct {
	Level      string // "debug", "info", "warn", "error"
	Path       string // file path for rotated file logging; empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// MQTTSettings controls the optional MQTT event publisher.
type MQTTSettings struct {
	Enabled  bool
	Broker   string
	Topic    string
	Username string
	Password string
}

// WebSocketSettings controls the dashboard telemetry feed.
type WebSocketSettings struct {
	Enabled bool
	Addr    string
}

// MetricsSettings controls the Prometheus metrics endpoint.
type MetricsSettings struct {
	Enabled bool
	Addr    string
}

// IngestSettings controls the multi-device consensus ingestion server.
type IngestSettings struct {
	Enabled             bool
	Addr                string
	PersistPath         string
	ConsensusMinDevices int
	RatePerKeyPerMin    int
	RatePerGeoPerMin    int
	DedupTTLSeconds     int
}

// Settings is the complete process configuration: the detector core's own
// tunables plus the ambient/binding-shell settings around it.
type Settings struct {
	Detector  seismic.Config
	Log       LogSettings
	MQTT      MQTTSettings
	WebSocket WebSocketSettings
	Metrics   MetricsSettings
	Ingest    IngestSettings
}

// Load builds Settings from viper defaults, an optional YAML file at path
// (skipped silently if it does not exist), and any flags/env vars already
// bound into viper by the caller. Detector fields are clamped by
// seismic.Config's own sanitization the first time they reach a Detector.
// Load fails on a malformed YAML file and on settings that
// ValidateSettings rejects.
func Load(path string) (Settings, error) {
	setDefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
			}
		}
	}

	s := Settings{
		Detector: seismic.Config{
			SampleRateHz:      viper.GetFloat64("detector.samplerate"),
			HPAlpha:           viper.GetFloat64("detector.hpalpha"),
			STAWindow:         viper.GetInt("detector.stawindow"),
			LTAWindow:         viper.GetInt("detector.ltawindow"),
			StaLtaTrigger:     viper.GetFloat64("detector.staltatrigger"),
			StaLtaDetrigger:   viper.GetFloat64("detector.staltadetrigger"),
			MinAmplitudeG:     viper.GetFloat64("detector.minamplitude"),
			MinSustained:      viper.GetInt("detector.minsustained"),
			AxisCoherenceMin:  viper.GetFloat64("detector.axiscoherencemin"),
			Cooldown:          viper.GetInt("detector.cooldown"),
			PWaveFreqMin:      viper.GetFloat64("detector.pwavefreqmin"),
			PWaveFreqMax:      viper.GetFloat64("detector.pwavefreqmax"),
			CalibWindow:       viper.GetInt("detector.calibwindow"),
			AdaptiveTrigMin:   viper.GetFloat64("detector.adaptivetrigmin"),
			AdaptiveTrigMax:   viper.GetFloat64("detector.adaptivetrigmax"),
			PeriodicityThresh: viper.GetFloat64("detector.periodicitythresh"),
		},
		Log: LogSettings{
			Level:      viper.GetString("log.level"),
			Path:       viper.GetString("log.path"),
			MaxSizeMB:  viper.GetInt("log.maxsizemb"),
			MaxBackups: viper.GetInt("log.maxbackups"),
			MaxAgeDays: viper.GetInt("log.maxagedays"),
		},
		MQTT: MQTTSettings{
			Enabled:  viper.GetBool("mqtt.enabled"),
			Broker:   viper.GetString("mqtt.broker"),
			Topic:    viper.GetString("mqtt.topic"),
			Username: viper.GetString("mqtt.username"),
			Password: viper.GetString("mqtt.password"),
		},
		WebSocket: WebSocketSettings{
			Enabled: viper.GetBool("websocket.enabled"),
			Addr:    viper.GetString("websocket.addr"),
		},
		Metrics: MetricsSettings{
			Enabled: viper.GetBool("metrics.enabled"),
			Addr:    viper.GetString("metrics.addr"),
		},
		Ingest: IngestSettings{
			Enabled:             viper.GetBool("ingest.enabled"),
			Addr:                viper.GetString("ingest.addr"),
			PersistPath:         viper.GetString("ingest.persistpath"),
			ConsensusMinDevices: viper.GetInt("ingest.consensusmindevices"),
			RatePerKeyPerMin:    viper.GetInt("ingest.rateperkeypermin"),
			RatePerGeoPerMin:    viper.GetInt("ingest.rategeopermin"),
			DedupTTLSeconds:     viper.GetInt("ingest.dedupttlseconds"),
		},
	}

	if err := ValidateSettings(&s); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// WriteExample writes the current defaults to path as YAML, the way an
// operator would seed a starting config file.
func WriteExample(path string) error {
	setDefaultConfig()
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling example config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

// conf/defaults.go default values for settings
package conf

import "github.com/spf13/viper"

// setDefaultConfig binds viper defaults for every setting Load reads. It
// mirrors seismic.DefaultConfig() field for field so a config file only
// needs to override the tunables it actually changes.
func setDefaultConfig() {
	viper.SetDefault("detector.samplerate", 50.0)
	viper.SetDefault("detector.hpalpha", 0.98)
	viper.SetDefault("detector.stawindow", 25)
	viper.SetDefault("detector.ltawindow", 500)
	viper.SetDefault("detector.staltatrigger", 4.5)
	viper.SetDefault("detector.staltadetrigger", 1.5)
	viper.SetDefault("detector.minamplitude", 0.012)
	viper.SetDefault("detector.minsustained", 15)
	viper.SetDefault("detector.axiscoherencemin", 0.4)
	viper.SetDefault("detector.cooldown", 500)
	viper.SetDefault("detector.pwavefreqmin", 1.0)
	viper.SetDefault("detector.pwavefreqmax", 15.0)
	viper.SetDefault("detector.calibwindow", 2500)
	viper.SetDefault("detector.adaptivetrigmin", 3.5)
	viper.SetDefault("detector.adaptivetrigmax", 8.0)
	viper.SetDefault("detector.periodicitythresh", 0.6)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.path", "")
	viper.SetDefault("log.maxsizemb", 10)
	viper.SetDefault("log.maxbackups", 3)
	viper.SetDefault("log.maxagedays", 28)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", "sinyalist/events")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")

	viper.SetDefault("websocket.enabled", false)
	viper.SetDefault("websocket.addr", ":8090")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.addr", ":9090")

	viper.SetDefault("ingest.enabled", false)
	viper.SetDefault("ingest.addr", ":8091")
	viper.SetDefault("ingest.persistpath", "sinyalist_packets.ndjson")
	viper.SetDefault("ingest.consensusmindevices", 3)
	viper.SetDefault("ingest.rateperkeypermin", 30)
	viper.SetDefault("ingest.rategeopermin", 500)
	viper.SetDefault("ingest.dedupttlseconds", 300)
}

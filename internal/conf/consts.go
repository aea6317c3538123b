// conf/consts.go hard coded constants
package conf

const (
	// AppName is the process name. The CLI and the MQTT client ID spell the
	// name out as a literal rather than referencing this constant.
	AppName = "sinyalist"

	// DefaultConfigFileName is the YAML file loaded from the working
	// directory (or wherever --config points) when present.
	DefaultConfigFileName = "sinyalist.yaml"
)

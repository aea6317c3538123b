// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError aggregates every problem found while validating
// Settings, so a caller sees all of them at once instead of one at a time.
type ValidationError struct {
	Errors []string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings checks the ambient/binding-shell settings that can
// genuinely fail (malformed broker URL, missing listen address for an
// enabled server). The detector's own tunables are never rejected here:
// seismic.Config.sanitized() clamps window/rate fields into range the
// first time they reach a Detector, instead of erroring.
func ValidateSettings(s *Settings) error {
	ve := ValidationError{}

	if s.MQTT.Enabled {
		if s.MQTT.Broker == "" {
			ve.Errors = append(ve.Errors, "mqtt.broker must be set when mqtt.enabled is true")
		} else if _, err := url.Parse(s.MQTT.Broker); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("mqtt.broker is not a valid URL: %v", err))
		}
		if s.MQTT.Topic == "" {
			ve.Errors = append(ve.Errors, "mqtt.topic must be set when mqtt.enabled is true")
		}
	}

	if s.WebSocket.Enabled && s.WebSocket.Addr == "" {
		ve.Errors = append(ve.Errors, "websocket.addr must be set when websocket.enabled is true")
	}

	if s.Metrics.Enabled && s.Metrics.Addr == "" {
		ve.Errors = append(ve.Errors, "metrics.addr must be set when metrics.enabled is true")
	}

	if s.Ingest.Enabled {
		if s.Ingest.Addr == "" {
			ve.Errors = append(ve.Errors, "ingest.addr must be set when ingest.enabled is true")
		}
		if s.Ingest.ConsensusMinDevices < 1 {
			ve.Errors = append(ve.Errors, "ingest.consensusmindevices must be at least 1")
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

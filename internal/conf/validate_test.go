package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Settings)
		wantValid bool
	}{
		{
			name:      "all disabled is always valid",
			mutate:    func(s *Settings) {},
			wantValid: true,
		},
		{
			name: "mqtt enabled without broker",
			mutate: func(s *Settings) {
				s.MQTT.Enabled = true
				s.MQTT.Topic = "sinyalist/events"
			},
			wantValid: false,
		},
		{
			name: "mqtt enabled without topic",
			mutate: func(s *Settings) {
				s.MQTT.Enabled = true
				s.MQTT.Broker = "tcp://localhost:1883"
			},
			wantValid: false,
		},
		{
			name: "mqtt fully configured",
			mutate: func(s *Settings) {
				s.MQTT.Enabled = true
				s.MQTT.Broker = "tcp://localhost:1883"
				s.MQTT.Topic = "sinyalist/events"
			},
			wantValid: true,
		},
		{
			name: "websocket enabled without addr",
			mutate: func(s *Settings) {
				s.WebSocket.Enabled = true
			},
			wantValid: false,
		},
		{
			name: "metrics enabled without addr",
			mutate: func(s *Settings) {
				s.Metrics.Enabled = true
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Settings{}
			tt.mutate(&s)
			err := ValidateSettings(&s)
			if tt.wantValid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

package mqttpub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burakkonte/sinyalist/internal/conf"
	"github.com/burakkonte/sinyalist/internal/seismic"
)

func TestNewPublisher_BuildsConfigFromSettings(t *testing.T) {
	t.Parallel()

	p := NewPublisher(conf.MQTTSettings{
		Broker:   "tcp://localhost:1883",
		Topic:    "sinyalist/events",
		Username: "reader",
		Password: "secret",
	}, "sinyalist-test-1")

	assert.Equal(t, "tcp://localhost:1883", p.config.Broker)
	assert.Equal(t, "sinyalist/events", p.config.Topic)
	assert.Equal(t, "sinyalist-test-1", p.config.ClientID)
	assert.False(t, p.IsConnected())
}

func TestPublisher_PublishFailsWhenNotConnected(t *testing.T) {
	t.Parallel()

	p := NewPublisher(conf.MQTTSettings{Broker: "tcp://localhost:1883", Topic: "sinyalist/events"}, "sinyalist-test-2")

	err := p.Publish(context.Background(), seismic.SeismicEvent{Level: seismic.AlertModerate})
	assert.Error(t, err)
}

func TestPublisher_ConnectRejectsMalformedBrokerURL(t *testing.T) {
	t.Parallel()

	p := NewPublisher(conf.MQTTSettings{Broker: "://not-a-url", Topic: "sinyalist/events"}, "sinyalist-test-3")

	err := p.Connect(context.Background())
	assert.Error(t, err)
}

func TestPublisher_ConnectHonorsReconnectCooldown(t *testing.T) {
	t.Parallel()

	p := NewPublisher(conf.MQTTSettings{Broker: "://not-a-url", Topic: "sinyalist/events"}, "sinyalist-test-4")
	p.config.ReconnectCooldown = time.Hour

	require.Error(t, p.Connect(context.Background()))
	err := p.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too recent")
}

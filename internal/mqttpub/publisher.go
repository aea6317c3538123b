// publisher.go: publishes seismic events to an MQTT broker, with
// automatic reconnect and exponential backoff on connection loss.
package mqttpub

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/burakkonte/sinyalist/internal/conf"
	"github.com/burakkonte/sinyalist/internal/logging"
	"github.com/burakkonte/sinyalist/internal/seismic"
)

// Config holds the connection parameters for a Publisher.
type Config struct {
	Broker            string
	ClientID          string
	Topic             string
	Username          string
	Password          string
	ReconnectCooldown time.Duration
	ReconnectDelay    time.Duration
}

// Publisher publishes SeismicEvent values to an MQTT topic as JSON.
type Publisher struct {
	config          Config
	internalClient  mqtt.Client
	lastConnAttempt time.Time
	mu              sync.Mutex
	reconnectTimer  *time.Timer
	reconnectStop   chan struct{}
}

// eventPayload is the wire shape published to the MQTT topic. It flattens
// seismic.SeismicEvent and adds a human-readable level string, since the
// numeric AlertLevel alone is not self-describing to downstream consumers.
type eventPayload struct {
	ID              string  `json:"id"`
	Level           string  `json:"level"`
	PeakG           float64 `json:"peak_g"`
	StaLtaRatio     float64 `json:"sta_lta_ratio"`
	FreqHz          float64 `json:"freq_hz"`
	EventStartMs    uint64  `json:"event_start_ms"`
	DurationSamples int     `json:"duration_samples"`
}

// NewPublisher builds a Publisher from process settings. It does not
// connect; call Connect separately so the caller controls when the first
// connection attempt happens.
func NewPublisher(settings conf.MQTTSettings, clientID string) *Publisher {
	return &Publisher{
		config: Config{
			Broker:            settings.Broker,
			ClientID:          clientID,
			Topic:             settings.Topic,
			Username:          settings.Username,
			Password:          settings.Password,
			ReconnectCooldown: 5 * time.Second,
			ReconnectDelay:    1 * time.Second,
		},
		reconnectStop: make(chan struct{}),
	}
}

// Connect resolves the broker's hostname and establishes a connection.
func (p *Publisher) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastConnAttempt) < p.config.ReconnectCooldown {
		return fmt.Errorf("connection attempt too recent, last attempt was %v ago", time.Since(p.lastConnAttempt))
	}
	p.lastConnAttempt = time.Now()

	u, err := url.Parse(p.config.Broker)
	if err != nil {
		return fmt.Errorf("invalid broker URL: %w", err)
	}

	host := u.Hostname()
	if net.ParseIP(host) == nil {
		if _, err := net.DefaultResolver.LookupHost(ctx, host); err != nil {
			if dnsErr, ok := err.(*net.DNSError); ok {
				return dnsErr
			}
			return fmt.Errorf("failed to resolve hostname %s: %w", host, err)
		}
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(p.config.Broker)
	opts.SetClientID(p.config.ClientID)
	opts.SetUsername(p.config.Username)
	opts.SetPassword(p.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(p.onConnect)
	opts.SetConnectionLostHandler(p.onConnectionLost)
	opts.SetConnectRetry(true)

	p.internalClient = mqtt.NewClient(opts)

	token := p.internalClient.Connect()
	if !token.WaitTimeout(30 * time.Second) {
		return fmt.Errorf("connection timeout")
	}
	return token.Error()
}

// Publish encodes a SeismicEvent as JSON and publishes it to the
// configured topic.
func (p *Publisher) Publish(ctx context.Context, event seismic.SeismicEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}

	payload, err := json.Marshal(eventPayload{
		ID:              event.ID.String(),
		Level:           event.Level.String(),
		PeakG:           event.PeakG,
		StaLtaRatio:     event.StaLtaRatio,
		FreqHz:          event.FreqHz,
		EventStartMs:    event.EventStartMs,
		DurationSamples: event.DurationSamples,
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	token := p.internalClient.Publish(p.config.Topic, 0, false, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}

// IsConnected reports whether the publisher currently holds a live
// connection to the broker.
func (p *Publisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isConnected()
}

func (p *Publisher) isConnected() bool {
	return p.internalClient != nil && p.internalClient.IsConnected()
}

// Disconnect closes the connection and stops any pending reconnect.
func (p *Publisher) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.internalClient != nil && p.internalClient.IsConnected() {
		p.internalClient.Disconnect(250)
	}
	if p.reconnectTimer != nil {
		p.reconnectTimer.Stop()
	}
	close(p.reconnectStop)
}

func (p *Publisher) onConnect(mqtt.Client) {
	logging.Structured().Info("mqtt connected", "broker", p.config.Broker)
}

func (p *Publisher) onConnectionLost(_ mqtt.Client, err error) {
	logging.Structured().Warn("mqtt connection lost", "broker", p.config.Broker, "error", err)
	p.startReconnectTimer()
}

func (p *Publisher) startReconnectTimer() {
	p.reconnectTimer = time.AfterFunc(p.config.ReconnectDelay, func() {
		select {
		case <-p.reconnectStop:
			return
		default:
			p.reconnectWithBackoff()
		}
	})
}

func (p *Publisher) reconnectWithBackoff() {
	backoff := time.Second
	maxBackoff := 5 * time.Minute

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := p.Connect(ctx)
		cancel()

		if err == nil {
			logging.Structured().Info("mqtt reconnected", "broker", p.config.Broker)
			return
		}

		logging.Structured().Warn("mqtt reconnect failed", "broker", p.config.Broker, "error", err, "retry_in", backoff)

		select {
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		case <-p.reconnectStop:
			return
		}
	}
}

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"renewables-dashboard/internal/config"
	shared "renewables-dashboard/internal/shared/types"
)

// Publisher sends observations to sites/<name>/observations.
type Publisher struct {
	client    mqtt.Client
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewPublisher(cfg config.Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		logger: logger.With("component", "mqtt-publisher"),
		stopCh: make(chan struct{}),
	}
	opts := clientOptions(cfg, cfg.MQTTClientID+"-publisher", p.logger,
		func() { p.setConnected(true) },
		func() { p.setConnected(false) },
	)
	p.client = mqtt.NewClient(opts)
	return p
}

func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return ErrStopped
	default:
	}
	if p.IsConnected() {
		return nil
	}
	return waitConnect(ctx, p.client, p.client.Connect(), p.stopCh)
}

// Publish validates obs and publishes it with QoS 1.
func (p *Publisher) Publish(obs shared.Observation) error {
	if !p.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}
	if obs.Timestamp.IsZero() {
		obs.Timestamp = time.Now().UTC()
	}
	if err := obs.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}

	topic := ObservationTopic(obs.Site)
	token := p.client.Publish(topic, 1, false, data)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish observation: %w", err)
	}

	p.logger.Debug("published observation", "topic", topic, "site", obs.Site)
	return nil
}

func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Disconnect is idempotent. Connect returns ErrStopped afterwards.
func (p *Publisher) Disconnect() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	if p.client != nil {
		p.client.Disconnect(250)
	}
	p.setConnected(false)
	p.logger.Info("mqtt publisher disconnected")
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

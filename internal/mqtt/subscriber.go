package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"renewables-dashboard/internal/config"
	shared "renewables-dashboard/internal/shared/types"
)

// ErrStopped is returned by Connect after Disconnect has been called.
var ErrStopped = errors.New("mqtt client stopped")

// MessageHandler is called for each valid observation.
type MessageHandler func(obs shared.Observation) error

// MQTTSubscriber lets feature modules attach their observation handler.
type MQTTSubscriber interface {
	SetMessageHandler(handler MessageHandler)
}

type Subscriber struct {
	client     mqtt.Client
	cfg        config.Config
	logger     *slog.Logger
	mu         sync.RWMutex
	connected  bool
	subscribed bool
	handler    MessageHandler

	stopCh   chan struct{}
	stopOnce sync.Once
}

func (s *Subscriber) SetMessageHandler(handler MessageHandler) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
}

func NewSubscriber(cfg config.Config, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Subscriber{
		cfg:    cfg,
		logger: logger.With("component", "mqtt-subscriber"),
		stopCh: make(chan struct{}),
	}

	opts := clientOptions(cfg, cfg.MQTTClientID, s.logger,
		func() {
			s.setConnected(true)
			// Clean sessions drop subscriptions on reconnect.
			if s.isSubscribed() {
				go func() {
					if err := s.subscribe(); err != nil {
						s.logger.Error("resubscribe failed", "topic", cfg.MQTTTopic, "error", err)
					}
				}()
			}
		},
		func() { s.setConnected(false) },
	)
	s.client = mqtt.NewClient(opts)
	return s
}

// clientOptions holds the connection settings shared by subscriber and publisher.
func clientOptions(cfg config.Config, clientID string, logger *slog.Logger, onConnect, onLost func()) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		onConnect()
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		onLost()
		logger.Warn("mqtt connection lost", "error", err)
	})
	return opts
}

// waitConnect waits for token in a ctx and stop aware loop.
func waitConnect(ctx context.Context, client mqtt.Client, token mqtt.Token, stopCh <-chan struct{}) error {
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			client.Disconnect(0)
			return ctx.Err()
		case <-stopCh:
			client.Disconnect(0)
			return ErrStopped
		default:
		}
	}
}

// Connect establishes the broker connection and subscribes to the
// configured observation topic.
func (s *Subscriber) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return ErrStopped
	default:
	}

	if s.IsConnected() && s.isSubscribed() {
		return nil
	}

	if err := waitConnect(ctx, s.client, s.client.Connect(), s.stopCh); err != nil {
		return err
	}

	if err := s.subscribe(); err != nil {
		s.client.Disconnect(0)
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

func (s *Subscriber) subscribe() error {
	topic := s.cfg.MQTTTopic
	const qos = byte(1)

	token := s.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	s.mu.Lock()
	s.subscribed = true
	s.mu.Unlock()

	s.logger.Info("subscribed to mqtt topic", "topic", topic, "qos", qos)
	return nil
}

func (s *Subscriber) handleMessage(topic string, payload []byte) {
	s.logger.Debug("received mqtt message", "topic", topic, "size", len(payload))

	obs, err := decodeObservation(topic, payload)
	if err != nil {
		s.logger.Warn("dropping observation", "topic", topic, "error", err)
		return
	}

	s.mu.RLock()
	handler := s.handler
	s.mu.RUnlock()
	if handler == nil {
		return
	}

	if err := handler(obs); err != nil {
		s.logger.Error("message handler failed", "topic", topic, "site", obs.Site, "error", err)
		return
	}
	s.logger.Debug("processed observation", "site", obs.Site, "timestamp", obs.Timestamp)
}

// decodeObservation parses and validates a payload. A payload without a
// site name takes it from the sites/<name>/observations topic.
func decodeObservation(topic string, payload []byte) (shared.Observation, error) {
	var obs shared.Observation
	if err := json.Unmarshal(payload, &obs); err != nil {
		return shared.Observation{}, fmt.Errorf("parse observation: %w", err)
	}
	if obs.Site == "" {
		obs.Site = siteFromTopic(topic)
	}
	if err := obs.Validate(); err != nil {
		return shared.Observation{}, err
	}
	return obs, nil
}

func siteFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) == 3 && parts[0] == "sites" && parts[2] == "observations" {
		return parts[1]
	}
	return ""
}

// ObservationTopic is the topic a site's observations are published on.
func ObservationTopic(site string) string {
	return "sites/" + site + "/observations"
}

func (s *Subscriber) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	return connected && s.client.IsConnected()
}

func (s *Subscriber) isSubscribed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscribed
}

// Disconnect stops the subscriber and closes the connection.
// Idempotent.
func (s *Subscriber) Disconnect() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.client != nil && s.IsConnected() {
		token := s.client.Unsubscribe(s.cfg.MQTTTopic)
		token.WaitTimeout(2 * time.Second)
	}
	if s.client != nil {
		s.client.Disconnect(250)
	}

	s.mu.Lock()
	s.connected = false
	s.subscribed = false
	s.mu.Unlock()
	s.logger.Info("mqtt subscriber disconnected")
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

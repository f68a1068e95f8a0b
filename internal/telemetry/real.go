package telemetry

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
}

// NewRealPublisher creates a publisher for the given broker. The connection
// is established in the background: the tracker usually boots without a
// link, so blocking here would hold up the whole daemon. paho's retry keeps
// attempting until the link manager brings the radio up.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	client.Connect()
	return &RealPublisher{client: client}
}

// PublishPosition sends a position event to the broker.
func (p *RealPublisher) PublishPosition(event PositionEvent) error {
	payload, err := FormatPositionPayload(event)
	if err != nil {
		return fmt.Errorf("format position payload: %w", err)
	}

	// QoS 0 (at-most-once): the durable track log is the record of truth,
	// telemetry is best-effort.
	token := p.client.Publish(TopicPosition, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish position: %w", err)
	}
	return nil
}

// PublishSystem sends a lifecycle event to the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want delivery.
	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the MQTT session is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

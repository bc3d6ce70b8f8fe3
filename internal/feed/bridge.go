// Package feed bridges the reservation system's MQTT event feed into the
// events collection. Upserts land in MongoDB, whose change stream then
// re-delivers snapshots to the live engine.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-status/internal/db"
	"github.com/ukydev/fleet-status/internal/models"
)

const connectTimeout = 10 * time.Second

// Bridge consumes event records from an MQTT topic and upserts them.
type Bridge struct {
	client mqtt.Client
	events db.EventCollection
	topic  string
}

// NewBridge connects to the broker and returns a bridge ready to start.
func NewBridge(brokerURL, clientID, topic string, events db.EventCollection) (*Bridge, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}

	return &Bridge{client: client, events: events, topic: topic}, nil
}

// Start subscribes to the events topic. Malformed or unstorable messages
// are logged and skipped; the feed never takes the service down.
func (b *Bridge) Start(ctx context.Context) error {
	token := b.client.Subscribe(b.topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		var event models.VehicleEvent
		if err := json.Unmarshal(msg.Payload(), &event); err != nil {
			log.WithError(err).WithField("topic", msg.Topic()).Warn("Dropping malformed feed message")
			return
		}
		if event.ID == "" {
			log.WithField("topic", msg.Topic()).Warn("Dropping feed message without event id")
			return
		}
		if err := b.events.UpsertEvent(ctx, event); err != nil {
			log.WithError(err).WithField("event_id", event.ID).Error("Failed to store feed event")
			return
		}
		log.WithFields(log.Fields{
			"event_id":   event.ID,
			"vehicle_id": event.AssignedVehicle,
		}).Debug("Stored feed event")
	})
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt subscribe to %s timed out", b.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe to %s: %w", b.topic, err)
	}

	log.WithField("topic", b.topic).Info("Reservation feed connected")
	return nil
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	b.client.Disconnect(250)
}

package mqtt

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"factory-gpt-service/internal/config"
)

const (
	telemetryQoS   = 1
	handlerTimeout = 10 * time.Second
)

// MessageHandler processes one raw telemetry message.
type MessageHandler func(ctx context.Context, topic string, payload []byte) error

// Subscriber feeds factory telemetry off the MQTT bus into a handler.
// Subscriptions are re-established on every (re)connect, so broker restarts
// only cost the messages published while disconnected.
type Subscriber struct {
	client paho.Client
	topic  string
}

func NewSubscriber(cfg *config.MQTTConfig, handler MessageHandler) (*Subscriber, error) {
	topic := fmt.Sprintf("%s/telemetry/#", cfg.TopicPrefix)

	hostname, _ := os.Hostname()
	clientID := fmt.Sprintf("%s/%s-%d-%d", cfg.ClientIDPrefix, hostname, os.Getpid(), rand.Int())

	onMessage := func(_ paho.Client, msg paho.Message) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		if err := handler(ctx, msg.Topic(), msg.Payload()); err != nil {
			log.WithError(err).WithField("topic", msg.Topic()).Warn("telemetry message dropped")
		}
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(clientID).
		SetCleanSession(true).
		SetAutoReconnect(true)

	opts.SetOnConnectHandler(func(client paho.Client) {
		log.WithField("topic", topic).Info("mqtt connected, subscribing")
		if token := client.Subscribe(topic, telemetryQoS, onMessage); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("mqtt subscribe failed")
		}
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.WithError(err).Warn("mqtt connection lost")
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect mqtt broker: %w", token.Error())
	}

	return &Subscriber{client: client, topic: topic}, nil
}

func (s *Subscriber) Close() {
	s.client.Disconnect(250)
}

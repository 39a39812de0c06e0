package middleware

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Fleet events are published for operator dashboards only. Players
// never subscribe; they learn everything through polling.

var (
	eventMutex  sync.RWMutex
	eventClient mqtt.Client
	brokerURL   = "tcp://0.0.0.0:1883"
)

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// SetBrokerURL allows configuration of the MQTT broker URL.
func SetBrokerURL(url string) {
	brokerURL = url
}

// InitEventFeed connects the publisher. The feed is optional; when the
// broker is unreachable the server runs without it.
func InitEventFeed(clientName string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	eventMutex.Lock()
	eventClient = client
	eventMutex.Unlock()
	return nil
}

// PublishPlayerEvent emits one fleet event on fleet/players/<device_id>/events.
func PublishPlayerEvent(deviceID, event string, fields map[string]any) {
	payload := map[string]any{
		"event":     event,
		"device_id": deviceID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		payload[k] = v
	}
	publish(fmt.Sprintf("fleet/players/%s/events", deviceID), payload)
}

// PublishFleetEvent emits an event on the fleet-wide topic.
func PublishFleetEvent(event string, fields map[string]any) {
	payload := map[string]any{
		"event":     event,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		payload[k] = v
	}
	publish("fleet/events", payload)
}

func publish(topic string, payload map[string]any) {
	eventMutex.RLock()
	client := eventClient
	eventMutex.RUnlock()
	if client == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to encode fleet event")
		return
	}

	token := client.Publish(topic, 0, false, body)
	token.Wait()
	if token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish fleet event")
	}
}

// CleanupEventFeed disconnects the publisher.
func CleanupEventFeed() {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	if eventClient != nil {
		eventClient.Disconnect(250)
		eventClient = nil
	}
}

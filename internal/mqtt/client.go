package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/arjasari/pzemwatch/internal/config"
	"github.com/arjasari/pzemwatch/pkg/pzem"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("pzemwatch_%d", rand.IntN(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:               mqtt.NewClient(opts),
		cfg:                  cfg.MQTT,
		sensorTopicExtractor: sensorTopicExtractor(cfg.MQTT.BaseTopic),
	}
}

type MQTTClient struct {
	client               mqtt.Client
	cfg                  config.MQTTConfig
	sensorTopicExtractor *regexp.Regexp
}

// TelemetryEnvelope is the JSON message the field poller publishes per
// register read. Raw registers arrive as plain JSON numbers; decoding into
// uint16 rejects anything outside the register range before the core ever
// sees it.
type TelemetryEnvelope struct {
	Timestamp     string   `json:"timestamp"`
	DeviceType    string   `json:"device_type"`
	DevicePath    string   `json:"device_path"`
	SlaveID       int      `json:"slave_id"`
	RawRegisters  []uint16 `json:"raw_registers"`
	RegisterCount int      `json:"register_count"`
	Status        string   `json:"status"`
	ErrorMessage  string   `json:"error_message"`
}

// TelemetrySample is one envelope routed to its meter variant.
type TelemetrySample struct {
	Variant  pzem.Variant
	Envelope TelemetryEnvelope
}

// combinedPayload is the shape of the <base>/all topic: one envelope per
// sensor key, absent sensors omitted.
type combinedPayload struct {
	Sensors map[string]*TelemetryEnvelope `json:"sensors"`
}

// Sensor keys as published by the poller. They double as topic suffixes
// under <base>/sensor/.
const (
	SENSOR_KEY_AC_LOAD    = "pzem016_ac"
	SENSOR_KEY_DC_SOLAR   = "pzem017_dc"
	SENSOR_KEY_DC_BATTERY = "pzem017_dc_batt"
)

// VariantForSensorKey maps a sensor key to its meter variant. Non-meter
// sensor keys (dht22 and friends) report false.
func VariantForSensorKey(key string) (pzem.Variant, bool) {
	switch key {
	case SENSOR_KEY_AC_LOAD:
		return pzem.ACLoadMeter, true
	case SENSOR_KEY_DC_SOLAR:
		return pzem.DCSolarMeter, true
	case SENSOR_KEY_DC_BATTERY:
		return pzem.DCBatteryMeter, true
	}
	return "", false
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

// TelemetryTopics are the subscriptions carrying raw register blocks.
func (c *MQTTClient) TelemetryTopics() []string {
	return []string{
		fmt.Sprintf("%s/sensor/+", c.baseTopic()),
		fmt.Sprintf("%s/all", c.baseTopic()),
	}
}

// DecodedStateTopic is where decoded headline values are republished.
func (c *MQTTClient) DecodedStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/decoded/%s/state", c.baseTopic(), sensorId)
}

// ParseTelemetryMessage extracts the meter samples carried by a telemetry
// message. Single-sensor topics yield at most one sample; the combined
// topic can yield one per meter. Messages for non-meter sensors parse to an
// empty result.
func (c *MQTTClient) ParseTelemetryMessage(msg mqtt.Message) ([]TelemetrySample, error) {
	topic := msg.Topic()

	if topic == fmt.Sprintf("%s/all", c.baseTopic()) {
		var combined combinedPayload
		if err := json.Unmarshal(msg.Payload(), &combined); err != nil {
			return nil, fmt.Errorf("invalid combined payload: %w", err)
		}
		var samples []TelemetrySample
		for _, key := range []string{SENSOR_KEY_AC_LOAD, SENSOR_KEY_DC_SOLAR, SENSOR_KEY_DC_BATTERY} {
			env := combined.Sensors[key]
			if env == nil {
				continue
			}
			variant, _ := VariantForSensorKey(key)
			samples = append(samples, TelemetrySample{Variant: variant, Envelope: *env})
		}
		return samples, nil
	}

	matches := c.sensorTopicExtractor.FindAllStringSubmatch(topic, 1)
	if len(matches) == 0 || len(matches[0]) != 2 {
		return nil, errors.New("not a telemetry topic")
	}
	variant, ok := VariantForSensorKey(matches[0][1])
	if !ok {
		// other sensor families share the topic tree, not our concern
		return nil, nil
	}

	var env TelemetryEnvelope
	if err := json.Unmarshal(msg.Payload(), &env); err != nil {
		return nil, fmt.Errorf("invalid telemetry payload: %w", err)
	}
	return []TelemetrySample{{Variant: variant, Envelope: env}}, nil
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.Subscribe(topic, qos, handler)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT subscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

// SubscribeToTelemetryTopics subscribes every telemetry topic and calls the
// continuation once all subscriptions settle, with the first error if any.
func (c *MQTTClient) SubscribeToTelemetryTopics(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	topics := c.TelemetryTopics()
	results := make(chan error, len(topics))
	for _, topic := range topics {
		c.Subscribe(topic, 1, handler, func(err error) {
			results <- err
		}, timeout)
	}
	go func() {
		var firstErr error
		for range topics {
			if err := <-results; err != nil && firstErr == nil {
				firstErr = err
			}
		}
		continuation(firstErr)
	}()
}

func (c *MQTTClient) Unsubscribe(topic string, continuation func(error), timeout time.Duration) {
	token := c.client.Unsubscribe(topic)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT unsubscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func sensorTopicExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/sensor/([a-zA-Z0-9_]+)$", baseTopic))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}

package mqtt

import (
	"testing"

	"github.com/arjasari/pzemwatch/internal/util"
	"github.com/arjasari/pzemwatch/pkg/pzem"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
)

type testMessage struct {
	pahomqtt.Message
	topic   string
	payload []byte
}

func (m testMessage) Topic() string {
	return m.topic
}

func (m testMessage) Payload() []byte {
	return m.payload
}

func testClient(t *testing.T) *MQTTClient {
	t.Helper()
	cfg := util.LoadTestConfig()
	return CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)
}

func TestVariantForSensorKey(t *testing.T) {
	v, ok := VariantForSensorKey("pzem016_ac")
	assert.True(t, ok)
	assert.Equal(t, pzem.ACLoadMeter, v)

	v, ok = VariantForSensorKey("pzem017_dc")
	assert.True(t, ok)
	assert.Equal(t, pzem.DCSolarMeter, v)

	v, ok = VariantForSensorKey("pzem017_dc_batt")
	assert.True(t, ok)
	assert.Equal(t, pzem.DCBatteryMeter, v)

	_, ok = VariantForSensorKey("dht22")
	assert.False(t, ok)
}

func TestTopics(t *testing.T) {
	client := testClient(t)

	assert.Equal(t, "arjasari/bridge/state", client.BridgeStateTopic())
	assert.Equal(t, []string{"arjasari/sensor/+", "arjasari/all"}, client.TelemetryTopics())
	assert.Equal(t, "arjasari/decoded/solar_power/state", client.DecodedStateTopic("solar_power"))
}

func TestParseTelemetryMessageSingleSensor(t *testing.T) {
	client := testClient(t)

	payload := `{
		"timestamp": "2024-11-02T06:30:00",
		"device_type": "PZEM-017_DC",
		"device_path": "/dev/ttyUSB0",
		"slave_id": 1,
		"raw_registers": [7360, 25, 184, 0, 1939, 0, 0, 0],
		"register_count": 8,
		"status": "success",
		"error_message": ""
	}`
	samples, err := client.ParseTelemetryMessage(testMessage{topic: "arjasari/sensor/pzem017_dc", payload: []byte(payload)})
	assert.NoError(t, err)
	if assert.Len(t, samples, 1) {
		assert.Equal(t, pzem.DCSolarMeter, samples[0].Variant)
		assert.Equal(t, []uint16{7360, 25, 184, 0, 1939, 0, 0, 0}, samples[0].Envelope.RawRegisters)
		assert.Equal(t, "/dev/ttyUSB0", samples[0].Envelope.DevicePath)
		assert.Equal(t, 1, samples[0].Envelope.SlaveID)
	}
}

func TestParseTelemetryMessageBatterySuffix(t *testing.T) {
	client := testClient(t)

	// the battery suffix extends the solar suffix, routing must not confuse them
	payload := `{"raw_registers": [1250, 200, 250, 0], "register_count": 4, "status": "success"}`
	samples, err := client.ParseTelemetryMessage(testMessage{topic: "arjasari/sensor/pzem017_dc_batt", payload: []byte(payload)})
	assert.NoError(t, err)
	if assert.Len(t, samples, 1) {
		assert.Equal(t, pzem.DCBatteryMeter, samples[0].Variant)
	}
}

func TestParseTelemetryMessageOtherSensor(t *testing.T) {
	client := testClient(t)

	samples, err := client.ParseTelemetryMessage(testMessage{topic: "arjasari/sensor/dht22", payload: []byte(`{"temperature": 28.5}`)})
	assert.NoError(t, err)
	assert.Empty(t, samples)
}

func TestParseTelemetryMessageCombined(t *testing.T) {
	client := testClient(t)

	payload := `{
		"sensors": {
			"pzem016_ac": {"raw_registers": [2200, 52, 0, 184, 0, 1939], "register_count": 6, "status": "success"},
			"pzem017_dc_batt": {"raw_registers": [1250, 200, 250, 0], "register_count": 4, "status": "success"},
			"dht22": {"status": "success"}
		}
	}`
	samples, err := client.ParseTelemetryMessage(testMessage{topic: "arjasari/all", payload: []byte(payload)})
	assert.NoError(t, err)
	if assert.Len(t, samples, 2) {
		assert.Equal(t, pzem.ACLoadMeter, samples[0].Variant)
		assert.Equal(t, pzem.DCBatteryMeter, samples[1].Variant)
	}
}

func TestParseTelemetryMessageInvalid(t *testing.T) {
	client := testClient(t)

	_, err := client.ParseTelemetryMessage(testMessage{topic: "arjasari/sensor/pzem016_ac", payload: []byte(`not json`)})
	assert.Error(t, err)

	_, err = client.ParseTelemetryMessage(testMessage{topic: "other/topic", payload: []byte(`{}`)})
	assert.Error(t, err)
}

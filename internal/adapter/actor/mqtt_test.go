package actor

import (
	"testing"
	"time"

	"github.com/arjasari/pzemwatch/internal/core/domain"
	"github.com/arjasari/pzemwatch/internal/mqtt"
	"github.com/arjasari/pzemwatch/internal/util"

	"github.com/asynkron/protoactor-go/actor"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
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

func TestDummyMQTTActorHealth(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewTestMQTTActor(&cfg, logger)
	})
	pid, err := context.SpawnNamed(props, "mqtt")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(500 * time.Millisecond)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 5*time.Second).Result()
	assert.NoError(t, err)
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.True(t, healthResp.Healthy)
	assert.Equal(t, domain.ACTOR_ID_MQTT, healthResp.Id)

	context.Stop(pid)
	as.Shutdown()
}

func TestHandleTelemetryMessageLogsParseErrors(t *testing.T) {

	cfg := util.LoadTestConfig()
	core, logs := observer.New(zap.WarnLevel)

	state := NewTestMQTTActor(&cfg, zap.New(core))
	state.client = mqtt.CreateMQTTClient(&cfg, mqtt.OptsFromConfig(&cfg), nil, nil)

	state.handleTelemetryMessage(nil, testMessage{
		topic:   "arjasari/sensor/pzem016_ac",
		payload: []byte(`not json`),
	})

	entries := logs.FilterMessage("mqtt: could not parse telemetry message").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
	}
}

func TestDummyMQTTActorPublishAck(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewTestMQTTActor(&cfg, zap.NewNop())
	})
	pid, err := context.SpawnNamed(props, "mqtt")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(500 * time.Millisecond)

	future := actor.NewFuture(as, 5*time.Second)
	ref := (*domain.ActorRef)(future.PID())
	context.Send(pid, domain.PublishSensorUpdateRequest{
		ActorRequestMixIn: domain.ActorRequestMixIn{ReplyToRef: ref},
		Event: domain.FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
				Id: domain.SENSOR_ID_SOLAR_POWER,
			},
			Value:    18.4,
			Decimals: 1,
		},
	})

	res, err := future.Result()
	assert.NoError(t, err)
	_, ok := res.(domain.PublishSensorUpdateResponse)
	assert.True(t, ok)

	context.Stop(pid)
	as.Shutdown()
}

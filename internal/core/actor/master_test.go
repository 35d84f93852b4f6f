package actor

import (
	"fmt"
	"testing"
	"time"

	adactor "github.com/arjasari/pzemwatch/internal/adapter/actor"
	"github.com/arjasari/pzemwatch/internal/core/domain"
	"github.com/arjasari/pzemwatch/internal/mqtt"
	"github.com/arjasari/pzemwatch/internal/util"
	"github.com/arjasari/pzemwatch/pkg/pzem"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	store := &fakeStore{}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, logger)
		}, store, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorRoutesTelemetry(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	store := &fakeStore{}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, logger)
		}, store, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(1 * time.Second)

	context.Send(pid, adactor.TelemetryReceived{
		Samples: []mqtt.TelemetrySample{
			{
				Variant: pzem.DCBatteryMeter,
				Envelope: mqtt.TelemetryEnvelope{
					RawRegisters: []uint16{1250, 200, 250, 0},
				},
			},
		},
	})

	time.Sleep(1 * time.Second)

	records := store.stored()
	if assert.Len(t, records, 1) {
		assert.Equal(t, pzem.StatusSuccess, records[0].Reading.Status)
		assert.Equal(t, "Discharging to load", records[0].Reading.DCBattery.FlowDirection)
	}

	context.Stop(pid)
	as.Shutdown()
}

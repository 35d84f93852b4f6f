package actor

import (
	"context"
	"fmt"
	"time"

	adactor "github.com/arjasari/pzemwatch/internal/adapter/actor"
	"github.com/arjasari/pzemwatch/internal/config"
	"github.com/arjasari/pzemwatch/internal/core/domain"
	"github.com/arjasari/pzemwatch/internal/core/events"
	"github.com/arjasari/pzemwatch/internal/core/port"
	"github.com/arjasari/pzemwatch/internal/mqtt"
	. "github.com/arjasari/pzemwatch/internal/util/actorutil"
	"github.com/arjasari/pzemwatch/pkg/pzem"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// IngestActor decodes raw telemetry samples, persists the result and
// publishes sensor update events for the MQTT republish.
type IngestActor struct {
	behavior actor.Behavior

	config      *config.Config
	store       port.ReadingStore
	decoder     *pzem.Decoder
	eventStream *eventstream.EventStream

	samplesIngested uint64
	storeErrors     uint64

	logger *zap.Logger
}

func NewIngestActor(config *config.Config, store port.ReadingStore, eventStream *eventstream.EventStream, logger *zap.Logger) *IngestActor {
	act := &IngestActor{
		config:      config,
		store:       store,
		decoder:     pzem.NewDecoder(nil),
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		logger:      ActorLogger(domain.ACTOR_ID_INGEST, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *IngestActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *IngestActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("ingest@default started")
	case domain.ActorHealthRequest:
		state.logger.Debug("ingest@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_INGEST,
			Healthy: true,
			State:   fmt.Sprintf("ingested=%d store_errors=%d", state.samplesIngested, state.storeErrors),
		})
	case adactor.TelemetryReceived:
		state.logger.Debug("ingest@default telemetryReceived", zap.Int("samples", len(msg.Samples)))
		for _, sample := range msg.Samples {
			state.ingestSample(ctx, sample)
		}
	case domain.StoreReadingResponse:
		if msg.HasResponseError() {
			state.storeErrors++
			state.logger.Error("ingest@default could not store reading", zap.Error(msg.GetResponseError()))
		} else {
			state.logger.Debug("ingest@default reading stored", zap.Uint("id", msg.ReadingId))
		}
	default:
		state.logger.Debug("ingest@default ignore", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *IngestActor) ingestSample(ctx actor.Context, sample mqtt.TelemetrySample) {
	reading := state.decoder.Decode(sample.Variant, sample.Envelope.RawRegisters)
	state.samplesIngested++

	if !reading.OK() {
		state.logger.Warn("ingest@default decode failed",
			zap.String("variant", string(sample.Variant)),
			zap.String("error", reading.ErrorMessage))
	}

	// persist every sample, decode failures included
	rec := port.ReadingRecord{
		ReceivedAt: time.Now(),
		DevicePath: sample.Envelope.DevicePath,
		SlaveId:    sample.Envelope.SlaveID,
		Reading:    reading,
	}
	NewBackgroundTask(ctx, func() (*domain.StoreReadingResponse, error) {
		id, err := state.store.AddReading(context.Background(), rec)
		return &domain.StoreReadingResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
			ReadingId: id,
		}, nil
	}).WithTimeout(5 * time.Second).OnError(func(err error) {
		ctx.Send(ctx.Self(), domain.StoreReadingResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		})
	}).PipeTo(ctx.Self())

	// republish decoded values
	for _, ev := range events.ReadingToUpdateEvents(reading) {
		state.eventStream.Publish(ev)
	}
}

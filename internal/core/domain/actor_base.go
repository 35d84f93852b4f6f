package domain

import (
	"github.com/asynkron/protoactor-go/actor"
)

// ActorRef aliases a PID so message structs can name a reply target without
// pulling the actor package into every consumer.
type ActorRef actor.PID

// ActorRequestMixIn is embedded by request messages. When ReplyToRef is set
// the response goes there instead of to the sender, which lets a request be
// forwarded through intermediaries (master routing, futures in tests).
type ActorRequestMixIn struct {
	ReplyToRef *ActorRef
}

type ActorRequest interface {
	ReplyTo() *ActorRef
}

func (r ActorRequestMixIn) ReplyTo() *ActorRef {
	return r.ReplyToRef
}

// ActorResponseMixIn is embedded by response messages and carries the
// operation error, so a handler can match on the concrete response type and
// still check failure uniformly.
type ActorResponseMixIn struct {
	ResponseError error
}

func (r ActorResponseMixIn) GetResponseError() error {
	return r.ResponseError
}

func (r ActorResponseMixIn) HasResponseError() bool {
	return r.ResponseError != nil
}

type ActorResponse interface {
	GetResponseError() error
	HasResponseError() bool
}

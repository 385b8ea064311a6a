// Package dissemination publishes per-instrument market-data flush
// results onto a watermill pub/sub, one topic per instrument, the queue
// a subscriber-facing transport adapter drains independently of the
// matching engine that produced the update (spec section 4.3's
// "dispatches them to every active subscriber").
//
// Grounded on internal/architecture/cqrs/eventbus/watermill_adapter.go's
// WatermillEventBus: a gochannel.GoChannel publisher/subscriber pair
// behind a small wrapper type, narrowed here from an arbitrary
// event-sourcing payload down to one fixed MarketDataUpdate/
// MarketDataSnapshot payload shape and a topic keyed by instrument
// rather than aggregate type.
package dissemination

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/core/marketdata"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

// Config bundles a Publisher's construction-time settings.
type Config struct {
	// TopicPrefix namespaces every published topic, e.g.
	// "marketdata.<instrument_id>". Defaults to "marketdata.".
	TopicPrefix string
	// BufferSize is the gochannel output channel buffer. Defaults to 1000,
	// matching eventbus.DefaultWatermillEventBusConfig.
	BufferSize int
	Logger     *zap.Logger
}

// Publisher fans out FlushResults over an in-process gochannel pub/sub.
// A transport adapter subscribes to an instrument's topic to receive its
// MarketDataUpdate/MarketDataSnapshot traffic independently of whatever
// instrument worker produced it.
type Publisher struct {
	pubSub *gochannel.GoChannel
	prefix string
	logger *zap.Logger
}

// New constructs a Publisher. Callers must call Close when done to
// release the underlying gochannel.
func New(cfg Config) *Publisher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = "marketdata."
	}
	bufferSize := cfg.BufferSize
	if bufferSize == 0 {
		bufferSize = 1000
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: int64(bufferSize),
			Persistent:          false,
		},
		watermill.NopLogger{},
	)

	return &Publisher{pubSub: pubSub, prefix: prefix, logger: logger}
}

// Topic returns the topic name instrument's updates are published to.
func (p *Publisher) Topic(instrument types.InstrumentID) string {
	return fmt.Sprintf("%s%d", p.prefix, instrument)
}

// Subscriber exposes the underlying message.Subscriber half of the
// gochannel, for a transport adapter to subscribe to an instrument's
// topic.
func (p *Publisher) Subscriber() message.Subscriber { return p.pubSub }

// Publish marshals result and publishes it to instrument's topic. A
// result with nothing queued is skipped without publishing an empty
// message.
func (p *Publisher) Publish(instrument types.InstrumentID, result marketdata.FlushResult) error {
	if result.Empty() {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("dissemination: marshal flush result: %w", err)
	}
	msg := message.NewMessage(uuid.New().String(), payload)
	if err := p.pubSub.Publish(p.Topic(instrument), msg); err != nil {
		p.logger.Error("dissemination publish failed",
			zap.Uint64("instrument", uint64(instrument)),
			zap.Error(err))
		return fmt.Errorf("dissemination: publish instrument %d: %w", instrument, err)
	}
	return nil
}

// Close releases the underlying gochannel pub/sub.
func (p *Publisher) Close() error {
	return p.pubSub.Close()
}

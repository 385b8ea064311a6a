package dissemination

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/tradSys/internal/core/marketdata"
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
)

func sampleResult() marketdata.FlushResult {
	return marketdata.FlushResult{
		Updates: []protocol.MarketDataUpdate{{
			Session:    "sess-1",
			RequestID:  "req-1",
			Instrument: 1,
		}},
	}
}

func TestPublisher_PublishDeliversToSubscriber(t *testing.T) {
	pub := New(Config{})
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pub.Subscriber().Subscribe(ctx, pub.Topic(1))
	require.NoError(t, err)

	require.NoError(t, pub.Publish(1, sampleResult()))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Contains(t, string(msg.Payload), "req-1")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestPublisher_PublishSkipsEmptyResult(t *testing.T) {
	pub := New(Config{})
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pub.Subscriber().Subscribe(ctx, pub.Topic(2))
	require.NoError(t, err)

	require.NoError(t, pub.Publish(2, marketdata.FlushResult{}))

	select {
	case <-messages:
		t.Fatal("expected no message for an empty flush result")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublisher_TopicIsPrefixedByInstrument(t *testing.T) {
	pub := New(Config{TopicPrefix: "md."})
	defer pub.Close()

	assert.Equal(t, "md.7", pub.Topic(7))
}

package dissemination

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/tradSys/internal/core/marketdata"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

type sequentialIDs struct{ n int }

func (s *sequentialIDs) Next() string {
	s.n++
	return string(rune('A' - 1 + s.n))
}

func TestLoop_PublishesFlushedTopOfBookOnTick(t *testing.T) {
	instrument := types.InstrumentID(1)
	hub := marketdata.NewHub()
	agg := marketdata.NewAggregator(instrument, &sequentialIDs{})
	hub.Register(instrument, agg)

	session := types.SessionHandle("sess-1")
	require.NoError(t, agg.Registry().Subscribe(&types.Subscription{
		Session:    session,
		RequestID:  "req-1",
		Instrument: instrument,
		EntryTypeMask: map[types.MdEntryType]bool{
			types.MdEntryTypeBid:   true,
			types.MdEntryTypeOffer: true,
		},
		UpdateType: types.MdUpdateTypeIncremental,
	}))

	pub := New(Config{})
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pub.Subscriber().Subscribe(ctx, pub.Topic(instrument))
	require.NoError(t, err)

	agg.UpdateTopOfBook(true, 9.99, 100, true, 10.01, 100)

	loop := NewLoop(LoopConfig{Hub: hub, Publisher: pub, Interval: 10 * time.Millisecond})
	loop.Start()
	defer loop.Stop()

	select {
	case msg := <-messages:
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for loop to publish the queued top-of-book change")
	}
}

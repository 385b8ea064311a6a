package marketdata

import (
	"testing"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SubscribeRejectsDuplicateKey(t *testing.T) {
	r := NewRegistry()
	sub := &types.Subscription{Session: "s1", RequestID: "r1"}
	require.NoError(t, r.Subscribe(sub))
	assert.ErrorIs(t, r.Subscribe(sub), ErrDuplicateRequestID)
}

func TestRegistry_SameRequestIDDifferentSessionAllowed(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Subscribe(&types.Subscription{Session: "s1", RequestID: "r1"}))
	require.NoError(t, r.Subscribe(&types.Subscription{Session: "s2", RequestID: "r1"}))
	assert.Len(t, r.Active(), 2)
}

func TestRegistry_UnsubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Subscribe(&types.Subscription{Session: "s1", RequestID: "r1"}))
	r.Unsubscribe("s1", "r1")
	r.Unsubscribe("s1", "r1")
	assert.Empty(t, r.Active())
}

func TestRegistry_RemoveSessionDropsOnlyThatSession(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Subscribe(&types.Subscription{Session: "s1", RequestID: "r1"}))
	require.NoError(t, r.Subscribe(&types.Subscription{Session: "s1", RequestID: "r2"}))
	require.NoError(t, r.Subscribe(&types.Subscription{Session: "s2", RequestID: "r1"}))

	r.RemoveSession("s1")

	remaining := r.Active()
	require.Len(t, remaining, 1)
	assert.Equal(t, types.SessionHandle("s2"), remaining[0].Session)
}

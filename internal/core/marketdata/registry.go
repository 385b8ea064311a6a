package marketdata

import (
	"sync"

	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

type subKey struct {
	session   types.SessionHandle
	requestID string
}

// Registry tracks Subscription records keyed by (session, request_id)
// for a single instrument (spec section 3: "A session may hold at most
// one subscription per request_id").
type Registry struct {
	mu   sync.Mutex
	subs map[subKey]*types.Subscription
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[subKey]*types.Subscription)}
}

// ErrDuplicateRequestID is returned by Subscribe when the session already
// holds an active subscription under the same request id (spec section
// 4.3: "Duplicate request_id from same session -> MarketDataReject with
// DuplicateMdReqId").
var ErrDuplicateRequestID = duplicateRequestIDError{}

type duplicateRequestIDError struct{}

func (duplicateRequestIDError) Error() string { return "marketdata: duplicate MdReqID for session" }

// Subscribe registers sub. It returns ErrDuplicateRequestID if the
// (session, request_id) pair is already registered.
func (r *Registry) Subscribe(sub *types.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subKey{sub.Session, sub.RequestID}
	if _, exists := r.subs[key]; exists {
		return ErrDuplicateRequestID
	}
	r.subs[key] = sub
	return nil
}

// Unsubscribe drops the registration for (session, requestID), if any.
// Spec section 4.3: "On Unsubscribe: drop registration; send no terminal
// message" - this function intentionally returns nothing to send.
func (r *Registry) Unsubscribe(session types.SessionHandle, requestID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, subKey{session, requestID})
}

// RemoveSession drops every subscription owned by session (spec section
// 5: "Session disconnect cancels all transient subscriptions owned by
// that session").
func (r *Registry) RemoveSession(session types.SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.subs {
		if key.session == session {
			delete(r.subs, key)
		}
	}
}

// Active returns every currently registered subscription. The returned
// slice is a snapshot; mutating it does not affect the registry.
func (r *Registry) Active() []*types.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	return out
}

// Package idgen implements the four identifier-generation contexts of spec
// section 4.4: InstrumentId, OrderId, ExecutionId and MarketEntryId.
//
// Every context is an explicit object owning its own counter state -
// the corpus-wide pattern the teacher enforces in
// internal/architecture/fx/workerpool (a factory owning named pool state
// behind a mutex) rather than the package-level "global mutable state"
// spec section 9 flags as a redesign target. Contexts are not
// thread-safe on their own; callers serialize access, exactly as spec
// section 4.4 requires - in this module that serialization comes for
// free because every context is owned by a single per-instrument or
// per-order engine goroutine (spec section 5).
package idgen

import "errors"

// ErrCollisionDetected is returned once a generation context's counter
// space is exhausted (spec sections 4.4 and 7: "Resource errors").
var ErrCollisionDetected = errors.New("idgen: collision detected, generation context exhausted")

package router

import (
	"errors"
	"time"

	"github.com/abdoElHodaky/tradSys/internal/core/engine"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrWorkerClosed is returned when a task is submitted to an instrument
// whose worker has already been released.
var ErrWorkerClosed = errors.New("router: instrument worker is closed")

// instrumentWorker binds one instrument's Engine to a capacity-one
// ants.Pool so every placement, modification, cancellation, tick and
// phase transition for that instrument executes strictly one at a time,
// in submission order (spec section 5: "a single engine instance is
// single-threaded").
type instrumentWorker struct {
	instrument types.InstrumentID
	engine     *engine.Engine
	pool       *ants.Pool
	logger     *zap.Logger
}

func newInstrumentWorker(id types.InstrumentID, eng *engine.Engine, logger *zap.Logger) (*instrumentWorker, error) {
	w := &instrumentWorker{instrument: id, engine: eng, logger: logger}

	options := &ants.Options{
		PreAlloc:    true,
		Nonblocking: false,
		PanicHandler: func(recovered interface{}) {
			// The task itself already logged and re-panicked (see run
			// below); this is the pool-level backstop that keeps the
			// single goroutine slot alive for the next submission
			// (spec section 7: "recovered only at the top of the
			// per-instrument worker loop to log and re-panic").
			logger.Error("instrument worker recovered a re-panicked task",
				zap.Uint64("instrument", uint64(id)),
				zap.Any("panic", recovered))
		},
	}

	pool, err := ants.NewPool(1, ants.WithOptions(*options))
	if err != nil {
		return nil, err
	}
	w.pool = pool
	return w, nil
}

// run submits fn to the worker's single goroutine slot and blocks until
// it has executed, returning its result. A panic inside fn is logged,
// then re-panicked so the pool's own PanicHandler observes it too; run
// still returns to its caller via the done channel, which fn's deferred
// recover always signals before re-panicking.
func (w *instrumentWorker) run(fn func()) error {
	done := make(chan struct{})
	err := w.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("instrument worker task panicked",
					zap.Uint64("instrument", uint64(w.instrument)),
					zap.Any("panic", r))
				close(done)
				panic(r)
			}
		}()
		fn()
		close(done)
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrWorkerClosed
		}
		return err
	}
	<-done
	return nil
}

func (w *instrumentWorker) release() {
	w.pool.Release()
}

// tickInterval is exposed for callers that want to drive Tick on a
// fixed schedule rather than per external event; the router itself does
// not start a ticker goroutine (that belongs to cmd/simcore's wiring).
const tickInterval = time.Second

// Package reactive implements observable containers and the computations
// that follow them: effects re-run when the keys they read change, computed
// values recompute lazily, watchers fire callbacks, and a job queue batches
// deferred re-runs.
//
// Every piece of state lives in a *ReactiveSystem. A system is strictly
// single-threaded; hosts that need several goroutines create one system per
// goroutine and never share views between them.
package reactive

import (
	"log/slog"
	"unsafe"

	mapset "github.com/deckarep/golang-set/v2"
)

type ErrFn func() error

type OnErrorFunc func(from SignalAware, err error)

type SignalAware interface {
	isSignalAware()
}

type ReactiveSystem struct {
	logger  *slog.Logger
	onError OnErrorFunc

	targets map[unsafe.Pointer]*target

	effectStack []*EffectRunner
	activeScope *effectScope
	shouldTrack bool
	pauseStack  []bool
	nextID      uint64

	batchDepth int
	queue      []Job
	queued     mapset.Set[Job]
	flushing   bool
}

type Option func(*ReactiveSystem)

// WithLogger sets the logger used for readonly diagnostics and for effect
// errors when no OnErrorFunc is installed.
func WithLogger(logger *slog.Logger) Option {
	return func(rs *ReactiveSystem) {
		if logger != nil {
			rs.logger = logger
		}
	}
}

func CreateReactiveSystem(onError OnErrorFunc, opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{
		logger:      slog.Default(),
		onError:     onError,
		targets:     map[unsafe.Pointer]*target{},
		shouldTrack: true,
		queued:      mapset.NewThreadUnsafeSet[Job](),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

func (rs *ReactiveSystem) activeEffect() *EffectRunner {
	if len(rs.effectStack) == 0 {
		return nil
	}
	return rs.effectStack[len(rs.effectStack)-1]
}

func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

// EndBatch closes a batch; closing the outermost one drains the job queue.
func (rs *ReactiveSystem) EndBatch() error {
	if rs.batchDepth == 0 {
		panic("reactive: EndBatch without StartBatch")
	}
	rs.batchDepth--
	if rs.batchDepth == 0 {
		return rs.Flush()
	}
	return nil
}

// Batch runs cb with effect re-runs held back. Effects without a scheduler
// are queued while a batch is open and run once each when the outermost
// batch closes, together with every other queued job. Effects with a
// scheduler, computeds and sync watchers are notified as usual. The
// returned error joins the failures of the drained jobs.
func (rs *ReactiveSystem) Batch(cb func()) (err error) {
	rs.StartBatch()
	defer func() {
		if endErr := rs.EndBatch(); err == nil {
			err = endErr
		}
	}()
	cb()
	return nil
}

// PauseTracking stops reads from registering dependencies until the matching
// ResumeTracking. Pauses nest.
func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.shouldTrack)
	rs.shouldTrack = false
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	if lastIdx < 0 {
		panic("reactive: ResumeTracking without PauseTracking")
	}
	rs.shouldTrack = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

func (rs *ReactiveSystem) handleError(from SignalAware, err error) {
	if err == nil {
		return
	}
	if rs.onError != nil {
		rs.onError(from, err)
		return
	}
	rs.logger.Error("reactive: effect failed", "err", err)
}

func (rs *ReactiveSystem) warnReadonly(op string, key any) {
	rs.logger.Warn("reactive: readonly view refused write", "op", op, "key", key)
}

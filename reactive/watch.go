package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type FlushMode uint8

const (
	// FlushSync runs the callback inside the triggering write.
	FlushSync FlushMode = iota
	// FlushPost queues the callback until the next Flush.
	FlushPost
)

// WatchCallback receives the new and previous getter results. onInvalidate
// registers a function that runs before the next callback, so the consumer
// can ignore results of work started by this one.
type WatchCallback[T any] func(newValue, oldValue T, onInvalidate func(cleanup func()))

type watchConfig struct {
	immediate bool
	flush     FlushMode
}

type WatchOption func(*watchConfig)

func Immediate() WatchOption {
	return func(c *watchConfig) {
		c.immediate = true
	}
}

func WithFlush(mode FlushMode) WatchOption {
	return func(c *watchConfig) {
		c.flush = mode
	}
}

type watcher[T any] struct {
	rs         *ReactiveSystem
	getter     func() T
	cb         WatchCallback[T]
	runner     *EffectRunner
	newValue   T
	oldValue   T
	invalidate func()
}

func (w *watcher[T]) Active() bool {
	return w.runner.Active()
}

// Run is the watcher job: re-read the source, invalidate the previous
// callback, then call the callback.
func (w *watcher[T]) Run() error {
	if !w.runner.Active() {
		return nil
	}
	if err := w.runner.Run(); err != nil {
		return err
	}
	w.fireInvalidate()
	w.call()
	w.oldValue = w.newValue
	return nil
}

// call runs the callback untracked: a sync callback runs inside the writer's
// trigger, and its reads belong to nobody.
func (w *watcher[T]) call() {
	w.rs.PauseTracking()
	defer w.rs.ResumeTracking()
	w.cb(w.newValue, w.oldValue, w.onInvalidate)
}

func (w *watcher[T]) onInvalidate(cleanup func()) {
	w.invalidate = cleanup
}

func (w *watcher[T]) fireInvalidate() {
	if w.invalidate == nil {
		return
	}
	invalidate := w.invalidate
	w.invalidate = nil
	invalidate()
}

func Watch[T any](rs *ReactiveSystem, getter func() T, cb WatchCallback[T], opts ...WatchOption) *EffectRunner {
	cfg := &watchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	w := &watcher[T]{
		rs:     rs,
		getter: getter,
		cb:     cb,
	}
	w.runner = rs.newRunner(
		func() error {
			w.newValue = w.getter()
			return nil
		},
		Lazy(),
		WithScheduler(func(e *EffectRunner) {
			if cfg.flush == FlushPost {
				rs.QueueJob(w)
				return
			}
			if err := w.Run(); err != nil {
				rs.handleError(e, err)
			}
		}),
	)
	w.runner.onStop = w.fireInvalidate

	if cfg.immediate {
		if err := w.Run(); err != nil {
			rs.handleError(w.runner, err)
		}
	} else {
		if err := w.runner.Run(); err != nil {
			rs.handleError(w.runner, err)
		}
		w.oldValue = w.newValue
	}
	return w.runner
}

// WatchDeep watches every nested key reachable from source. The callback
// receives source itself as both values, like a mutated container would.
func WatchDeep(rs *ReactiveSystem, source any, cb WatchCallback[any], opts ...WatchOption) *EffectRunner {
	return Watch(rs, func() any {
		Traverse(source)
		return source
	}, cb, opts...)
}

// Traverse reads every key of v and of every container nested inside it, so
// the active effect depends on the whole subtree.
func Traverse(v any) {
	traverse(v, mapset.NewThreadUnsafeSet[*target]())
}

func traverse(v any, seen mapset.Set[*target]) {
	switch x := v.(type) {
	case *Object:
		if !seen.Add(x.t) {
			return
		}
		for _, k := range x.Keys() {
			traverse(x.Get(k), seen)
		}
	case *Array:
		if !seen.Add(x.t) {
			return
		}
		for i := 0; i < x.Len(); i++ {
			traverse(x.Get(i), seen)
		}
	case *Map:
		if !seen.Add(x.t) {
			return
		}
		for k, val := range x.Entries() {
			traverse(k, seen)
			traverse(val, seen)
		}
	case *Set:
		if !seen.Add(x.t) {
			return
		}
		for val := range x.Values() {
			traverse(val, seen)
		}
	case refLike:
		traverse(x.readValue(), seen)
	}
}

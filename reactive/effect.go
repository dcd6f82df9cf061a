package reactive

// EffectRunner is a tracked computation. Each run drops the dependencies of
// the previous run and records exactly the keys read this time.
type EffectRunner struct {
	rs        *ReactiveSystem
	id        uint64
	fn        ErrFn
	deps      []depSet
	scheduler func(*EffectRunner)
	lazy      bool
	detached  bool
	active    bool
	running   bool
	children  []*EffectRunner
	onStop    func()
}

func (e *EffectRunner) isSignalAware() {}

type EffectOption func(*EffectRunner)

// Lazy skips the initial run; the first Run establishes dependencies.
func Lazy() EffectOption {
	return func(e *EffectRunner) {
		e.lazy = true
	}
}

// detached keeps the runner out of the children of the effect that creates
// it. Computeds outlive the run that created them.
func detached() EffectOption {
	return func(e *EffectRunner) {
		e.detached = true
	}
}

// WithScheduler replaces the synchronous re-run on trigger.
func WithScheduler(scheduler func(*EffectRunner)) EffectOption {
	return func(e *EffectRunner) {
		e.scheduler = scheduler
	}
}

// Deferred queues re-runs on the job queue so several writes before the next
// Flush cause a single run.
func Deferred() EffectOption {
	return WithScheduler(func(e *EffectRunner) {
		e.rs.QueueJob(e)
	})
}

func Effect(rs *ReactiveSystem, fn ErrFn, opts ...EffectOption) *EffectRunner {
	e := rs.newRunner(fn, opts...)
	if !e.lazy {
		if err := e.Run(); err != nil {
			rs.handleError(e, err)
		}
	}
	return e
}

func (rs *ReactiveSystem) newRunner(fn ErrFn, opts ...EffectOption) *EffectRunner {
	rs.nextID++
	e := &EffectRunner{
		rs:     rs,
		id:     rs.nextID,
		fn:     fn,
		active: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	if parent := rs.activeEffect(); parent != nil && !e.detached {
		parent.children = append(parent.children, e)
	} else if rs.activeScope != nil {
		rs.activeScope.effects = append(rs.activeScope.effects, e)
	}
	return e
}

// Run executes the effect body with this runner as the active subscriber.
// A stopped runner runs its body untracked; a runner already on the stack
// is not re-entered.
func (e *EffectRunner) Run() error {
	if !e.active {
		return e.fn()
	}
	if e.running {
		return nil
	}

	rs := e.rs
	e.cleanup()
	e.disposeChildren()

	prevTrack := rs.shouldTrack
	rs.effectStack = append(rs.effectStack, e)
	rs.shouldTrack = true
	e.running = true
	defer func() {
		e.running = false
		rs.shouldTrack = prevTrack
		rs.effectStack = rs.effectStack[:len(rs.effectStack)-1]
	}()

	return e.fn()
}

func (e *EffectRunner) Active() bool {
	return e.active
}

// Stop removes the runner from every dependency set and disposes the
// effects it created. Later triggers skip it.
func (e *EffectRunner) Stop() {
	if !e.active {
		return
	}
	e.cleanup()
	e.disposeChildren()
	e.active = false
	if e.onStop != nil {
		e.onStop()
	}
}

func (e *EffectRunner) schedule() {
	if e.scheduler != nil {
		e.scheduler(e)
		return
	}
	if e.rs.batchDepth > 0 {
		e.rs.QueueJob(e)
		return
	}
	if err := e.Run(); err != nil {
		e.rs.handleError(e, err)
	}
}

func (e *EffectRunner) cleanup() {
	for _, dep := range e.deps {
		dep.Remove(e)
	}
	e.deps = e.deps[:0]
}

func (e *EffectRunner) disposeChildren() {
	children := e.children
	e.children = nil
	for _, child := range children {
		child.Stop()
	}
}

type effectScope struct {
	parent   *effectScope
	effects  []*EffectRunner
	children []*effectScope
	stopped  bool
}

func (s *effectScope) isSignalAware() {}

func (s *effectScope) stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	for _, e := range s.effects {
		e.Stop()
	}
	for _, child := range s.children {
		child.stop()
	}
	s.effects, s.children = nil, nil
}

// EffectScope collects every effect created while scopedFn runs (outside of
// another effect) so they can be stopped together.
func EffectScope(rs *ReactiveSystem, scopedFn ErrFn) (stopScope ErrFn) {
	s := &effectScope{parent: rs.activeScope}
	if s.parent != nil {
		s.parent.children = append(s.parent.children, s)
	}

	prevScope := rs.activeScope
	rs.activeScope = s
	func() {
		defer func() { rs.activeScope = prevScope }()
		if err := scopedFn(); err != nil {
			rs.handleError(s, err)
		}
	}()

	return func() error {
		s.stop()
		return nil
	}
}

package reactive

// ComputedRef caches the result of a getter. A dependency write only marks it
// dirty; the getter runs again on the next Value.
type ComputedRef[T any] struct {
	rs     *ReactiveSystem
	target *target
	runner *EffectRunner
	getter func() T
	value  T
	dirty  bool
}

func (c *ComputedRef[T]) isSignalAware() {}

func Computed[T any](rs *ReactiveSystem, getter func() T) *ComputedRef[T] {
	c := &ComputedRef[T]{
		rs:     rs,
		getter: getter,
		dirty:  true,
	}
	c.target = newTarget(rs, kindComputed, c)
	c.runner = rs.newRunner(
		func() error {
			c.value = c.getter()
			return nil
		},
		Lazy(),
		detached(),
		WithScheduler(func(*EffectRunner) {
			if !c.dirty {
				c.dirty = true
				rs.trigger(c.target, valueKey, OpSet, nil)
			}
		}),
	)
	return c
}

func (c *ComputedRef[T]) Value() T {
	if c.dirty {
		if err := c.runner.Run(); err != nil {
			c.rs.handleError(c, err)
		}
		c.dirty = false
	}
	c.rs.track(c.target, valueKey)
	return c.value
}

// Stop detaches the computed from its dependencies; Value keeps returning
// the last result.
func (c *ComputedRef[T]) Stop() {
	c.runner.Stop()
}

func (c *ComputedRef[T]) readValue() any {
	return c.Value()
}

func (c *ComputedRef[T]) writeValue(any) {
	c.rs.warnReadonly("set", valueKey)
}

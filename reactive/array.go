package reactive

import (
	"fmt"
	"iter"
)

// Array observes a *[]any. Indices are tracked individually and "length"
// stands for the size of the slice.
type Array struct {
	t *target
	wrapConfig
}

func (a *Array) isSignalAware() {}

func (a *Array) Raw() any {
	return a.raw()
}

func (a *Array) raw() *[]any {
	return a.t.raw.(*[]any)
}

func (a *Array) track(key any) {
	if !a.readonly {
		a.t.rs.track(a.t, key)
	}
}

func (a *Array) Get(i int) any {
	a.track(i)
	s := *a.raw()
	if i < 0 || i >= len(s) {
		return nil
	}
	return a.t.child(s[i], a.wrapConfig)
}

func (a *Array) Has(i int) bool {
	a.track(i)
	return i >= 0 && i < len(*a.raw())
}

func (a *Array) Len() int {
	a.track(lengthKey)
	return len(*a.raw())
}

// Set writes index i, growing the slice with nil slots when i is past the end.
func (a *Array) Set(i int, value any) {
	if a.readonly {
		a.t.rs.warnReadonly("set", i)
		return
	}
	a.set(i, ToRaw(value))
}

func (a *Array) set(i int, value any) {
	if i < 0 {
		panic(fmt.Sprintf("reactive: negative array index %d", i))
	}
	raw := a.raw()
	s := *raw
	if i >= len(s) {
		s = append(s, make([]any, i-len(s)+1)...)
		s[i] = value
		*raw = s
		a.t.rs.trigger(a.t, i, OpAdd, value)
		return
	}
	old := s[i]
	s[i] = value
	if !sameValue(old, value) {
		a.t.rs.trigger(a.t, i, OpSet, value)
	}
}

// SetLen truncates or extends the slice. Readers of the removed or added
// indices are notified.
func (a *Array) SetLen(n int) {
	if a.readonly {
		a.t.rs.warnReadonly("set", lengthKey)
		return
	}
	a.setLen(n)
}

func (a *Array) setLen(n int) {
	if n < 0 {
		panic(fmt.Sprintf("reactive: negative array length %d", n))
	}
	raw := a.raw()
	s := *raw
	old := len(s)
	if n == old {
		return
	}
	if n < old {
		clear(s[n:])
		s = s[:n]
	} else {
		s = append(s, make([]any, n-old)...)
	}
	*raw = s
	a.t.rs.trigger(a.t, lengthKey, OpSet, lengthChange{from: old, to: n})
}

// Delete clears slot i to nil without changing the length.
func (a *Array) Delete(i int) bool {
	if a.readonly {
		a.t.rs.warnReadonly("delete", i)
		return false
	}
	s := *a.raw()
	if i < 0 || i >= len(s) {
		return false
	}
	s[i] = nil
	a.t.rs.trigger(a.t, i, OpDelete, nil)
	return true
}

// mutate runs a length-reading mutator untracked: push and friends are
// writes, and tracking their internal length reads makes two effects that
// append to the same array re-run each other forever.
func (a *Array) mutate(op string, fn func()) bool {
	if a.readonly {
		a.t.rs.warnReadonly(op, lengthKey)
		return false
	}
	a.t.rs.PauseTracking()
	defer a.t.rs.ResumeTracking()
	fn()
	return true
}

// rewrite moves the slice to next, notifying only the slots that changed.
func (a *Array) rewrite(next []any) {
	oldLen := len(*a.raw())
	for i, v := range next {
		a.set(i, v)
	}
	if len(next) < oldLen {
		a.setLen(len(next))
	}
}

func (a *Array) Push(values ...any) int {
	a.mutate("push", func() {
		for _, v := range values {
			a.set(len(*a.raw()), ToRaw(v))
		}
	})
	return len(*a.raw())
}

func (a *Array) Pop() any {
	var v any
	a.mutate("pop", func() {
		s := *a.raw()
		if len(s) == 0 {
			return
		}
		v = s[len(s)-1]
		a.setLen(len(s) - 1)
	})
	return a.t.child(v, a.wrapConfig)
}

func (a *Array) Shift() any {
	var v any
	a.mutate("shift", func() {
		s := *a.raw()
		if len(s) == 0 {
			return
		}
		v = s[0]
		next := make([]any, len(s)-1)
		copy(next, s[1:])
		a.rewrite(next)
	})
	return a.t.child(v, a.wrapConfig)
}

func (a *Array) Unshift(values ...any) int {
	a.mutate("unshift", func() {
		s := *a.raw()
		next := make([]any, 0, len(values)+len(s))
		for _, v := range values {
			next = append(next, ToRaw(v))
		}
		next = append(next, s...)
		a.rewrite(next)
	})
	return len(*a.raw())
}

// Splice removes deleteCount elements at start, inserts items there and
// returns the removed elements. A negative start counts from the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	var removed []any
	a.mutate("splice", func() {
		s := *a.raw()
		if start < 0 {
			start = max(len(s)+start, 0)
		}
		start = min(start, len(s))
		deleteCount = min(max(deleteCount, 0), len(s)-start)

		removed = make([]any, deleteCount)
		copy(removed, s[start:start+deleteCount])

		next := make([]any, 0, len(s)-deleteCount+len(items))
		next = append(next, s[:start]...)
		for _, item := range items {
			next = append(next, ToRaw(item))
		}
		next = append(next, s[start+deleteCount:]...)
		a.rewrite(next)
	})
	for i, v := range removed {
		removed[i] = a.t.child(v, a.wrapConfig)
	}
	return removed
}

// IndexOf accepts either a view or its raw container.
func (a *Array) IndexOf(value any) int {
	value = ToRaw(value)
	n := a.Len()
	for i := 0; i < n; i++ {
		a.track(i)
		if sameValue((*a.raw())[i], value) {
			return i
		}
	}
	return -1
}

func (a *Array) LastIndexOf(value any) int {
	value = ToRaw(value)
	for i := a.Len() - 1; i >= 0; i-- {
		a.track(i)
		if sameValue((*a.raw())[i], value) {
			return i
		}
	}
	return -1
}

func (a *Array) Includes(value any) bool {
	return a.IndexOf(value) >= 0
}

// All yields index/value pairs, tracking the length and every index read.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < a.Len(); i++ {
			if !yield(i, a.Get(i)) {
				return
			}
		}
	}
}

// Items returns a snapshot of the elements as read through the view.
func (a *Array) Items() []any {
	n := a.Len()
	items := make([]any, n)
	for i := range items {
		items[i] = a.Get(i)
	}
	return items
}

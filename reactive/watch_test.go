package reactive_test

import (
	"testing"

	"github.com/delaneyj/reactivity/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should call back with the new and previous values
func TestWatchGetter(t *testing.T) {
	rs := newSystem(t)
	state := reactive.Reactive(rs, map[string]any{"count": 1})

	var calls [][2]int
	reactive.Watch(rs, func() int {
		return state.Get("count").(int)
	}, func(newValue, oldValue int, _ func(func())) {
		calls = append(calls, [2]int{newValue, oldValue})
	})
	assert.Empty(t, calls)

	state.Set("count", 2)
	state.Set("count", 5)
	assert.Equal(t, [][2]int{{2, 1}, {5, 2}}, calls)
}

// should fire immediately when asked
func TestWatchImmediate(t *testing.T) {
	rs := newSystem(t)
	count := reactive.NewRef(rs, 1)

	var calls [][2]int
	reactive.Watch(rs, count.Value, func(newValue, oldValue int, _ func(func())) {
		calls = append(calls, [2]int{newValue, oldValue})
	}, reactive.Immediate())
	assert.Equal(t, [][2]int{{1, 0}}, calls)

	count.SetValue(2)
	assert.Equal(t, [][2]int{{1, 0}, {2, 1}}, calls)
}

// should follow every nested key of a deep source
func TestWatchDeep(t *testing.T) {
	rs := newSystem(t)
	state := reactive.Reactive(rs, map[string]any{
		"user": map[string]any{"name": "a"},
		"tags": &[]any{"x"},
	})

	fired := 0
	reactive.WatchDeep(rs, state, func(newValue, oldValue any, _ func(func())) {
		fired++
		assert.Same(t, state, newValue)
	})

	user := state.Get("user").(*reactive.Object)
	user.Set("name", "b")
	assert.Equal(t, 1, fired)

	tags := state.Get("tags").(*reactive.Array)
	tags.Push("y")
	assert.Equal(t, 2, fired)

	state.Set("extra", 1)
	assert.Equal(t, 3, fired)
}

// should defer post-flush callbacks to the next flush
func TestWatchFlushPost(t *testing.T) {
	rs := newSystem(t)
	count := reactive.NewRef(rs, 1)

	var calls [][2]int
	reactive.Watch(rs, count.Value, func(newValue, oldValue int, _ func(func())) {
		calls = append(calls, [2]int{newValue, oldValue})
	}, reactive.WithFlush(reactive.FlushPost))

	count.SetValue(2)
	count.SetValue(3)
	assert.Empty(t, calls)
	assert.Equal(t, 1, rs.Pending())

	require.NoError(t, rs.Flush())
	assert.Equal(t, [][2]int{{3, 1}}, calls)
}

// should invalidate the previous callback before the next one and on stop
func TestWatchOnInvalidate(t *testing.T) {
	rs := newSystem(t)
	count := reactive.NewRef(rs, 1)

	var expired []int
	stop := reactive.Watch(rs, count.Value, func(newValue, _ int, onInvalidate func(func())) {
		onInvalidate(func() {
			expired = append(expired, newValue)
		})
	})

	count.SetValue(2)
	assert.Empty(t, expired)
	count.SetValue(3)
	assert.Equal(t, []int{2}, expired)

	stop.Stop()
	assert.Equal(t, []int{2, 3}, expired)

	count.SetValue(4)
	assert.Equal(t, []int{2, 3}, expired)
}

// should not fire a stopped post-flush watcher
func TestWatchStoppedBeforeFlush(t *testing.T) {
	rs := newSystem(t)
	count := reactive.NewRef(rs, 1)

	fired := 0
	stop := reactive.Watch(rs, count.Value, func(int, int, func(func())) {
		fired++
	}, reactive.WithFlush(reactive.FlushPost))

	count.SetValue(2)
	stop.Stop()
	require.NoError(t, rs.Flush())
	assert.Equal(t, 0, fired)
}

// should not charge reads of a sync callback to the writer
func TestWatchCallbackReadsAreUntracked(t *testing.T) {
	rs := newSystem(t)
	state := reactive.Reactive(rs, map[string]any{"x": 1, "y": 1})

	seen := 0
	reactive.Watch(rs, func() int {
		return state.Get("x").(int)
	}, func(newValue, _ int, _ func(func())) {
		seen = newValue + state.Get("y").(int)
	})

	trig := reactive.NewRef(rs, 0)
	runs := 0
	reactive.Effect(rs, func() error {
		runs++
		state.Set("x", trig.Value()+2)
		return nil
	})
	assert.Equal(t, 1, runs)
	assert.Equal(t, 3, seen)

	state.Set("y", 2)
	assert.Equal(t, 1, runs)
}

package reactive_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/delaneyj/reactivity/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should re-run length readers when an element is appended
func TestArrayLengthTracking(t *testing.T) {
	rs := newSystem(t)
	arr := reactive.ReactiveArray(rs, &[]any{1, 2})

	var lengths []int
	reactive.Effect(rs, func() error {
		lengths = append(lengths, arr.Len())
		return nil
	})

	arr.Set(0, 10)
	assert.Equal(t, []int{2}, lengths)

	arr.Set(2, 3)
	assert.Equal(t, []int{2, 3}, lengths)

	assert.Equal(t, 4, arr.Push(4))
	assert.Equal(t, []int{2, 3, 4}, lengths)
}

// should re-run index readers only for the index written
func TestArrayIndexTracking(t *testing.T) {
	rs := newSystem(t)
	arr := reactive.ReactiveArray(rs, &[]any{"a", "b"})

	runs := 0
	seen := any(nil)
	reactive.Effect(rs, func() error {
		runs++
		seen = arr.Get(1)
		return nil
	})

	arr.Set(0, "x")
	assert.Equal(t, 1, runs)

	arr.Set(1, "y")
	assert.Equal(t, 2, runs)
	assert.Equal(t, "y", seen)

	arr.Set(1, "y")
	assert.Equal(t, 2, runs)
}

// should notify readers of truncated indices
func TestArrayTruncation(t *testing.T) {
	rs := newSystem(t)
	raw := &[]any{"a", "b", "c"}
	arr := reactive.ReactiveArray(rs, raw)

	var seen []any
	reactive.Effect(rs, func() error {
		seen = append(seen, arr.Get(2))
		return nil
	})

	arr.SetLen(3)
	assert.Equal(t, []any{"c"}, seen)

	arr.SetLen(1)
	assert.Equal(t, []any{"c", nil}, seen)
	assert.Len(t, *raw, 1)
}

// should re-run readers of an index past the end once it exists
func TestArrayReadPastEnd(t *testing.T) {
	rs := newSystem(t)
	arr := reactive.ReactiveArray(rs, &[]any{})

	seen := any("unset")
	reactive.Effect(rs, func() error {
		seen = arr.Get(3)
		return nil
	})
	assert.Nil(t, seen)

	arr.Set(3, "d")
	assert.Equal(t, "d", seen)
	assert.Equal(t, 4, arr.Len())
}

// should not make two appending effects re-run each other
func TestArrayPushDoesNotTrackLength(t *testing.T) {
	rs := newSystem(t)
	arr := reactive.ReactiveArray(rs, &[]any{})

	runsA, runsB := 0, 0
	reactive.Effect(rs, func() error {
		runsA++
		arr.Push(1)
		return nil
	})
	reactive.Effect(rs, func() error {
		runsB++
		arr.Push(2)
		return nil
	})

	assert.Equal(t, 1, runsA)
	assert.Equal(t, 1, runsB)
	assert.Equal(t, []any{1, 2}, arr.Items())
}

// should implement the stack and queue mutators
func TestArrayMutators(t *testing.T) {
	rs := newSystem(t)
	raw := &[]any{1, 2, 3}
	arr := reactive.ReactiveArray(rs, raw)

	var lengths []int
	reactive.Effect(rs, func() error {
		lengths = append(lengths, arr.Len())
		return nil
	})

	assert.Equal(t, 3, arr.Pop())
	assert.Equal(t, []any{1, 2}, *raw)

	assert.Equal(t, 1, arr.Shift())
	assert.Equal(t, []any{2}, *raw)

	assert.Equal(t, 3, arr.Unshift(0, 1))
	assert.Equal(t, []any{0, 1, 2}, *raw)

	// unshift appends one slot at a time while moving elements up
	assert.Equal(t, []int{3, 2, 1, 2, 3}, lengths)

	assert.Nil(t, reactive.ReactiveArray(rs, &[]any{}).Pop())
}

// should splice like its namesake
func TestArraySplice(t *testing.T) {
	rs := newSystem(t)
	raw := &[]any{1, 2, 3, 4}
	arr := reactive.ReactiveArray(rs, raw)

	removed := arr.Splice(1, 2, "a")
	assert.Equal(t, []any{2, 3}, removed)
	assert.Equal(t, []any{1, "a", 4}, *raw)

	removed = arr.Splice(-1, 1)
	assert.Equal(t, []any{4}, removed)
	assert.Equal(t, []any{1, "a"}, *raw)

	removed = arr.Splice(1, 0, "b", "c")
	assert.Empty(t, removed)
	assert.Equal(t, []any{1, "b", "c", "a"}, *raw)
}

// should find raw elements by their view
func TestArraySearchAcceptsViews(t *testing.T) {
	rs := newSystem(t)
	item := map[string]any{"id": 1}
	arr := reactive.ReactiveArray(rs, &[]any{"x", item, "x"})

	view := arr.Get(1)
	assert.Same(t, reactive.Reactive(rs, item), view)

	assert.True(t, arr.Includes(view))
	assert.True(t, arr.Includes(item))
	assert.Equal(t, 1, arr.IndexOf(view))
	assert.Equal(t, 0, arr.IndexOf("x"))
	assert.Equal(t, 2, arr.LastIndexOf("x"))
	assert.Equal(t, -1, arr.IndexOf("missing"))
}

// should re-run iteration when elements are appended
func TestArrayAllTracksAppends(t *testing.T) {
	rs := newSystem(t)
	arr := reactive.ReactiveArray(rs, &[]any{1, 2})

	sum := 0
	reactive.Effect(rs, func() error {
		sum = 0
		for _, v := range arr.All() {
			sum += v.(int)
		}
		return nil
	})
	assert.Equal(t, 3, sum)

	arr.Push(3)
	assert.Equal(t, 6, sum)

	arr.Set(0, 10)
	assert.Equal(t, 15, sum)
}

// should refuse mutators on a readonly array
func TestReadonlyArray(t *testing.T) {
	var buf bytes.Buffer
	rs := reactive.CreateReactiveSystem(nil, reactive.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	raw := &[]any{1}
	ro := reactive.ReactiveArray(rs, raw, reactive.ReadOnly())

	assert.Equal(t, 1, ro.Push(2))
	assert.Nil(t, ro.Pop())
	ro.Set(0, 5)
	assert.False(t, ro.Delete(0))
	require.Equal(t, []any{1}, *raw)
	assert.Contains(t, buf.String(), "push")
}

// should notify readers of slots added by growing the length
func TestArrayGrowthNotifiesNewSlots(t *testing.T) {
	rs := newSystem(t)
	arr := reactive.ReactiveArray(rs, &[]any{"a"})

	has := false
	reactive.Effect(rs, func() error {
		has = arr.Has(2)
		return nil
	})
	assert.False(t, has)

	arr.SetLen(3)
	assert.True(t, has)
	assert.Nil(t, arr.Get(2))
}

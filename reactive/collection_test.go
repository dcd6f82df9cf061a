package reactive_test

import (
	"testing"

	"github.com/delaneyj/reactivity/reactive"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

// should track map keys individually
func TestMapGetSetHas(t *testing.T) {
	rs := newSystem(t)
	m := reactive.ReactiveMap(rs, map[any]any{"a": 1})

	var got []any
	has := false
	reactive.Effect(rs, func() error {
		got = append(got, m.Get("a"))
		has = m.Has("b")
		return nil
	})
	assert.Equal(t, []any{1}, got)
	assert.False(t, has)

	m.Set("a", 2)
	assert.Equal(t, []any{1, 2}, got)

	m.Set("b", true)
	assert.True(t, has)

	assert.True(t, m.Delete("b"))
	assert.False(t, has)
	assert.False(t, m.Delete("b"))
}

// should re-run key iteration only when the key set changes
func TestMapKeysVersusValues(t *testing.T) {
	rs := newSystem(t)
	m := reactive.ReactiveMap(rs, map[any]any{"a": 1})

	keyRuns, valueRuns, sizeRuns := 0, 0, 0
	reactive.Effect(rs, func() error {
		keyRuns++
		for range m.Keys() {
		}
		return nil
	})
	reactive.Effect(rs, func() error {
		valueRuns++
		for range m.Values() {
		}
		return nil
	})
	reactive.Effect(rs, func() error {
		sizeRuns++
		m.Size()
		return nil
	})

	m.Set("a", 2)
	assert.Equal(t, 1, keyRuns)
	assert.Equal(t, 2, valueRuns)
	assert.Equal(t, 2, sizeRuns)

	m.Set("b", 1)
	assert.Equal(t, 2, keyRuns)
	assert.Equal(t, 3, valueRuns)

	m.Delete("a")
	assert.Equal(t, 3, keyRuns)
	assert.Equal(t, 4, valueRuns)
}

// should notify nobody when a map value is overwritten with itself
func TestMapSetEqualValue(t *testing.T) {
	rs := newSystem(t)
	m := reactive.ReactiveMap(rs, map[any]any{"a": 1})

	runs := 0
	reactive.Effect(rs, func() error {
		runs++
		m.Get("a")
		for range m.Entries() {
		}
		return nil
	})

	m.Set("a", 1)
	assert.Equal(t, 1, runs)
}

// should notify every reader when a map is cleared
func TestMapClear(t *testing.T) {
	rs := newSystem(t)
	m := reactive.ReactiveMap(rs, map[any]any{"a": 1, "b": 2})

	var seen []any
	reactive.Effect(rs, func() error {
		seen = append(seen, m.Get("a"))
		return nil
	})

	m.Clear()
	assert.Equal(t, []any{1, nil}, seen)
	assert.Equal(t, 0, m.Size())

	m.Clear()
	assert.Len(t, seen, 2)
}

// should wrap nested containers stored in a map
func TestMapNestedContainers(t *testing.T) {
	rs := newSystem(t)
	inner := map[string]any{"n": 1}
	m := reactive.ReactiveMap(rs, map[any]any{"inner": inner})

	total := 0
	reactive.Effect(rs, func() error {
		total = 0
		m.ForEach(func(value, _ any) {
			total += value.(*reactive.Object).Get("n").(int)
		})
		return nil
	})
	assert.Equal(t, 1, total)

	reactive.Reactive(rs, inner).Set("n", 5)
	assert.Equal(t, 5, total)
}

// should track set membership and size
func TestSetOperations(t *testing.T) {
	rs := newSystem(t)
	raw := mapset.NewThreadUnsafeSet[any]("a")
	s := reactive.ReactiveSet(rs, raw)

	has := false
	size := 0
	reactive.Effect(rs, func() error {
		has = s.Has("b")
		return nil
	})
	reactive.Effect(rs, func() error {
		size = s.Size()
		return nil
	})
	assert.False(t, has)
	assert.Equal(t, 1, size)

	assert.True(t, s.Add("b"))
	assert.True(t, has)
	assert.Equal(t, 2, size)

	assert.False(t, s.Add("b"))

	assert.True(t, s.Delete("a"))
	assert.Equal(t, 1, size)
	assert.False(t, s.Delete("a"))

	var members []any
	s.ForEach(func(v any) {
		members = append(members, v)
	})
	assert.Equal(t, []any{"b"}, members)

	s.Clear()
	assert.False(t, has)
	assert.Equal(t, 0, size)
	assert.Equal(t, 0, raw.Cardinality())
}

// should refuse writes on readonly collections
func TestReadonlyCollections(t *testing.T) {
	rs := newSystem(t)
	m := reactive.ReactiveMap(rs, map[any]any{"a": 1}, reactive.ReadOnly())
	m.Set("a", 2)
	m.Clear()
	assert.Equal(t, 1, m.Get("a"))

	s := reactive.ReactiveSet(rs, mapset.NewThreadUnsafeSet[any]("a"), reactive.ReadOnly())
	assert.False(t, s.Add("b"))
	assert.False(t, s.Delete("a"))
	assert.True(t, s.Has("a"))
}

// should key containers by identity in keyed collections
func TestContainerKeys(t *testing.T) {
	rs := newSystem(t)
	keyRaw := map[string]any{"id": 1}
	key := reactive.Reactive(rs, keyRaw)

	m := reactive.ReactiveMap(rs, map[any]any{})
	var got []any
	reactive.Effect(rs, func() error {
		got = append(got, m.Get(keyRaw))
		return nil
	})

	m.Set(key, "a")
	assert.Equal(t, []any{nil, "a"}, got)
	assert.True(t, m.Has(keyRaw))
	assert.Equal(t, "a", m.Get(reactive.Reactive(rs, keyRaw, reactive.ReadOnly())))
	for k := range m.Keys() {
		assert.Same(t, key, k)
	}
	assert.True(t, m.Delete(key))
	assert.Equal(t, 0, m.Size())

	s := reactive.ReactiveSet(rs, mapset.NewThreadUnsafeSet[any]())
	assert.True(t, s.Add(key))
	assert.False(t, s.Add(keyRaw))
	assert.True(t, s.Has(keyRaw))
	assert.Equal(t, 1, s.Size())
	assert.True(t, s.Delete(key))

	// values that are neither hashable nor containers are refused
	assert.False(t, s.Add([]int{1}))
	assert.Nil(t, m.Get(func() {}))
	m.Set([]int{1}, "b")
	assert.Equal(t, 0, m.Size())
}

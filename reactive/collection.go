package reactive

import (
	"fmt"
	"iter"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// memberKey returns the form of v stored as a Map key or Set member. Values
// are stored raw, except containers Go cannot hash: those are keyed by their
// mutable deep view, so the same container always finds the same entry.
func (t *target) memberKey(v any) (any, bool) {
	v = ToRaw(v)
	if hashable(v) {
		return v, true
	}
	if isContainer(v) {
		if ct, err := t.rs.targetOf(v); err == nil {
			return ct.view(wrapConfig{}), true
		}
	}
	t.rs.logger.Warn("reactive: unhashable collection key", "type", fmt.Sprintf("%T", v))
	return nil, false
}

func hashable(v any) (ok bool) {
	if v == nil {
		return true
	}
	if !reflect.TypeOf(v).Comparable() {
		return false
	}
	// comparable structs and arrays may still hold incomparable interfaces
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}

// Map observes a map[any]any. Every method works on the raw map, so reads
// never pass through another view. Iteration order is unspecified.
type Map struct {
	t *target
	wrapConfig
}

func (m *Map) isSignalAware() {}

func (m *Map) Raw() any {
	return m.raw()
}

func (m *Map) raw() map[any]any {
	return m.t.raw.(map[any]any)
}

func (m *Map) track(key any) {
	if !m.readonly {
		m.t.rs.track(m.t, key)
	}
}

func (m *Map) wrap(v any) any {
	return m.t.child(ToRaw(v), m.wrapConfig)
}

func (m *Map) Get(key any) any {
	key, ok := m.t.memberKey(key)
	if !ok {
		return nil
	}
	m.track(key)
	v, ok := m.raw()[key]
	if !ok {
		return nil
	}
	return m.wrap(v)
}

func (m *Map) Has(key any) bool {
	key, ok := m.t.memberKey(key)
	if !ok {
		return false
	}
	m.track(key)
	_, ok = m.raw()[key]
	return ok
}

// Set stores value under key. Overwriting with an equal value notifies
// nobody, iteration readers included.
func (m *Map) Set(key, value any) {
	if m.readonly {
		m.t.rs.warnReadonly("set", key)
		return
	}
	key, ok := m.t.memberKey(key)
	if !ok {
		return
	}
	value = ToRaw(value)
	raw := m.raw()
	old, had := raw[key]
	raw[key] = value
	switch {
	case !had:
		m.t.rs.trigger(m.t, key, OpAdd, value)
	case !sameValue(old, value):
		m.t.rs.trigger(m.t, key, OpSet, value)
	}
}

func (m *Map) Delete(key any) bool {
	if m.readonly {
		m.t.rs.warnReadonly("delete", key)
		return false
	}
	key, ok := m.t.memberKey(key)
	if !ok {
		return false
	}
	raw := m.raw()
	if _, had := raw[key]; !had {
		return false
	}
	delete(raw, key)
	m.t.rs.trigger(m.t, key, OpDelete, nil)
	return true
}

func (m *Map) Clear() {
	if m.readonly {
		m.t.rs.warnReadonly("clear", nil)
		return
	}
	raw := m.raw()
	if len(raw) == 0 {
		return
	}
	clear(raw)
	m.t.rs.trigger(m.t, nil, OpClear, nil)
}

func (m *Map) Size() int {
	m.track(iterateKey)
	return len(m.raw())
}

func (m *Map) ForEach(fn func(value, key any)) {
	for k, v := range m.Entries() {
		fn(v, k)
	}
}

func (m *Map) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		m.track(iterateKey)
		for k, v := range m.raw() {
			if !yield(m.wrap(k), m.wrap(v)) {
				return
			}
		}
	}
}

// Keys depends only on the key set: overwriting a value does not re-run
// readers of Keys.
func (m *Map) Keys() iter.Seq[any] {
	return func(yield func(any) bool) {
		m.track(mapKeyIterateKey)
		for k := range m.raw() {
			if !yield(m.wrap(k)) {
				return
			}
		}
	}
}

func (m *Map) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		m.track(iterateKey)
		for _, v := range m.raw() {
			if !yield(m.wrap(v)) {
				return
			}
		}
	}
}

// Set observes a mapset.Set[any].
type Set struct {
	t *target
	wrapConfig
}

func (s *Set) isSignalAware() {}

func (s *Set) Raw() any {
	return s.raw()
}

func (s *Set) raw() mapset.Set[any] {
	return s.t.raw.(mapset.Set[any])
}

func (s *Set) track(key any) {
	if !s.readonly {
		s.t.rs.track(s.t, key)
	}
}

// Add reports whether value was not yet a member.
func (s *Set) Add(value any) bool {
	if s.readonly {
		s.t.rs.warnReadonly("add", value)
		return false
	}
	value, ok := s.t.memberKey(value)
	if !ok {
		return false
	}
	if !s.raw().Add(value) {
		return false
	}
	s.t.rs.trigger(s.t, value, OpAdd, value)
	return true
}

func (s *Set) Delete(value any) bool {
	if s.readonly {
		s.t.rs.warnReadonly("delete", value)
		return false
	}
	value, ok := s.t.memberKey(value)
	if !ok {
		return false
	}
	raw := s.raw()
	if !raw.Contains(value) {
		return false
	}
	raw.Remove(value)
	s.t.rs.trigger(s.t, value, OpDelete, nil)
	return true
}

func (s *Set) Has(value any) bool {
	value, ok := s.t.memberKey(value)
	if !ok {
		return false
	}
	s.track(value)
	return s.raw().Contains(value)
}

func (s *Set) Clear() {
	if s.readonly {
		s.t.rs.warnReadonly("clear", nil)
		return
	}
	raw := s.raw()
	if raw.Cardinality() == 0 {
		return
	}
	raw.Clear()
	s.t.rs.trigger(s.t, nil, OpClear, nil)
}

func (s *Set) Size() int {
	s.track(iterateKey)
	return s.raw().Cardinality()
}

func (s *Set) ForEach(fn func(value any)) {
	for v := range s.Values() {
		fn(v)
	}
}

// Values iterates over a snapshot of the members.
func (s *Set) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		s.track(iterateKey)
		for _, v := range s.raw().ToSlice() {
			if !yield(s.t.child(ToRaw(v), s.wrapConfig)) {
				return
			}
		}
	}
}

package reactive

import (
	"fmt"
	"math"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// RawKey read through Object.Get returns the raw map behind the view.
const RawKey = "__raw"

// View is an observable rendition of a raw container.
type View interface {
	SignalAware
	Raw() any
	IsReadonly() bool
	IsShallow() bool
}

type wrapConfig struct {
	shallow  bool
	readonly bool
}

func (c wrapConfig) mode() int {
	m := 0
	if c.shallow {
		m |= 1
	}
	if c.readonly {
		m |= 2
	}
	return m
}

func (c wrapConfig) IsReadonly() bool { return c.readonly }
func (c wrapConfig) IsShallow() bool  { return c.shallow }

type WrapOption func(*wrapConfig)

// Shallow returns nested containers as-is instead of wrapping them.
func Shallow() WrapOption {
	return func(c *wrapConfig) {
		c.shallow = true
	}
}

// ReadOnly refuses writes and does not track reads.
func ReadOnly() WrapOption {
	return func(c *wrapConfig) {
		c.readonly = true
	}
}

// Wrap returns the view of raw for the given options. The supported raw
// containers are map[string]any, *[]any, map[any]any and mapset.Set[any].
// Wrapping the same container with the same options returns the same view.
func Wrap(rs *ReactiveSystem, raw any, opts ...WrapOption) (View, error) {
	if v, ok := raw.(View); ok {
		raw = v.Raw()
	}
	cfg := wrapConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	t, err := rs.targetOf(raw)
	if err != nil {
		return nil, err
	}
	return t.view(cfg), nil
}

func mustWrap(rs *ReactiveSystem, raw any, opts []WrapOption) View {
	v, err := Wrap(rs, raw, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func Reactive(rs *ReactiveSystem, raw map[string]any, opts ...WrapOption) *Object {
	return mustWrap(rs, raw, opts).(*Object)
}

func ReactiveArray(rs *ReactiveSystem, raw *[]any, opts ...WrapOption) *Array {
	return mustWrap(rs, raw, opts).(*Array)
}

func ReactiveMap(rs *ReactiveSystem, raw map[any]any, opts ...WrapOption) *Map {
	return mustWrap(rs, raw, opts).(*Map)
}

func ReactiveSet(rs *ReactiveSystem, raw mapset.Set[any], opts ...WrapOption) *Set {
	return mustWrap(rs, raw, opts).(*Set)
}

func (t *target) view(cfg wrapConfig) View {
	m := cfg.mode()
	if v := t.views[m]; v != nil {
		return v
	}
	var v View
	switch t.kind {
	case kindObject:
		v = &Object{t: t, wrapConfig: cfg}
	case kindArray:
		v = &Array{t: t, wrapConfig: cfg}
	case kindMap:
		v = &Map{t: t, wrapConfig: cfg}
	case kindSet:
		v = &Set{t: t, wrapConfig: cfg}
	default:
		panic(fmt.Sprintf("reactive: no view for container kind %d", t.kind))
	}
	t.views[m] = v
	return v
}

// child wraps container values read through a deep view. Children inherit
// readonly but are always deep.
func (t *target) child(v any, cfg wrapConfig) any {
	if cfg.shallow || !isContainer(v) {
		return v
	}
	ct, err := t.rs.targetOf(v)
	if err != nil {
		return v
	}
	return ct.view(wrapConfig{readonly: cfg.readonly})
}

func isContainer(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		return x != nil
	case *[]any:
		return x != nil
	case map[any]any:
		return x != nil
	case mapset.Set[any]:
		return x != nil
	}
	return false
}

// ToRaw returns the container behind a view, or v unchanged.
func ToRaw(v any) any {
	if view, ok := v.(View); ok {
		return view.Raw()
	}
	return v
}

func IsReactive(v any) bool {
	view, ok := v.(View)
	return ok && !view.IsReadonly()
}

func IsReadonly(v any) bool {
	view, ok := v.(View)
	return ok && view.IsReadonly()
}

// sameValue reports whether a write of b over a changes nothing. NaN equals
// NaN; reference kinds compare by identity; functions never compare equal.
func sameValue(a, b any) (same bool) {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok && math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
	case float32:
		if y, ok := b.(float32); ok && math.IsNaN(float64(x)) && math.IsNaN(float64(y)) {
			return true
		}
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	}
	if !ta.Comparable() {
		return false
	}
	// comparable types may still hold incomparable interface fields
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

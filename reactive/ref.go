package reactive

// Ref is a single observable value. It either owns its value (NewRef) or
// forwards to one key of an Object (ToRef).
type Ref[T any] struct {
	rs  *ReactiveSystem
	get func() T
	set func(T)
}

type refLike interface {
	SignalAware
	readValue() any
	writeValue(v any)
}

func (r *Ref[T]) isSignalAware() {}

func NewRef[T any](rs *ReactiveSystem, initial T) *Ref[T] {
	t := newTarget(rs, kindRef, nil)
	value := initial
	return &Ref[T]{
		rs: rs,
		get: func() T {
			rs.track(t, valueKey)
			return value
		},
		set: func(v T) {
			if sameValue(value, v) {
				return
			}
			value = v
			rs.trigger(t, valueKey, OpSet, v)
		},
	}
}

// ToRef links a Ref to key of o: reading the ref reads o, writing it writes o.
func ToRef(o *Object, key string) *Ref[any] {
	return &Ref[any]{
		rs:  o.t.rs,
		get: func() any { return o.Get(key) },
		set: func(v any) { o.Set(key, v) },
	}
}

// ToRefs converts every current key of o into a linked Ref.
func ToRefs(o *Object) map[string]*Ref[any] {
	refs := map[string]*Ref[any]{}
	for _, k := range o.Keys() {
		refs[k] = ToRef(o, k)
	}
	return refs
}

func (r *Ref[T]) Value() T {
	return r.get()
}

func (r *Ref[T]) SetValue(v T) {
	r.set(v)
}

func (r *Ref[T]) readValue() any {
	return r.get()
}

func (r *Ref[T]) writeValue(v any) {
	if v == nil {
		var zero T
		r.set(zero)
		return
	}
	typed, ok := v.(T)
	if !ok {
		r.rs.logger.Warn("reactive: ref write with mismatched type", "value", v)
		return
	}
	r.set(typed)
}

func IsRef(v any) bool {
	_, ok := v.(refLike)
	return ok
}

// RefProxy reads through refs transparently: Get on a ref entry returns the
// ref's value and Set on a ref entry writes into the ref.
type RefProxy struct {
	entries map[string]any
}

func ProxyRefs[V any](entries map[string]V) *RefProxy {
	p := &RefProxy{entries: make(map[string]any, len(entries))}
	for k, v := range entries {
		p.entries[k] = v
	}
	return p
}

func (p *RefProxy) Get(key string) any {
	v := p.entries[key]
	if r, ok := v.(refLike); ok {
		return r.readValue()
	}
	return v
}

func (p *RefProxy) Set(key string, v any) {
	if r, ok := p.entries[key].(refLike); ok {
		r.writeValue(v)
		return
	}
	p.entries[key] = v
}

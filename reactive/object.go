package reactive

import (
	"iter"
	"slices"
)

// Object observes a map[string]any.
type Object struct {
	t *target
	wrapConfig
}

func (o *Object) isSignalAware() {}

func (o *Object) Raw() any {
	return o.raw()
}

func (o *Object) raw() map[string]any {
	return o.t.raw.(map[string]any)
}

func (o *Object) track(key any) {
	if !o.readonly {
		o.t.rs.track(o.t, key)
	}
}

// Get returns the value under key, wrapping nested containers. Get(RawKey)
// returns the raw map.
func (o *Object) Get(key string) any {
	if key == RawKey {
		return o.raw()
	}
	v := o.raw()[key]
	o.track(key)
	return o.t.child(v, o.wrapConfig)
}

func (o *Object) Has(key string) bool {
	o.track(key)
	_, ok := o.raw()[key]
	return ok
}

func (o *Object) Set(key string, value any) {
	if o.readonly {
		o.t.rs.warnReadonly("set", key)
		return
	}
	raw := o.raw()
	value = ToRaw(value)
	old, had := raw[key]
	raw[key] = value
	switch {
	case !had:
		o.t.rs.trigger(o.t, key, OpAdd, value)
	case !sameValue(old, value):
		o.t.rs.trigger(o.t, key, OpSet, value)
	}
}

// Delete reports whether key was present and removed.
func (o *Object) Delete(key string) bool {
	if o.readonly {
		o.t.rs.warnReadonly("delete", key)
		return false
	}
	raw := o.raw()
	if _, had := raw[key]; !had {
		return false
	}
	delete(raw, key)
	o.t.rs.trigger(o.t, key, OpDelete, nil)
	return true
}

// Keys lists the own keys in sorted order.
func (o *Object) Keys() []string {
	o.track(iterateKey)
	keys := make([]string, 0, len(o.raw()))
	for k := range o.raw() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (o *Object) Len() int {
	o.track(iterateKey)
	return len(o.raw())
}

// All yields every key in sorted order together with its value.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.Keys() {
			if !yield(k, o.Get(k)) {
				return
			}
		}
	}
}

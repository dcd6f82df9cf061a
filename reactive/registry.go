package reactive

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
)

var ErrUnsupportedContainer = errors.New("reactive: unsupported container")

type containerKind uint8

const (
	kindObject containerKind = iota
	kindArray
	kindMap
	kindSet
	kindComputed
	kindRef
)

type TriggerOp uint8

const (
	OpSet TriggerOp = iota
	OpAdd
	OpDelete
	OpClear
)

func (op TriggerOp) String() string {
	switch op {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	default:
		return fmt.Sprintf("TriggerOp(%d)", uint8(op))
	}
}

// marker keys never collide with user keys: the type is unexported.
type marker uint64

var (
	iterateKey       = marker(xxhash.Sum64String("reactive.iterate"))
	mapKeyIterateKey = marker(xxhash.Sum64String("reactive.map-key-iterate"))
)

const (
	lengthKey = "length"
	valueKey  = "value"
)

type depSet = mapset.Set[*EffectRunner]

// lengthChange is the trigger payload of an array length write.
type lengthChange struct {
	from, to int
}

// affects reports whether index idx appeared or disappeared.
func (lc lengthChange) affects(idx int) bool {
	if lc.to < lc.from {
		return idx >= lc.to
	}
	return idx >= lc.from && idx < lc.to
}

const viewModes = 4

// target is the registry entry for one observed container.
type target struct {
	rs    *ReactiveSystem
	kind  containerKind
	raw   any
	deps  map[any]depSet
	views [viewModes]View
}

func newTarget(rs *ReactiveSystem, kind containerKind, raw any) *target {
	return &target{
		rs:   rs,
		kind: kind,
		raw:  raw,
		deps: map[any]depSet{},
	}
}

func identityOf(raw any) (unsafe.Pointer, containerKind, error) {
	var kind containerKind
	switch raw.(type) {
	case map[string]any:
		kind = kindObject
	case *[]any:
		kind = kindArray
	case map[any]any:
		kind = kindMap
	case mapset.Set[any]:
		kind = kindSet
	default:
		return nil, 0, fmt.Errorf("%w: %T", ErrUnsupportedContainer, raw)
	}
	v := reflect.ValueOf(raw)
	if v.IsNil() {
		return nil, 0, fmt.Errorf("%w: nil %T", ErrUnsupportedContainer, raw)
	}
	return v.UnsafePointer(), kind, nil
}

func (rs *ReactiveSystem) targetOf(raw any) (*target, error) {
	id, kind, err := identityOf(raw)
	if err != nil {
		return nil, err
	}
	if t, ok := rs.targets[id]; ok {
		return t, nil
	}
	t := newTarget(rs, kind, raw)
	rs.targets[id] = t
	return t, nil
}

// Release drops the registry entry for raw. Views obtained before the call
// keep working against the detached entry; a later Wrap starts fresh.
func (rs *ReactiveSystem) Release(raw any) {
	if v, ok := raw.(View); ok {
		raw = v.Raw()
	}
	id, _, err := identityOf(raw)
	if err != nil {
		return
	}
	t, ok := rs.targets[id]
	if !ok {
		return
	}
	for _, dep := range t.deps {
		dep.Clear()
	}
	delete(rs.targets, id)
}

func (rs *ReactiveSystem) track(t *target, key any) {
	e := rs.activeEffect()
	if e == nil || !rs.shouldTrack {
		return
	}
	dep, ok := t.deps[key]
	if !ok {
		dep = mapset.NewThreadUnsafeSet[*EffectRunner]()
		t.deps[key] = dep
	}
	if dep.Add(e) {
		e.deps = append(e.deps, dep)
	}
}

func (rs *ReactiveSystem) trigger(t *target, key any, op TriggerOp, newValue any) {
	if len(t.deps) == 0 {
		return
	}

	active := rs.activeEffect()
	toRun := mapset.NewThreadUnsafeSet[*EffectRunner]()
	collect := func(dep depSet) {
		if dep == nil {
			return
		}
		dep.Each(func(e *EffectRunner) bool {
			if e != active && e.active {
				toRun.Add(e)
			}
			return false
		})
	}

	if op == OpClear {
		for _, dep := range t.deps {
			collect(dep)
		}
	} else {
		collect(t.deps[key])

		structural := op == OpAdd || op == OpDelete
		switch t.kind {
		case kindArray:
			if op == OpAdd {
				collect(t.deps[lengthKey])
			}
			if lc, ok := newValue.(lengthChange); ok && key == lengthKey {
				for k, dep := range t.deps {
					if idx, ok := k.(int); ok && lc.affects(idx) {
						collect(dep)
					}
				}
			}
		case kindMap:
			if structural || op == OpSet {
				collect(t.deps[iterateKey])
			}
			if structural {
				collect(t.deps[mapKeyIterateKey])
			}
		default:
			if structural {
				collect(t.deps[iterateKey])
			}
		}
	}

	runs := toRun.ToSlice()
	slices.SortFunc(runs, func(a, b *EffectRunner) int {
		return cmp.Compare(a.id, b.id)
	})
	for _, e := range runs {
		// an earlier run may have stopped this one
		if e.active {
			e.schedule()
		}
	}
}

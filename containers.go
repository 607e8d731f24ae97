package cel

import (
	"reflect"
)

// -----------------------------------------------------------------------
// List
// -----------------------------------------------------------------------

// List is an immutable, insertion-ordered sequence of values (spec.md §3:
// "Lists... are immutable once constructed; literal construction
// preserves insertion order").
type List struct {
	elems []Value
}

// NewList builds a List from already-constructed elements. Callers that
// build a literal must not mutate elems afterward.
func NewList(elems []Value) *List { return &List{elems: elems} }

func (l *List) Type() *Type   { return ListTypeDyn }
func (l *List) Traits() Trait { return TraitIndexer | TraitContainer | TraitSizer | TraitIterable | TraitAdder }
func (l *List) String() string { return "<list>" }
func (l *List) Len() int       { return len(l.elems) }
func (l *List) Elements() []Value {
	return l.elems
}

func (l *List) Equal(o Value) Value {
	if r, ok := propagate(l, o); ok {
		return r
	}
	ol, ok := o.(*List)
	if !ok {
		return Bool(false)
	}
	if len(l.elems) != len(ol.elems) {
		return Bool(false)
	}
	for i, e := range l.elems {
		r := e.Equal(ol.elems[i])
		if isErrorOrUnknown(r) {
			return r
		}
		if !bool(r.(Bool)) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func (l *List) ConvertToType(t *Type) Value {
	switch t.Kind {
	case ListKind:
		return l
	case TypeKind:
		return TypeVal(ListTypeDyn)
	default:
		return NewTypeConversionError(ListTypeDyn, t)
	}
}

func (l *List) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if rt.Kind() != reflect.Slice && rt.Kind() != reflect.Interface {
		return nil, NewTypeConversionError(ListTypeDyn, nil).asGoError()
	}
	out := make([]interface{}, len(l.elems))
	for i, e := range l.elems {
		out[i] = e
	}
	return out, nil
}

func (l *List) Get(index Value) Value {
	i, ok := index.(Int)
	if !ok {
		return NewNoSuchOverloadError("index", l, index)
	}
	if int64(i) < 0 || int64(i) >= int64(len(l.elems)) {
		return NewRangeError(int64(i), "list index")
	}
	return l.elems[i]
}

func (l *List) Size() Value { return Int(len(l.elems)) }

// Contains implements `x in list`. An error from an element comparison
// is held while the scan continues; a true match anywhere returns true,
// and otherwise the first error propagates, matching spec.md §4.1: "errors inside L are absorbed to false only if
// a true match is found elsewhere; otherwise the first error propagates."
func (l *List) Contains(elem Value) Value {
	if isErrorOrUnknown(elem) {
		return elem
	}
	var firstErr Value
	for _, e := range l.elems {
		r := elem.Equal(e)
		if isErrorOrUnknown(r) {
			if firstErr == nil {
				firstErr = r
			}
			continue
		}
		if bool(r.(Bool)) {
			return Bool(true)
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return Bool(false)
}

// Add implements list concatenation (`+`), preserving insertion order.
func (l *List) Add(o Value) Value {
	if r, ok := propagate(l, o); ok {
		return r
	}
	ol, ok := o.(*List)
	if !ok {
		return NewNoSuchOverloadError("add", l, o)
	}
	out := make([]Value, 0, len(l.elems)+len(ol.elems))
	out = append(out, l.elems...)
	out = append(out, ol.elems...)
	return NewList(out)
}

type listIterator struct {
	l   *List
	pos int
}

func (it *listIterator) HasNext() bool { return it.pos < len(it.l.elems) }
func (it *listIterator) Next() Value {
	v := it.l.elems[it.pos]
	it.pos++
	return v
}

func (l *List) Iterator() Iterator { return &listIterator{l: l} }

// -----------------------------------------------------------------------
// Map
// -----------------------------------------------------------------------

// mapKey canonicalizes a CEL map key (bool, int, uint, or string, per
// spec.md §3) into a comparable Go value usable as a native map key.
type mapKey struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	s    string
}

func toMapKey(v Value) (mapKey, *Error) {
	switch k := v.(type) {
	case Bool:
		return mapKey{kind: BoolKind, b: bool(k)}, nil
	case Int:
		return mapKey{kind: IntKind, i: int64(k)}, nil
	case Uint:
		return mapKey{kind: UintKind, u: uint64(k)}, nil
	case String:
		return mapKey{kind: StringKind, s: string(k)}, nil
	default:
		return mapKey{}, NewInvalidArgumentError("unsupported map key type: " + v.Type().String())
	}
}

func keyToValue(k mapKey) Value {
	switch k.kind {
	case BoolKind:
		return Bool(k.b)
	case IntKind:
		return Int(k.i)
	case UintKind:
		return Uint(k.u)
	default:
		return String(k.s)
	}
}

// Map is an immutable, insertion-ordered map (spec.md §3/§4.1).
type Map struct {
	keys   []mapKey
	values map[mapKey]Value
}

// NewMap builds a Map preserving the given key order. A repeated key
// yields a duplicate_key error (spec.md §5), which the CreateMap
// interpretable returns as its value.
func NewMap(keys []Value, values []Value) (*Map, *Error) {
	m := &Map{values: make(map[mapKey]Value, len(keys))}
	for i, kv := range keys {
		mk, err := toMapKey(kv)
		if err != nil {
			return nil, err
		}
		if _, exists := m.values[mk]; exists {
			return nil, NewDuplicateKeyError(kv)
		}
		m.keys = append(m.keys, mk)
		m.values[mk] = values[i]
	}
	return m, nil
}

func (m *Map) Type() *Type   { return MapTypeDyn }
func (m *Map) Traits() Trait { return TraitIndexer | TraitContainer | TraitSizer | TraitIterable }
func (m *Map) String() string { return "<map>" }
func (m *Map) Len() int       { return len(m.keys) }

// Keys returns the map's keys as Values, in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, len(m.keys))
	for i, k := range m.keys {
		out[i] = keyToValue(k)
	}
	return out
}

// Find looks up key and reports whether it was present, without raising
// no_such_attribute on a miss; Get builds on it and turns a miss into
// that error.
func (m *Map) Find(key Value) (Value, bool) {
	mk, err := toMapKey(key)
	if err != nil {
		return err, true
	}
	v, ok := m.values[mk]
	return v, ok
}

func (m *Map) Equal(o Value) Value {
	if r, ok := propagate(m, o); ok {
		return r
	}
	om, ok := o.(*Map)
	if !ok {
		return Bool(false)
	}
	if len(m.keys) != len(om.keys) {
		return Bool(false)
	}
	for _, k := range m.keys {
		ov, ok := om.values[k]
		if !ok {
			return Bool(false)
		}
		r := m.values[k].Equal(ov)
		if isErrorOrUnknown(r) {
			return r
		}
		if !bool(r.(Bool)) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func (m *Map) ConvertToType(t *Type) Value {
	switch t.Kind {
	case MapKind:
		return m
	case TypeKind:
		return TypeVal(MapTypeDyn)
	default:
		return NewTypeConversionError(MapTypeDyn, t)
	}
}

func (m *Map) ConvertToNative(rt reflect.Type) (interface{}, error) {
	if rt.Kind() != reflect.Map && rt.Kind() != reflect.Interface {
		return nil, NewTypeConversionError(MapTypeDyn, nil).asGoError()
	}
	out := make(map[interface{}]interface{}, len(m.keys))
	for _, k := range m.keys {
		out[keyToValue(k)] = m.values[k]
	}
	return out, nil
}

func (m *Map) Get(index Value) Value {
	v, ok := m.Find(index)
	if !ok {
		return NewNoSuchAttributeError(index.String())
	}
	return v
}

// Contains implements `x in map` (key membership).
func (m *Map) Contains(elem Value) Value {
	if isErrorOrUnknown(elem) {
		return elem
	}
	mk, err := toMapKey(elem)
	if err != nil {
		return Bool(false)
	}
	_, ok := m.values[mk]
	return Bool(ok)
}

func (m *Map) Size() Value { return Int(len(m.keys)) }

type mapIterator struct {
	m   *Map
	pos int
}

func (it *mapIterator) HasNext() bool { return it.pos < len(it.m.keys) }
func (it *mapIterator) Next() Value {
	k := it.m.keys[it.pos]
	it.pos++
	return keyToValue(k)
}

func (m *Map) Iterator() Iterator { return &mapIterator{m: m} }

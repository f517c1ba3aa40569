// Package valuetree implements the typed value tree used for every rule's
// associated data: unsigned integers (32/64/128-bit), a signed 32-bit
// integer, a double, UTF-8 strings, byte strings, booleans, arrays, and
// maps from UTF-8 string to value.
//
// Encoder.Put serializes a Value into a byte buffer with structural
// deduplication: an identical string, byte string, array, or map is written
// once and referenced everywhere else via a pointer record. Decode and
// Navigate read the encoded form back out, transparently following pointer
// records.
package valuetree

import "math"

// Kind identifies which arm of the discriminated union a Value holds.
type Kind int

const (
	KindUint32 Kind = iota
	KindUint64
	KindUint128
	KindInt32
	KindDouble
	KindString
	KindBytes
	KindBool
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindUint128:
		return "uint128"
	case KindInt32:
		return "int32"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// MapEntry is one key/value pair of a Map value. Entries are kept in
// insertion order; Value's equality and encoding both respect that order,
// per the round-trip guarantee (map key order is otherwise undefined).
type MapEntry struct {
	Key string
	Val Value
}

// Value is an immutable node in the typed value tree.
type Value struct {
	kind Kind

	u32    uint32
	u64    uint64
	u128hi uint64
	u128lo uint64
	i32    int32
	f64    float64
	b      bool
	str    string
	bytes  []byte
	arr    []Value
	m      []MapEntry
}

func Uint32(v uint32) Value  { return Value{kind: KindUint32, u32: v} }
func Uint64(v uint64) Value  { return Value{kind: KindUint64, u64: v} }
func Int32(v int32) Value    { return Value{kind: KindInt32, i32: v} }
func Double(v float64) Value { return Value{kind: KindDouble, f64: v} }
func Bool(v bool) Value      { return Value{kind: KindBool, b: v} }
func String(v string) Value  { return Value{kind: KindString, str: v} }

// Bytes copies v so the returned Value does not alias caller-owned memory.
func Bytes(v []byte) Value {
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{kind: KindBytes, bytes: cp}
}

// Uint128 constructs a 128-bit unsigned integer from its high and low
// 64-bit halves.
func Uint128(hi, lo uint64) Value { return Value{kind: KindUint128, u128hi: hi, u128lo: lo} }

// Array constructs an array value from its elements, copied by value.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, arr: cp}
}

// Map constructs a map value from its entries, preserving insertion order.
func Map(entries ...MapEntry) Value {
	cp := make([]MapEntry, len(entries))
	copy(cp, entries)
	return Value{kind: KindMap, m: cp}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsUint32() (uint32, bool)     { return v.u32, v.kind == KindUint32 }
func (v Value) AsUint64() (uint64, bool)     { return v.u64, v.kind == KindUint64 }
func (v Value) AsUint128() (hi, lo uint64, ok bool) {
	return v.u128hi, v.u128lo, v.kind == KindUint128
}
func (v Value) AsInt32() (int32, bool)   { return v.i32, v.kind == KindInt32 }
func (v Value) AsDouble() (float64, bool) { return v.f64, v.kind == KindDouble }
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }
func (v Value) AsBytes() ([]byte, bool)  { return v.bytes, v.kind == KindBytes }
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }
func (v Value) AsMap() ([]MapEntry, bool) { return v.m, v.kind == KindMap }

// Equal reports structural equality. Map key order is significant here only
// insofar as both sides must agree key-for-key at each position; callers
// wanting order-independent map equality should sort entries before
// comparing (the encoding guarantees insertion-order round-trip, not
// canonical ordering).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUint32:
		return v.u32 == o.u32
	case KindUint64:
		return v.u64 == o.u64
	case KindUint128:
		return v.u128hi == o.u128hi && v.u128lo == o.u128lo
	case KindInt32:
		return v.i32 == o.i32
	case KindDouble:
		return v.f64 == o.f64 || (math.IsNaN(v.f64) && math.IsNaN(o.f64))
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.str == o.str
	case KindBytes:
		if len(v.bytes) != len(o.bytes) {
			return false
		}
		for i := range v.bytes {
			if v.bytes[i] != o.bytes[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for i := range v.m {
			if v.m[i].Key != o.m[i].Key || !v.m[i].Val.Equal(o.m[i].Val) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

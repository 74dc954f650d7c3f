// Package value implements the dynamically typed tree that every archive
// reads from or writes to. A Value is a tagged union; its kind is fixed at
// construction and never changes.
package value

import (
	"bytes"
	"encoding/hex"
	"math"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindUint64
	KindDouble
	KindString
	KindBinary
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt64:  "int64",
	KindUint64: "uint64",
	KindDouble: "double",
	KindString: "string",
	KindBinary: "binary",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

type member struct {
	key   string
	value *Value
}

// Value is a node of the tree. Only the payload matching kind is valid.
type Value struct {
	kind Kind

	b   bool
	i   int64
	u   uint64
	f   float64
	s   string
	bin []byte

	arr     []*Value
	members []member
	index   map[string]int
}

func Null() *Value            { return &Value{kind: KindNull} }
func Bool(b bool) *Value      { return &Value{kind: KindBool, b: b} }
func Int64(i int64) *Value    { return &Value{kind: KindInt64, i: i} }
func Uint64(u uint64) *Value  { return &Value{kind: KindUint64, u: u} }
func Double(f float64) *Value { return &Value{kind: KindDouble, f: f} }
func String(s string) *Value  { return &Value{kind: KindString, s: s} }
func Binary(b []byte) *Value  { return &Value{kind: KindBinary, bin: b} }
func NewArray() *Value        { return &Value{kind: KindArray, arr: []*Value{}} }
func NewObject() *Value       { return &Value{kind: KindObject, index: map[string]int{}} }

func (v *Value) Kind() Kind     { return v.kind }
func (v *Value) IsNull() bool   { return v.kind == KindNull }
func (v *Value) IsArray() bool  { return v.kind == KindArray }
func (v *Value) IsObject() bool { return v.kind == KindObject }

// Len returns the element count of an array or the member count of an
// object, and 0 for every other kind.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Index returns the i-th element of an array. ok is false for a non-array
// or an out of range position.
func (v *Value) Index(i int) (elem *Value, ok bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nil, false
	}
	return v.arr[i], true
}

// Get returns the member stored under key. ok is false for a non-object or
// a missing key.
func (v *Value) Get(key string) (elem *Value, ok bool) {
	if v.kind != KindObject {
		return nil, false
	}
	pos, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.members[pos].value, true
}

// Keys returns object keys in stored order.
func (v *Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.key
	}
	return keys
}

// Append adds elem to the end of an array. It panics on any other kind.
func (v *Value) Append(elem *Value) {
	if v.kind != KindArray {
		panic("value: Append on " + v.kind.String())
	}
	v.arr = append(v.arr, elem)
}

// Set stores elem under key. An existing member is replaced in place, so
// the last write wins while the first position is kept. It panics on any
// kind other than object.
func (v *Value) Set(key string, elem *Value) {
	if v.kind != KindObject {
		panic("value: Set on " + v.kind.String())
	}
	if pos, ok := v.index[key]; ok {
		v.members[pos].value = elem
		return
	}
	v.index[key] = len(v.members)
	v.members = append(v.members, member{key: key, value: elem})
}

func (v *Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt64 accepts both integer kinds; an unsigned payload is reinterpreted
// as two's complement.
func (v *Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt64:
		return v.i, true
	case KindUint64:
		return int64(v.u), true
	}
	return 0, false
}

// AsUint64 accepts both integer kinds; a negative payload wraps around.
func (v *Value) AsUint64() (uint64, bool) {
	switch v.kind {
	case KindInt64:
		return uint64(v.i), true
	case KindUint64:
		return v.u, true
	}
	return 0, false
}

func (v *Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.f, true
	case KindInt64:
		return float64(v.i), true
	case KindUint64:
		return float64(v.u), true
	}
	return 0, false
}

func (v *Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsBinary accepts a binary node or a string holding hex, which is how
// blobs travel through text.
func (v *Value) AsBinary() ([]byte, bool) {
	switch v.kind {
	case KindBinary:
		return v.bin, true
	case KindString:
		b, err := hex.DecodeString(v.s)
		if err != nil {
			return nil, false
		}
		return b, true
	}
	return nil, false
}

// Equal reports structural equality: same kind and same contents,
// recursively. Object members compare in stored order.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt64:
		return a.i == b.i
	case KindUint64:
		return a.u == b.u
	case KindDouble:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case KindString:
		return a.s == b.s
	case KindBinary:
		return bytes.Equal(a.bin, b.bin)
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].key != b.members[i].key || !Equal(a.members[i].value, b.members[i].value) {
				return false
			}
		}
		return true
	}
	return false
}

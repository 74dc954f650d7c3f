package seria

import (
	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common/value"
)

// JSONInput reads records out of a value tree.
type JSONInput struct {
	root     *value.Value
	rootUsed bool

	scopes *scopeStack

	// pending is the key named by the last ObjectKey call, consumed by the
	// next read or begin.
	pending    string
	hasPending bool

	err error
}

func NewJSONInput(root *value.Value) *JSONInput {
	return &JSONInput{
		root:   root,
		scopes: newScopeStack(),
	}
}

func (in *JSONInput) IsInput() bool { return true }
func (in *JSONInput) Err() error    { return in.err }
func (in *JSONInput) Depth() int    { return in.scopes.Depth() }

func (in *JSONInput) Fail(err error) {
	if in.err == nil {
		in.err = err
	}
}

// resolve returns the value the next operation applies to, or nil when it
// is absent, together with its path.
func (in *JSONInput) resolve() (*value.Value, string) {
	f := in.scopes.top()
	if in.hasPending {
		key := in.pending
		in.pending, in.hasPending = "", false
		path := in.scopes.childPath(key)
		if f.node == nil {
			return nil, path
		}
		v, _ := f.node.Get(key)
		return v, path
	}
	if f == nil {
		if in.rootUsed {
			in.Fail(ErrMultipleRoots)
			return nil, ""
		}
		in.rootUsed = true
		return in.root, ""
	}

	path := in.scopes.childPath("")
	switch f.kind {
	case scopeArray:
		pos := f.index
		f.index++
		if f.node == nil {
			return nil, path
		}
		v, _ := f.node.Index(pos)
		return v, path
	case scopeMap:
		if !f.staged {
			in.Fail(errors.Wrapf(ErrMissingKey, "%s: read before NextMapKey", pathOf(f.path)))
			return nil, path
		}
		f.staged = false
		v, _ := f.node.Get(f.key)
		return v, path
	}
	in.Fail(errors.Wrapf(ErrMissingKey, "%s", pathOf(f.path)))
	return nil, path
}

func (in *JSONInput) open(kind scopeKind, want value.Kind) *frame {
	if in.err != nil {
		return nil
	}
	v, path := in.resolve()
	if in.err != nil {
		return nil
	}
	if v != nil && v.Kind() != want {
		in.Fail(errors.Wrapf(ErrStructureMismatch, "%s: expected %s, got %s", pathOf(path), kind, v.Kind()))
		return nil
	}
	f := &frame{kind: kind, path: path, node: v}
	in.scopes.push(f)
	return f
}

func (in *JSONInput) close(kind scopeKind) {
	if in.err != nil {
		return
	}
	in.pending, in.hasPending = "", false
	if _, err := in.scopes.pop(kind); err != nil {
		in.Fail(err)
	}
}

func (in *JSONInput) BeginObject() {
	in.open(scopeObject, value.KindObject)
}

func (in *JSONInput) ObjectKey(name string) {
	if in.err != nil {
		return
	}
	if f := in.scopes.top(); f == nil || f.kind != scopeObject {
		in.Fail(errors.Wrapf(ErrScopeMismatch, "key %q outside object", name))
		return
	}
	in.pending, in.hasPending = name, true
}

func (in *JSONInput) EndObject() {
	in.close(scopeObject)
}

func (in *JSONInput) BeginMap(size *int) {
	f := in.open(scopeMap, value.KindObject)
	if f == nil || f.node == nil {
		return
	}
	f.keys = f.node.Keys()
	*size = len(f.keys)
}

func (in *JSONInput) NextMapKey(name *string) bool {
	if in.err != nil {
		return false
	}
	f := in.scopes.top()
	if f == nil || f.kind != scopeMap {
		in.Fail(errors.Wrap(ErrScopeMismatch, "map key outside map"))
		return false
	}
	if f.index >= len(f.keys) {
		f.staged = false
		return false
	}
	f.key = f.keys[f.index]
	f.index++
	f.staged = true
	*name = f.key
	return true
}

func (in *JSONInput) EndMap() {
	in.close(scopeMap)
}

func (in *JSONInput) BeginArray(size *int, fixed bool) {
	f := in.open(scopeArray, value.KindArray)
	if f == nil || f.node == nil {
		return
	}
	*size = f.node.Len()
}

func (in *JSONInput) EndArray() {
	in.close(scopeArray)
}

func read[T any](in *JSONInput, coerce func(*value.Value) (T, bool)) (T, string, bool) {
	var zero T
	if in.err != nil {
		return zero, "", false
	}
	v, path := in.resolve()
	if v == nil {
		return zero, path, false
	}
	t, ok := coerce(v)
	if !ok {
		in.Fail(errors.Wrapf(ErrCoercionMismatch, "%s: cannot read %T from %s", pathOf(path), zero, v.Kind()))
		return zero, path, false
	}
	return t, path, true
}

func (in *JSONInput) signed() (int64, bool) {
	i, _, ok := read(in, (*value.Value).AsInt64)
	return i, ok
}

func (in *JSONInput) unsigned() (uint64, bool) {
	u, _, ok := read(in, (*value.Value).AsUint64)
	return u, ok
}

func (in *JSONInput) Int8(v *int8) {
	if i, ok := in.signed(); ok {
		*v = int8(i)
	}
}

func (in *JSONInput) Uint8(v *uint8) {
	if u, ok := in.unsigned(); ok {
		*v = uint8(u)
	}
}

func (in *JSONInput) Int16(v *int16) {
	if i, ok := in.signed(); ok {
		*v = int16(i)
	}
}

func (in *JSONInput) Uint16(v *uint16) {
	if u, ok := in.unsigned(); ok {
		*v = uint16(u)
	}
}

func (in *JSONInput) Int32(v *int32) {
	if i, ok := in.signed(); ok {
		*v = int32(i)
	}
}

func (in *JSONInput) Uint32(v *uint32) {
	if u, ok := in.unsigned(); ok {
		*v = uint32(u)
	}
}

func (in *JSONInput) Int64(v *int64) {
	if i, ok := in.signed(); ok {
		*v = i
	}
}

func (in *JSONInput) Uint64(v *uint64) {
	if u, ok := in.unsigned(); ok {
		*v = u
	}
}

func (in *JSONInput) Float64(v *float64) {
	if f, _, ok := read(in, (*value.Value).AsDouble); ok {
		*v = f
	}
}

func (in *JSONInput) Bool(v *bool) {
	if b, _, ok := read(in, (*value.Value).AsBool); ok {
		*v = b
	}
}

func (in *JSONInput) String(v *string) {
	if s, _, ok := read(in, (*value.Value).AsString); ok {
		*v = s
	}
}

func (in *JSONInput) Bytes(v *[]byte) {
	b, _, ok := read(in, (*value.Value).AsBinary)
	if !ok {
		return
	}
	if len(b) == 0 {
		*v = nil
		return
	}
	*v = append(make([]byte, 0, len(b)), b...)
}

func (in *JSONInput) Raw(buf []byte) {
	b, path, ok := read(in, (*value.Value).AsBinary)
	if !ok {
		return
	}
	if len(b) != len(buf) {
		in.Fail(errors.Wrapf(ErrCoercionMismatch, "%s: expected %d bytes, got %d", pathOf(path), len(buf), len(b)))
		return
	}
	copy(buf, b)
}

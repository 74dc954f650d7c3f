package seria

import (
	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common/value"
)

// JSONOutput builds a value tree out of records.
type JSONOutput struct {
	root   *value.Value
	scopes *scopeStack

	pending    string
	hasPending bool

	err error
}

func NewJSONOutput() *JSONOutput {
	return &JSONOutput{scopes: newScopeStack()}
}

func (out *JSONOutput) IsInput() bool { return false }
func (out *JSONOutput) Err() error    { return out.err }
func (out *JSONOutput) Depth() int    { return out.scopes.Depth() }

// Value returns the tree written so far; nil before the first write.
func (out *JSONOutput) Value() *value.Value {
	return out.root
}

func (out *JSONOutput) Fail(err error) {
	if out.err == nil {
		out.err = err
	}
}

// place attaches v at the current position and returns its path.
func (out *JSONOutput) place(v *value.Value) (string, bool) {
	if out.err != nil {
		return "", false
	}
	f := out.scopes.top()
	if f == nil {
		if out.root != nil {
			out.Fail(ErrMultipleRoots)
			return "", false
		}
		out.root = v
		return "", true
	}

	switch f.kind {
	case scopeObject:
		if !out.hasPending {
			out.Fail(errors.Wrapf(ErrMissingKey, "%s", pathOf(f.path)))
			return "", false
		}
		path := out.scopes.childPath(out.pending)
		f.node.Set(out.pending, v)
		out.pending, out.hasPending = "", false
		return path, true
	case scopeMap:
		if !f.staged {
			out.Fail(errors.Wrapf(ErrMissingKey, "%s: write before NextMapKey", pathOf(f.path)))
			return "", false
		}
		path := out.scopes.childPath("")
		f.node.Set(f.key, v)
		f.staged = false
		return path, true
	}
	path := out.scopes.childPath("")
	f.node.Append(v)
	f.index++
	return path, true
}

func (out *JSONOutput) open(kind scopeKind, node *value.Value) {
	path, ok := out.place(node)
	if !ok {
		return
	}
	out.scopes.push(&frame{kind: kind, path: path, node: node})
}

func (out *JSONOutput) close(kind scopeKind) {
	if out.err != nil {
		return
	}
	if out.hasPending {
		out.Fail(errors.Wrapf(ErrStructureMismatch, "key %q has no value", out.pending))
		return
	}
	if f := out.scopes.top(); f != nil && f.kind == scopeMap && f.staged {
		out.Fail(errors.Wrapf(ErrStructureMismatch, "%s: map key %q has no value", pathOf(f.path), f.key))
		return
	}
	if _, err := out.scopes.pop(kind); err != nil {
		out.Fail(err)
	}
}

func (out *JSONOutput) BeginObject() {
	out.open(scopeObject, value.NewObject())
}

func (out *JSONOutput) ObjectKey(name string) {
	if out.err != nil {
		return
	}
	if f := out.scopes.top(); f == nil || f.kind != scopeObject {
		out.Fail(errors.Wrapf(ErrScopeMismatch, "key %q outside object", name))
		return
	}
	out.pending, out.hasPending = name, true
}

func (out *JSONOutput) EndObject() {
	out.close(scopeObject)
}

func (out *JSONOutput) BeginMap(size *int) {
	out.open(scopeMap, value.NewObject())
}

func (out *JSONOutput) NextMapKey(name *string) bool {
	if out.err != nil {
		return false
	}
	f := out.scopes.top()
	if f == nil || f.kind != scopeMap {
		out.Fail(errors.Wrap(ErrScopeMismatch, "map key outside map"))
		return false
	}
	if f.staged {
		out.Fail(errors.Wrapf(ErrStructureMismatch, "%s: map key %q has no value", pathOf(f.path), f.key))
		return false
	}
	f.key = *name
	f.staged = true
	f.index++
	return true
}

func (out *JSONOutput) EndMap() {
	out.close(scopeMap)
}

func (out *JSONOutput) BeginArray(size *int, fixed bool) {
	out.open(scopeArray, value.NewArray())
}

func (out *JSONOutput) EndArray() {
	out.close(scopeArray)
}

func (out *JSONOutput) Int8(v *int8)       { out.place(value.Int64(int64(*v))) }
func (out *JSONOutput) Uint8(v *uint8)     { out.place(value.Uint64(uint64(*v))) }
func (out *JSONOutput) Int16(v *int16)     { out.place(value.Int64(int64(*v))) }
func (out *JSONOutput) Uint16(v *uint16)   { out.place(value.Uint64(uint64(*v))) }
func (out *JSONOutput) Int32(v *int32)     { out.place(value.Int64(int64(*v))) }
func (out *JSONOutput) Uint32(v *uint32)   { out.place(value.Uint64(uint64(*v))) }
func (out *JSONOutput) Int64(v *int64)     { out.place(value.Int64(*v)) }
func (out *JSONOutput) Uint64(v *uint64)   { out.place(value.Uint64(*v)) }
func (out *JSONOutput) Float64(v *float64) { out.place(value.Double(*v)) }
func (out *JSONOutput) Bool(v *bool)       { out.place(value.Bool(*v)) }
func (out *JSONOutput) String(v *string)   { out.place(value.String(*v)) }

func (out *JSONOutput) Bytes(v *[]byte) {
	out.place(value.Binary(append([]byte(nil), *v...)))
}

func (out *JSONOutput) Raw(buf []byte) {
	out.place(value.Binary(append([]byte(nil), buf...)))
}

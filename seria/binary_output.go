package seria

import (
	"math"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
)

// BinaryOutput writes records in a compact positional form built from
// protobuf wire primitives: varints for unsigned integers and lengths,
// zigzag varints for signed integers, fixed64 for floats and
// length-delimited strings and blobs. Object keys are not written.
type BinaryOutput struct {
	buf    *proto.Buffer
	scopes *scopeStack

	hasPending bool
	rootUsed   bool

	err error
}

func NewBinaryOutput() *BinaryOutput {
	return &BinaryOutput{
		buf:    proto.NewBuffer(nil),
		scopes: newScopeStack(),
	}
}

func (out *BinaryOutput) IsInput() bool { return false }
func (out *BinaryOutput) Err() error    { return out.err }
func (out *BinaryOutput) Depth() int    { return out.scopes.Depth() }

// Data returns the encoded bytes written so far.
func (out *BinaryOutput) Data() []byte {
	return out.buf.Bytes()
}

func (out *BinaryOutput) Fail(err error) {
	if out.err == nil {
		out.err = err
	}
}

func (out *BinaryOutput) check(err error) {
	if err != nil {
		out.Fail(errors.WithStack(err))
	}
}

// element accounts for one value written at the current position.
func (out *BinaryOutput) element() bool {
	if out.err != nil {
		return false
	}
	f := out.scopes.top()
	if f == nil {
		if out.rootUsed {
			out.Fail(ErrMultipleRoots)
			return false
		}
		out.rootUsed = true
		return true
	}
	switch f.kind {
	case scopeObject:
		if !out.hasPending {
			out.Fail(errors.Wrapf(ErrMissingKey, "%s", pathOf(f.path)))
			return false
		}
		out.hasPending = false
	case scopeMap:
		if !f.staged {
			out.Fail(errors.Wrapf(ErrMissingKey, "%s: write before NextMapKey", pathOf(f.path)))
			return false
		}
		f.staged = false
	case scopeArray:
		f.index++
	}
	return true
}

func (out *BinaryOutput) open(kind scopeKind, size int, path string) {
	out.scopes.push(&frame{kind: kind, path: path, size: size})
}

func (out *BinaryOutput) close(kind scopeKind) *frame {
	if out.err != nil {
		return nil
	}
	if out.hasPending {
		out.Fail(errors.Wrap(ErrStructureMismatch, "object key has no value"))
		return nil
	}
	if f := out.scopes.top(); f != nil && f.kind == scopeMap && f.staged {
		out.Fail(errors.Wrapf(ErrStructureMismatch, "%s: map key %q has no value", pathOf(f.path), f.key))
		return nil
	}
	f, err := out.scopes.pop(kind)
	if err != nil {
		out.Fail(err)
		return nil
	}
	return f
}

func (out *BinaryOutput) BeginObject() {
	path := out.scopes.childPath("")
	if out.element() {
		out.open(scopeObject, 0, path)
	}
}

func (out *BinaryOutput) ObjectKey(name string) {
	if out.err != nil {
		return
	}
	if f := out.scopes.top(); f == nil || f.kind != scopeObject {
		out.Fail(errors.Wrapf(ErrScopeMismatch, "key %q outside object", name))
		return
	}
	out.hasPending = true
}

func (out *BinaryOutput) EndObject() {
	out.close(scopeObject)
}

func (out *BinaryOutput) BeginMap(size *int) {
	path := out.scopes.childPath("")
	if !out.element() {
		return
	}
	out.check(out.buf.EncodeVarint(uint64(*size)))
	out.open(scopeMap, *size, path)
}

func (out *BinaryOutput) NextMapKey(name *string) bool {
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
	out.check(out.buf.EncodeStringBytes(*name))
	f.key = *name
	f.staged = true
	f.index++
	return out.err == nil
}

func (out *BinaryOutput) EndMap() {
	f := out.close(scopeMap)
	if f != nil && f.index != f.size {
		out.Fail(errors.Wrapf(ErrStructureMismatch, "%s: map declared %d entries, wrote %d", pathOf(f.path), f.size, f.index))
	}
}

func (out *BinaryOutput) BeginArray(size *int, fixed bool) {
	path := out.scopes.childPath("")
	if !out.element() {
		return
	}
	if !fixed {
		out.check(out.buf.EncodeVarint(uint64(*size)))
	}
	out.open(scopeArray, *size, path)
}

func (out *BinaryOutput) EndArray() {
	f := out.close(scopeArray)
	if f != nil && f.index != f.size {
		out.Fail(errors.Wrapf(ErrStructureMismatch, "%s: array declared %d elements, wrote %d", pathOf(f.path), f.size, f.index))
	}
}

func (out *BinaryOutput) signed(v int64) {
	if out.element() {
		out.check(out.buf.EncodeZigzag64(uint64(v)))
	}
}

func (out *BinaryOutput) unsigned(v uint64) {
	if out.element() {
		out.check(out.buf.EncodeVarint(v))
	}
}

func (out *BinaryOutput) Int8(v *int8)     { out.signed(int64(*v)) }
func (out *BinaryOutput) Uint8(v *uint8)   { out.unsigned(uint64(*v)) }
func (out *BinaryOutput) Int16(v *int16)   { out.signed(int64(*v)) }
func (out *BinaryOutput) Uint16(v *uint16) { out.unsigned(uint64(*v)) }
func (out *BinaryOutput) Int32(v *int32)   { out.signed(int64(*v)) }
func (out *BinaryOutput) Uint32(v *uint32) { out.unsigned(uint64(*v)) }
func (out *BinaryOutput) Int64(v *int64)   { out.signed(*v) }
func (out *BinaryOutput) Uint64(v *uint64) { out.unsigned(*v) }

func (out *BinaryOutput) Float64(v *float64) {
	if out.element() {
		out.check(out.buf.EncodeFixed64(math.Float64bits(*v)))
	}
}

func (out *BinaryOutput) Bool(v *bool) {
	var b uint64
	if *v {
		b = 1
	}
	out.unsigned(b)
}

func (out *BinaryOutput) String(v *string) {
	if out.element() {
		out.check(out.buf.EncodeStringBytes(*v))
	}
}

func (out *BinaryOutput) Bytes(v *[]byte) {
	if out.element() {
		out.check(out.buf.EncodeRawBytes(*v))
	}
}

func (out *BinaryOutput) Raw(buf []byte) {
	if out.element() {
		out.buf.SetBuf(append(out.buf.Bytes(), buf...))
	}
}

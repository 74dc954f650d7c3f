package seria

import (
	"math"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
)

// BinaryInput reads what BinaryOutput wrote. Every field is positional,
// so unlike JSONInput nothing is ever absent.
type BinaryInput struct {
	buf    *proto.Buffer
	scopes *scopeStack

	hasPending bool
	rootUsed   bool

	err error
}

func NewBinaryInput(data []byte) *BinaryInput {
	return &BinaryInput{
		buf:    proto.NewBuffer(data),
		scopes: newScopeStack(),
	}
}

func (in *BinaryInput) IsInput() bool { return true }
func (in *BinaryInput) Err() error    { return in.err }
func (in *BinaryInput) Depth() int    { return in.scopes.Depth() }

// Remaining is the number of bytes not consumed yet.
func (in *BinaryInput) Remaining() int {
	return len(in.buf.Unread())
}

func (in *BinaryInput) Fail(err error) {
	if in.err == nil {
		in.err = err
	}
}

func (in *BinaryInput) eof(path string, err error) {
	in.Fail(errors.Wrapf(ErrUnexpectedEOF, "%s: %v", pathOf(path), err))
}

// element accounts for one value read at the current position and
// returns its path.
func (in *BinaryInput) element() (string, bool) {
	if in.err != nil {
		return "", false
	}
	path := in.scopes.childPath("")
	f := in.scopes.top()
	if f == nil {
		if in.rootUsed {
			in.Fail(ErrMultipleRoots)
			return "", false
		}
		in.rootUsed = true
		return path, true
	}
	switch f.kind {
	case scopeObject:
		if !in.hasPending {
			in.Fail(errors.Wrapf(ErrMissingKey, "%s", pathOf(f.path)))
			return "", false
		}
		in.hasPending = false
	case scopeMap:
		if !f.staged {
			in.Fail(errors.Wrapf(ErrMissingKey, "%s: read before NextMapKey", pathOf(f.path)))
			return "", false
		}
		f.staged = false
	case scopeArray:
		if f.index >= f.size {
			in.Fail(errors.Wrapf(ErrStructureMismatch, "%s: read past %d elements", pathOf(f.path), f.size))
			return "", false
		}
		f.index++
	}
	return path, true
}

// maxArrayLength bounds array prefixes. Array elements may encode to
// zero bytes, so the count cannot be checked against the bytes left.
const maxArrayLength = 1 << 24

// length reads an element count. Map entries always carry a key, so a
// map count is bounded by the bytes left; array counts only by
// maxArrayLength.
func (in *BinaryInput) length(path string, kind scopeKind) (int, bool) {
	n, err := in.buf.DecodeVarint()
	if err != nil {
		in.eof(path, err)
		return 0, false
	}
	if kind == scopeMap && n > uint64(in.Remaining()) {
		in.Fail(errors.Wrapf(ErrUnexpectedEOF, "%s: length %d exceeds %d remaining bytes", pathOf(path), n, in.Remaining()))
		return 0, false
	}
	if n > maxArrayLength {
		in.Fail(errors.Wrapf(ErrStructureMismatch, "%s: length %d exceeds limit %d", pathOf(path), n, maxArrayLength))
		return 0, false
	}
	return int(n), true
}

func (in *BinaryInput) close(kind scopeKind) *frame {
	if in.err != nil {
		return nil
	}
	if in.hasPending {
		in.Fail(errors.Wrap(ErrStructureMismatch, "object key has no value"))
		return nil
	}
	if f := in.scopes.top(); f != nil && f.kind == scopeMap && f.staged {
		in.Fail(errors.Wrapf(ErrStructureMismatch, "%s: map key %q has no value", pathOf(f.path), f.key))
		return nil
	}
	f, err := in.scopes.pop(kind)
	if err != nil {
		in.Fail(err)
		return nil
	}
	return f
}

func (in *BinaryInput) BeginObject() {
	if path, ok := in.element(); ok {
		in.scopes.push(&frame{kind: scopeObject, path: path})
	}
}

func (in *BinaryInput) ObjectKey(name string) {
	if in.err != nil {
		return
	}
	if f := in.scopes.top(); f == nil || f.kind != scopeObject {
		in.Fail(errors.Wrapf(ErrScopeMismatch, "key %q outside object", name))
		return
	}
	in.hasPending = true
}

func (in *BinaryInput) EndObject() {
	in.close(scopeObject)
}

func (in *BinaryInput) BeginMap(size *int) {
	path, ok := in.element()
	if !ok {
		return
	}
	n, ok := in.length(path, scopeMap)
	if !ok {
		return
	}
	*size = n
	in.scopes.push(&frame{kind: scopeMap, path: path, size: n})
}

func (in *BinaryInput) NextMapKey(name *string) bool {
	if in.err != nil {
		return false
	}
	f := in.scopes.top()
	if f == nil || f.kind != scopeMap {
		in.Fail(errors.Wrap(ErrScopeMismatch, "map key outside map"))
		return false
	}
	if f.index >= f.size {
		f.staged = false
		return false
	}
	key, err := in.buf.DecodeStringBytes()
	if err != nil {
		in.eof(f.path, err)
		return false
	}
	f.key = key
	f.staged = true
	f.index++
	*name = key
	return true
}

func (in *BinaryInput) EndMap() {
	f := in.close(scopeMap)
	if f != nil && f.index != f.size {
		in.Fail(errors.Wrapf(ErrStructureMismatch, "%s: map has %d entries, read %d", pathOf(f.path), f.size, f.index))
	}
}

func (in *BinaryInput) BeginArray(size *int, fixed bool) {
	path, ok := in.element()
	if !ok {
		return
	}
	n := *size
	if !fixed {
		if n, ok = in.length(path, scopeArray); !ok {
			return
		}
		*size = n
	}
	in.scopes.push(&frame{kind: scopeArray, path: path, size: n})
}

func (in *BinaryInput) EndArray() {
	f := in.close(scopeArray)
	if f != nil && f.index != f.size {
		in.Fail(errors.Wrapf(ErrStructureMismatch, "%s: array has %d elements, read %d", pathOf(f.path), f.size, f.index))
	}
}

func (in *BinaryInput) signed() (int64, bool) {
	path, ok := in.element()
	if !ok {
		return 0, false
	}
	x, err := in.buf.DecodeZigzag64()
	if err != nil {
		in.eof(path, err)
		return 0, false
	}
	return int64(x), true
}

func (in *BinaryInput) unsigned() (uint64, bool) {
	path, ok := in.element()
	if !ok {
		return 0, false
	}
	x, err := in.buf.DecodeVarint()
	if err != nil {
		in.eof(path, err)
		return 0, false
	}
	return x, true
}

func (in *BinaryInput) Int8(v *int8) {
	if i, ok := in.signed(); ok {
		*v = int8(i)
	}
}

func (in *BinaryInput) Uint8(v *uint8) {
	if u, ok := in.unsigned(); ok {
		*v = uint8(u)
	}
}

func (in *BinaryInput) Int16(v *int16) {
	if i, ok := in.signed(); ok {
		*v = int16(i)
	}
}

func (in *BinaryInput) Uint16(v *uint16) {
	if u, ok := in.unsigned(); ok {
		*v = uint16(u)
	}
}

func (in *BinaryInput) Int32(v *int32) {
	if i, ok := in.signed(); ok {
		*v = int32(i)
	}
}

func (in *BinaryInput) Uint32(v *uint32) {
	if u, ok := in.unsigned(); ok {
		*v = uint32(u)
	}
}

func (in *BinaryInput) Int64(v *int64) {
	if i, ok := in.signed(); ok {
		*v = i
	}
}

func (in *BinaryInput) Uint64(v *uint64) {
	if u, ok := in.unsigned(); ok {
		*v = u
	}
}

func (in *BinaryInput) Float64(v *float64) {
	path, ok := in.element()
	if !ok {
		return
	}
	bits, err := in.buf.DecodeFixed64()
	if err != nil {
		in.eof(path, err)
		return
	}
	*v = math.Float64frombits(bits)
}

func (in *BinaryInput) Bool(v *bool) {
	if u, ok := in.unsigned(); ok {
		*v = u != 0
	}
}

func (in *BinaryInput) String(v *string) {
	path, ok := in.element()
	if !ok {
		return
	}
	s, err := in.buf.DecodeStringBytes()
	if err != nil {
		in.eof(path, err)
		return
	}
	*v = s
}

func (in *BinaryInput) Bytes(v *[]byte) {
	path, ok := in.element()
	if !ok {
		return
	}
	b, err := in.buf.DecodeRawBytes(true)
	if err != nil {
		in.eof(path, err)
		return
	}
	if len(b) == 0 {
		b = nil
	}
	*v = b
}

func (in *BinaryInput) Raw(buf []byte) {
	path, ok := in.element()
	if !ok {
		return
	}
	rest := in.buf.Unread()
	if len(rest) < len(buf) {
		in.Fail(errors.Wrapf(ErrUnexpectedEOF, "%s: need %d bytes, have %d", pathOf(path), len(buf), len(rest)))
		return
	}
	copy(buf, rest)
	in.buf.SetBuf(rest[len(buf):])
}

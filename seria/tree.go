package seria

import (
	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common/value"
)

// Tree passes an untyped value subtree through the archive. JSON archives
// attach or detach the node as is. Other writers walk it with the regular
// operations; other readers cannot recover its shape and fail.
//
// A missing subtree leaves *v untouched. Writing a nil *v writes null.
func Tree(s Archive, v **value.Value) {
	switch a := s.(type) {
	case *JSONInput:
		if a.err != nil {
			return
		}
		if node, _ := a.resolve(); node != nil {
			*v = node
		}
	case *JSONOutput:
		node := *v
		if node == nil {
			node = value.Null()
		}
		a.place(node)
	default:
		if s.IsInput() {
			s.Fail(errors.Wrap(ErrStructureMismatch, "untyped value needs a self-describing archive"))
			return
		}
		writeTree(s, *v)
	}
}

func writeTree(s Archive, v *value.Value) {
	if v == nil {
		v = value.Null()
	}
	switch v.Kind() {
	case value.KindNull:
		s.Fail(errors.Wrap(ErrCoercionMismatch, "null has no positional encoding"))
	case value.KindBool:
		b, _ := v.AsBool()
		s.Bool(&b)
	case value.KindInt64:
		i, _ := v.AsInt64()
		s.Int64(&i)
	case value.KindUint64:
		u, _ := v.AsUint64()
		s.Uint64(&u)
	case value.KindDouble:
		f, _ := v.AsDouble()
		s.Float64(&f)
	case value.KindString:
		str, _ := v.AsString()
		s.String(&str)
	case value.KindBinary:
		b, _ := v.AsBinary()
		s.Bytes(&b)
	case value.KindArray:
		size := v.Len()
		s.BeginArray(&size, false)
		for i := 0; i < size; i++ {
			elem, _ := v.Index(i)
			writeTree(s, elem)
		}
		s.EndArray()
	case value.KindObject:
		keys := v.Keys()
		size := len(keys)
		s.BeginMap(&size)
		for _, k := range keys {
			key := k
			elem, _ := v.Get(k)
			s.NextMapKey(&key)
			writeTree(s, elem)
		}
		s.EndMap()
	}
}

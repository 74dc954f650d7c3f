package seria

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common/value"
)

// Slice runs elem over a variable length sequence. Readers size *v from
// the archive first; an absent sequence leaves *v untouched and an empty
// one resets it to nil.
//
// Primitive element functions come straight from the interface:
//
//	seria.Slice(s, &in.OutputIndexes, seria.Archive.Uint32)
func Slice[T any](s Archive, v *[]T, elem func(Archive, *T)) {
	if !s.IsInput() {
		size := len(*v)
		s.BeginArray(&size, false)
		for i := range *v {
			elem(s, &(*v)[i])
		}
		s.EndArray()
		return
	}

	size := -1
	s.BeginArray(&size, false)
	switch {
	case size == 0:
		*v = nil
	case size > 0:
		*v = make([]T, 0, preallocLimit(size))
	}
	for i := 0; i < size && s.Err() == nil; i++ {
		var item T
		elem(s, &item)
		*v = append(*v, item)
	}
	s.EndArray()
}

// maxPrealloc caps the capacity reserved from a stored length; longer
// sequences grow as elements arrive.
const maxPrealloc = 1024

func preallocLimit(size int) int {
	if size > maxPrealloc {
		return maxPrealloc
	}
	return size
}

// FixedSlice runs elem over a sequence whose length both sides know, so
// binary encodings skip the length prefix. A reader fails if the stored
// sequence has a different length.
func FixedSlice[T any](s Archive, v []T, elem func(Archive, *T)) {
	size := len(v)
	s.BeginArray(&size, true)
	if size != len(v) {
		s.Fail(errors.Wrapf(ErrStructureMismatch, "fixed array of %d elements holds %d", len(v), size))
		return
	}
	for i := range v {
		elem(s, &v[i])
	}
	s.EndArray()
}

// StringMap runs elem over a map with dynamic keys. Writers emit keys in
// sorted order so the output is deterministic.
func StringMap[V any](s Archive, m *map[string]V, elem func(Archive, *V)) {
	if !s.IsInput() {
		size := len(*m)
		s.BeginMap(&size)
		keys := make([]string, 0, size)
		for k := range *m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := k
			item := (*m)[k]
			s.NextMapKey(&key)
			elem(s, &item)
		}
		s.EndMap()
		return
	}

	size := -1
	s.BeginMap(&size)
	switch {
	case size == 0:
		*m = nil
	case size > 0:
		*m = make(map[string]V, size)
	}
	var key string
	for s.NextMapKey(&key) {
		var item V
		elem(s, &item)
		(*m)[key] = item
	}
	s.EndMap()
}

// Elem adapts a pointer-receiver Seria method to the element function
// shape Slice, FixedSlice and StringMap expect.
func Elem[T any, PT interface {
	*T
	Serializer
}](s Archive, v *T) {
	PT(v).Seria(s)
}

// SliceOf is Slice for element types that implement Serializer.
func SliceOf[T any, PT interface {
	*T
	Serializer
}](s Archive, v *[]T) {
	Slice(s, v, Elem[T, PT])
}

// Field names the next object member and runs v.Seria on it.
func Field(s Archive, name string, v Serializer) {
	s.ObjectKey(name)
	v.Seria(s)
}

type balanced interface {
	Err() error
	Depth() int
}

func finish(a balanced) error {
	if err := a.Err(); err != nil {
		return err
	}
	if d := a.Depth(); d != 0 {
		return errors.Wrapf(ErrUnbalancedScope, "%d scopes open", d)
	}
	return nil
}

// ToValue writes v into a fresh value tree.
func ToValue(v Serializer) (*value.Value, error) {
	out := NewJSONOutput()
	v.Seria(out)
	if err := finish(out); err != nil {
		return nil, err
	}
	if out.Value() == nil {
		return value.Null(), nil
	}
	return out.Value(), nil
}

// FromValue reads v out of root. Fields missing from root keep their
// current values.
func FromValue(root *value.Value, v Serializer) error {
	in := NewJSONInput(root)
	v.Seria(in)
	return finish(in)
}

func ToJSON(v Serializer) ([]byte, error) {
	root, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	return value.Marshal(root)
}

func ToJSONIndent(v Serializer, indent string) ([]byte, error) {
	root, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	return value.MarshalIndent(root, "", indent)
}

func FromJSON(data []byte, v Serializer) error {
	root, err := value.Unmarshal(data)
	if err != nil {
		return err
	}
	return FromValue(root, v)
}

func ToBinary(v Serializer) ([]byte, error) {
	out := NewBinaryOutput()
	v.Seria(out)
	if err := finish(out); err != nil {
		return nil, err
	}
	return out.Data(), nil
}

// FromBinary reads v from data, which must hold exactly one record.
func FromBinary(data []byte, v Serializer) error {
	in := NewBinaryInput(data)
	v.Seria(in)
	if err := finish(in); err != nil {
		return err
	}
	if n := in.Remaining(); n != 0 {
		return errors.Wrapf(ErrTrailingData, "%d bytes", n)
	}
	return nil
}

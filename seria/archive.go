// Package seria defines Archive, the direction-aware traversal contract
// every serializable record is written against, together with its JSON
// and binary implementations.
//
// A record implements Serializer once:
//
//	func (h *BlockHeader) Seria(s seria.Archive) {
//		s.BeginObject()
//		s.ObjectKey("timestamp")
//		s.Uint64(&h.Timestamp)
//		s.EndObject()
//	}
//
// and the same method both encodes and decodes it. Errors are sticky: the
// first failure is kept by the archive, every later call becomes a no-op,
// and the entry point (FromJSON, ToBinary, ...) reports it once.
package seria

// Archive is implemented by readers (IsInput true) and writers. Primitive
// operations take a pointer: readers store into it, writers load from it.
// A reader that cannot find a value leaves the destination untouched.
type Archive interface {
	IsInput() bool

	BeginObject()
	// ObjectKey names the next value inside an object scope.
	ObjectKey(name string)
	EndObject()

	// BeginMap opens a scope whose keys are discovered by iteration. size
	// is reported by readers and is a hint for writers.
	BeginMap(size *int)
	// NextMapKey stores the next key into name and returns true. Readers
	// return false once, after the last key, without touching name.
	// Writers stage name for the following value and always return true.
	NextMapKey(name *string) bool
	EndMap()

	// BeginArray opens an ordered sequence. size is reported by readers and
	// supplied by writers. fixed tells length-prefixed encodings that both
	// sides already know size; text encodings ignore it.
	BeginArray(size *int, fixed bool)
	EndArray()

	Int8(v *int8)
	Uint8(v *uint8)
	Int16(v *int16)
	Uint16(v *uint16)
	Int32(v *int32)
	Uint32(v *uint32)
	Int64(v *int64)
	Uint64(v *uint64)
	Float64(v *float64)
	Bool(v *bool)
	String(v *string)
	// Bytes is a variable length blob.
	Bytes(v *[]byte)
	// Raw is a fixed length buffer such as a digest or a key. Its length
	// never travels with it.
	Raw(buf []byte)

	// Err returns the first failure, if any.
	Err() error
	// Fail records err unless a failure is already recorded.
	Fail(err error)
}

// Serializer is implemented by every record that can travel through an
// Archive.
type Serializer interface {
	Seria(s Archive)
}

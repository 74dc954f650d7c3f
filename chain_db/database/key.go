package database

import (
	"encoding/binary"
)

// Key prefixes. Each table lives under its own first byte.
const (
	DBKP_BLOCK        = byte(1)
	DBKP_BLOCK_HEIGHT = byte(2)
)

// EncodeKey joins prefix and parts. Integers are big endian so that
// leveldb iteration order matches numeric order.
func EncodeKey(prefix byte, partionList ...interface{}) []byte {
	key := []byte{prefix}
	for _, partion := range partionList {
		switch p := partion.(type) {
		case uint32:
			buf := make([]byte, 4)
			binary.BigEndian.PutUint32(buf, p)
			key = append(key, buf...)
		case uint64:
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, p)
			key = append(key, buf...)
		case []byte:
			key = append(key, p...)
		case string:
			key = append(key, p...)
		default:
			panic("unsupported key part")
		}
	}
	return key
}

// DecodeUint32 reads the big endian integer that follows prefix in key.
func DecodeUint32(key []byte) uint32 {
	return binary.BigEndian.Uint32(key[1:5])
}

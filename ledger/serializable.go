package ledger

import "github.com/vitelabs/go-walletd/seria"

// Serializable records have a canonical binary form, used for storage
// and hashing.
type Serializable interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error
}

var (
	_ Serializable = (*Block)(nil)
	_ Serializable = (*Transaction)(nil)
	_ Serializable = (*HashHeight)(nil)

	_ seria.Serializer = (*Block)(nil)
	_ seria.Serializer = (*Transaction)(nil)
)

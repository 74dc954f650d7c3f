package ledger

import (
	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/seria"
)

type HashHeight struct {
	Height uint32
	Hash   types.Hash
}

func (b *HashHeight) Equal(hash types.Hash, height uint32) bool {
	return b.Hash == hash && b.Height == height
}

func (b *HashHeight) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("height")
	s.Uint32(&b.Height)
	seria.Field(s, "hash", &b.Hash)
	s.EndObject()
}

func (b *HashHeight) Serialize() ([]byte, error) {
	return seria.ToBinary(b)
}

func (b *HashHeight) Deserialize(data []byte) error {
	return seria.FromBinary(data, b)
}

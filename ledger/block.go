package ledger

import (
	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/seria"
)

type BlockHeader struct {
	MajorVersion      uint8
	MinorVersion      uint8
	Timestamp         uint64
	PreviousBlockHash types.Hash
	Nonce             uint32
	Height            uint32
}

func (h *BlockHeader) seriaFields(s seria.Archive) {
	s.ObjectKey("majorVersion")
	s.Uint8(&h.MajorVersion)
	s.ObjectKey("minorVersion")
	s.Uint8(&h.MinorVersion)
	s.ObjectKey("timestamp")
	s.Uint64(&h.Timestamp)
	seria.Field(s, "previousBlockHash", &h.PreviousBlockHash)
	s.ObjectKey("nonce")
	s.Uint32(&h.Nonce)
	s.ObjectKey("height")
	s.Uint32(&h.Height)
}

func (h *BlockHeader) Seria(s seria.Archive) {
	s.BeginObject()
	h.seriaFields(s)
	s.EndObject()
}

type Block struct {
	BlockHeader

	BaseTransaction   Transaction
	TransactionHashes []types.Hash
}

func (b *Block) Seria(s seria.Archive) {
	s.BeginObject()
	b.seriaFields(s)
	seria.Field(s, "baseTransaction", &b.BaseTransaction)
	s.ObjectKey("transactionHashes")
	seria.SliceOf(s, &b.TransactionHashes)
	s.EndObject()
}

func (b *Block) Hash() (types.Hash, error) {
	return hashOf(b)
}

func (b *Block) HashHeight() (*HashHeight, error) {
	hash, err := b.Hash()
	if err != nil {
		return nil, err
	}
	return &HashHeight{Height: b.Height, Hash: hash}, nil
}

func (b *Block) Serialize() ([]byte, error) {
	return seria.ToBinary(b)
}

func (b *Block) Deserialize(data []byte) error {
	return seria.FromBinary(data, b)
}

package api

import (
	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/seria"
	"github.com/vitelabs/go-walletd/wallet"
)

// Empty is the params or result of methods that take or return nothing.
type Empty struct{}

func (e *Empty) Seria(s seria.Archive) {
	s.BeginObject()
	s.EndObject()
}

type GetStatusResponse struct {
	TopBlockHeight uint32
	TopBlockHash   types.Hash
	AddressCount   uint32
	ScanHeight     uint32
	ViewOnly       bool
}

func (r *GetStatusResponse) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("topBlockHeight")
	s.Uint32(&r.TopBlockHeight)
	seria.Field(s, "topBlockHash", &r.TopBlockHash)
	s.ObjectKey("addressCount")
	s.Uint32(&r.AddressCount)
	s.ObjectKey("scanHeight")
	s.Uint32(&r.ScanHeight)
	s.ObjectKey("viewOnly")
	s.Bool(&r.ViewOnly)
	s.EndObject()
}

type Address struct {
	wallet.AddressRecord
}

func (a *Address) Seria(s seria.Archive) {
	a.AddressRecord.Seria(s)
}

type GetAddressesResponse struct {
	Addresses []Address
}

func (r *GetAddressesResponse) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("addresses")
	seria.SliceOf(s, &r.Addresses)
	s.EndObject()
}

type CreateAddressRequest struct {
	Label string
}

func (r *CreateAddressRequest) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("label")
	s.String(&r.Label)
	s.EndObject()
}

type CreateAddressResponse struct {
	Address Address
}

func (r *CreateAddressResponse) Seria(s seria.Archive) {
	s.BeginObject()
	seria.Field(s, "address", &r.Address)
	s.EndObject()
}

// GetBlockHeaderRequest selects a block by hash when Hash is set and by
// height otherwise.
type GetBlockHeaderRequest struct {
	Height uint32
	Hash   types.Hash
}

func (r *GetBlockHeaderRequest) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("height")
	s.Uint32(&r.Height)
	seria.Field(s, "hash", &r.Hash)
	s.EndObject()
}

type BlockHeader struct {
	Hash                types.Hash
	Height              uint32
	MajorVersion        uint8
	MinorVersion        uint8
	Timestamp           uint64
	PreviousBlockHash   types.Hash
	Nonce               uint32
	TransactionCount    uint32
	BaseTransactionHash types.Hash
}

func (h *BlockHeader) Seria(s seria.Archive) {
	s.BeginObject()
	seria.Field(s, "hash", &h.Hash)
	s.ObjectKey("height")
	s.Uint32(&h.Height)
	s.ObjectKey("majorVersion")
	s.Uint8(&h.MajorVersion)
	s.ObjectKey("minorVersion")
	s.Uint8(&h.MinorVersion)
	s.ObjectKey("timestamp")
	s.Uint64(&h.Timestamp)
	seria.Field(s, "previousBlockHash", &h.PreviousBlockHash)
	s.ObjectKey("nonce")
	s.Uint32(&h.Nonce)
	s.ObjectKey("transactionCount")
	s.Uint32(&h.TransactionCount)
	seria.Field(s, "baseTransactionHash", &h.BaseTransactionHash)
	s.EndObject()
}

type GetBlockHeaderResponse struct {
	BlockHeader BlockHeader
}

func (r *GetBlockHeaderResponse) Seria(s seria.Archive) {
	s.BeginObject()
	seria.Field(s, "blockHeader", &r.BlockHeader)
	s.EndObject()
}

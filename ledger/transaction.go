package ledger

import (
	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/seria"
)

const (
	InputTypeCoinbase = "coinbase"
	InputTypeKey      = "key"
)

// CoinbaseInput mints the block reward at a given height.
type CoinbaseInput struct {
	Height uint32
}

// KeyInput spends Amount from one of the outputs referenced by
// OutputIndexes. OutputIndexes are relative offsets.
type KeyInput struct {
	Amount        uint64
	OutputIndexes []uint32
	KeyImage      types.KeyImage
}

// TransactionInput holds exactly one of Coinbase or Key.
type TransactionInput struct {
	Coinbase *CoinbaseInput
	Key      *KeyInput
}

func (in *TransactionInput) Type() string {
	switch {
	case in.Coinbase != nil:
		return InputTypeCoinbase
	case in.Key != nil:
		return InputTypeKey
	}
	return ""
}

func (in *TransactionInput) Seria(s seria.Archive) {
	s.BeginObject()
	kind := in.Type()
	s.ObjectKey("type")
	s.String(&kind)
	switch kind {
	case InputTypeCoinbase:
		if in.Coinbase == nil {
			in.Coinbase, in.Key = &CoinbaseInput{}, nil
		}
		s.ObjectKey("height")
		s.Uint32(&in.Coinbase.Height)
	case InputTypeKey:
		if in.Key == nil {
			in.Coinbase, in.Key = nil, &KeyInput{}
		}
		s.ObjectKey("amount")
		s.Uint64(&in.Key.Amount)
		s.ObjectKey("outputIndexes")
		seria.Slice(s, &in.Key.OutputIndexes, seria.Archive.Uint32)
		seria.Field(s, "keyImage", &in.Key.KeyImage)
	default:
		s.Fail(errors.Wrapf(ErrUnknownInputType, "%q", kind))
		return
	}
	s.EndObject()
}

type TransactionOutput struct {
	Amount uint64
	Key    types.PublicKey
}

func (out *TransactionOutput) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("amount")
	s.Uint64(&out.Amount)
	seria.Field(s, "key", &out.Key)
	s.EndObject()
}

type TransactionPrefix struct {
	Version    uint8
	UnlockTime uint64
	Inputs     []TransactionInput
	Outputs    []TransactionOutput
	Extra      []byte
}

// seriaFields writes the prefix members into an already open object.
func (p *TransactionPrefix) seriaFields(s seria.Archive) {
	s.ObjectKey("version")
	s.Uint8(&p.Version)
	s.ObjectKey("unlockTime")
	s.Uint64(&p.UnlockTime)
	s.ObjectKey("inputs")
	seria.SliceOf(s, &p.Inputs)
	s.ObjectKey("outputs")
	seria.SliceOf(s, &p.Outputs)
	s.ObjectKey("extra")
	s.Bytes(&p.Extra)
}

func (p *TransactionPrefix) Seria(s seria.Archive) {
	s.BeginObject()
	p.seriaFields(s)
	s.EndObject()
}

// Hash identifies the prefix; ring signatures sign this value.
func (p *TransactionPrefix) Hash() (types.Hash, error) {
	return hashOf(p)
}

type Transaction struct {
	TransactionPrefix

	// One signature list per input.
	Signatures [][]types.Signature
}

func (tx *Transaction) Seria(s seria.Archive) {
	s.BeginObject()
	tx.seriaFields(s)
	s.ObjectKey("signatures")
	seria.Slice(s, &tx.Signatures, func(s seria.Archive, sigs *[]types.Signature) {
		seria.SliceOf(s, sigs)
	})
	s.EndObject()
}

func (tx *Transaction) Hash() (types.Hash, error) {
	return hashOf(tx)
}

func (tx *Transaction) Serialize() ([]byte, error) {
	return seria.ToBinary(tx)
}

func (tx *Transaction) Deserialize(data []byte) error {
	return seria.FromBinary(data, tx)
}

// OutputAmount sums the outputs. Overflow wraps.
func (tx *Transaction) OutputAmount() uint64 {
	var sum uint64
	for _, out := range tx.Outputs {
		sum += out.Amount
	}
	return sum
}

func hashOf(v seria.Serializer) (types.Hash, error) {
	data, err := seria.ToBinary(v)
	if err != nil {
		return types.Hash{}, err
	}
	return types.DataHash(data), nil
}

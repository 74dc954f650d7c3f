package types

import (
	"encoding/hex"
	"fmt"

	"github.com/vitelabs/go-walletd/crypto"
	"github.com/vitelabs/go-walletd/seria"
)

const (
	HashSize = 32
)

type Hash [HashSize]byte

var ZeroHash = Hash{}

func BytesToHash(b []byte) (Hash, error) {
	var h Hash
	err := h.SetBytes(b)
	return h, err
}

func HexToHash(hexstr string) (Hash, error) {
	if len(hexstr) != 2*HashSize {
		return Hash{}, fmt.Errorf("error hex hash size %v", len(hexstr))
	}
	b, err := hex.DecodeString(hexstr)
	if err != nil {
		return Hash{}, err
	}
	return BytesToHash(b)
}

func HexToHashPanic(hexstr string) Hash {
	h, err := HexToHash(hexstr)
	if err != nil {
		panic(err)
	}
	return h
}

// DataHash is the blake2b-256 digest of the concatenated inputs.
func DataHash(data ...[]byte) Hash {
	var h Hash
	copy(h[:], crypto.Hash256(data...))
	return h
}

func (h *Hash) SetBytes(b []byte) error {
	if len(b) != HashSize {
		return fmt.Errorf("error hash size %v", len(b))
	}
	copy(h[:], b)
	return nil
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return h.Hex()
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h *Hash) Seria(s seria.Archive) {
	s.Raw(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *Hash) UnmarshalText(input []byte) error {
	hash, err := HexToHash(string(input))
	if err != nil {
		return err
	}
	*h = hash
	return nil
}

package types

import (
	"encoding/hex"
	"fmt"

	"github.com/vitelabs/go-walletd/seria"
)

const (
	KeySize       = 32
	SignatureSize = 64
)

type PublicKey [KeySize]byte
type SecretKey [KeySize]byte
type KeyImage [KeySize]byte
type Signature [SignatureSize]byte

func decodeFixed(dst []byte, hexstr string) error {
	if len(hexstr) != 2*len(dst) {
		return fmt.Errorf("error hex size %v, want %v", len(hexstr), 2*len(dst))
	}
	b, err := hex.DecodeString(hexstr)
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func HexToPublicKey(hexstr string) (PublicKey, error) {
	var k PublicKey
	err := decodeFixed(k[:], hexstr)
	return k, err
}

func HexToKeyImage(hexstr string) (KeyImage, error) {
	var k KeyImage
	err := decodeFixed(k[:], hexstr)
	return k, err
}

func HexToSignature(hexstr string) (Signature, error) {
	var sig Signature
	err := decodeFixed(sig[:], hexstr)
	return sig, err
}

func (k PublicKey) Hex() string    { return hex.EncodeToString(k[:]) }
func (k PublicKey) String() string { return k.Hex() }
func (k *PublicKey) Seria(s seria.Archive) {
	s.Raw(k[:])
}
func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.Hex()), nil
}

// String never prints the key itself.
func (k SecretKey) String() string { return "<secret>" }
func (k *SecretKey) Seria(s seria.Archive) {
	s.Raw(k[:])
}

func (k KeyImage) Hex() string    { return hex.EncodeToString(k[:]) }
func (k KeyImage) String() string { return k.Hex() }
func (k *KeyImage) Seria(s seria.Archive) {
	s.Raw(k[:])
}

func (sig Signature) Hex() string    { return hex.EncodeToString(sig[:]) }
func (sig Signature) String() string { return sig.Hex() }
func (sig *Signature) Seria(s seria.Archive) {
	s.Raw(sig[:])
}

package entropystore

import "github.com/vitelabs/go-walletd/seria"

type scryptParams struct {
	N      int32
	R      int32
	P      int32
	KeyLen int32
	Salt   []byte
}

func (p *scryptParams) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("n")
	s.Int32(&p.N)
	s.ObjectKey("r")
	s.Int32(&p.R)
	s.ObjectKey("p")
	s.Int32(&p.P)
	s.ObjectKey("keyLen")
	s.Int32(&p.KeyLen)
	s.ObjectKey("salt")
	s.Bytes(&p.Salt)
	s.EndObject()
}

// fileEnvelope is the outer, unencrypted layer of a wallet file.
type fileEnvelope struct {
	Version      uint32
	KDF          string
	ScryptParams scryptParams
	Cipher       string
	Nonce        []byte
	CipherText   []byte
}

func (e *fileEnvelope) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("version")
	s.Uint32(&e.Version)
	s.ObjectKey("kdf")
	s.String(&e.KDF)
	seria.Field(s, "scryptParams", &e.ScryptParams)
	s.ObjectKey("cipher")
	s.String(&e.Cipher)
	s.ObjectKey("nonce")
	s.Bytes(&e.Nonce)
	s.ObjectKey("cipherText")
	s.Bytes(&e.CipherText)
	s.EndObject()
}

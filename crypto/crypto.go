package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"io"

	"golang.org/x/crypto/ed25519"
)

const (
	gcmAdditionData = "walletd"
	gcmNonceSize    = 12
)

func AesGCMEncrypt(key, inText []byte) (outText, nonce []byte, err error) {
	aesBlock, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	stream, err := cipher.NewGCM(aesBlock)
	if err != nil {
		return nil, nil, err
	}

	nonce = GetEntropyCSPRNG(gcmNonceSize)

	outText = stream.Seal(nil, nonce, inText, []byte(gcmAdditionData))
	return outText, nonce, nil
}

func AesGCMDecrypt(key, cipherText, nonce []byte) ([]byte, error) {
	aesBlock, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	stream, err := cipher.NewGCM(aesBlock)
	if err != nil {
		return nil, err
	}
	if len(nonce) != stream.NonceSize() {
		return nil, ErrNonceSize
	}

	return stream.Open(nil, nonce, cipherText, []byte(gcmAdditionData))
}

func GetEntropyCSPRNG(n int) []byte {
	mainBuff := make([]byte, n)
	_, err := io.ReadFull(crand.Reader, mainBuff)
	if err != nil {
		panic("reading from crypto/rand failed: " + err.Error())
	}
	return mainBuff
}

// DeriveKeyPair turns seed material into an ed25519 key pair. The seed is
// hashed first so any length is accepted.
func DeriveKeyPair(seed ...[]byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	priv := ed25519.NewKeyFromSeed(Hash256(seed...))
	return priv.Public().(ed25519.PublicKey), priv
}

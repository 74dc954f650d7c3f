package entropystore

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"

	vcrypto "github.com/vitelabs/go-walletd/crypto"
	"github.com/vitelabs/go-walletd/seria"
	"github.com/vitelabs/go-walletd/wallet/walleterrors"
)

const (
	// StandardScryptN is the N parameter of Scrypt encryption algorithm, using 256MB
	// memory and taking approximately 1s CPU time on a modern processor.
	StandardScryptN = 1 << 18

	// StandardScryptP is the P parameter of Scrypt encryption algorithm, using 256MB
	// memory and taking approximately 1s CPU time on a modern processor.
	StandardScryptP = 1

	// LightScryptN is the N parameter of Scrypt encryption algorithm, using 4MB
	// memory and taking approximately 100ms CPU time on a modern processor.
	LightScryptN = 1 << 12

	// LightScryptP is the P parameter of Scrypt encryption algorithm, using 4MB
	// memory and taking approximately 100ms CPU time on a modern processor.
	LightScryptP = 6

	scryptR      = 8
	scryptKeyLen = 32
	saltLen      = 32

	aesMode    = "aes-256-gcm"
	scryptName = "scrypt"

	storeVersion = 1
)

// CryptoStore keeps one encrypted payload in a file.
type CryptoStore struct {
	Filename       string
	UseLightScrypt bool
}

func NewCryptoStore(filename string, useLightScrypt bool) *CryptoStore {
	return &CryptoStore{
		Filename:       filename,
		UseLightScrypt: useLightScrypt,
	}
}

func (ks CryptoStore) Exists() bool {
	_, err := os.Stat(ks.Filename)
	return err == nil
}

// Load reads and decrypts the payload. It also reports whether the file
// was written with light scrypt parameters.
func (ks CryptoStore) Load(passphrase string) (plain []byte, light bool, err error) {
	data, err := ioutil.ReadFile(ks.Filename)
	if err != nil {
		return nil, false, err
	}
	return Decrypt(data, passphrase)
}

func (ks CryptoStore) Store(plain []byte, passphrase string) error {
	data, err := Encrypt(plain, passphrase, ks.UseLightScrypt)
	if err != nil {
		return err
	}
	return writeKeyFile(ks.Filename, data)
}

func Encrypt(plain []byte, passphrase string, useLightScrypt bool) ([]byte, error) {
	n := StandardScryptN
	p := StandardScryptP
	if useLightScrypt {
		n = LightScryptN
		p = LightScryptP
	}
	salt := vcrypto.GetEntropyCSPRNG(saltLen)
	derivedKey, err := scrypt.Key([]byte(passphrase), salt, n, scryptR, p, scryptKeyLen)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := vcrypto.AesGCMEncrypt(derivedKey[:32], plain)
	if err != nil {
		return nil, err
	}

	envelope := &fileEnvelope{
		Version: storeVersion,
		KDF:     scryptName,
		ScryptParams: scryptParams{
			N:      int32(n),
			R:      scryptR,
			P:      int32(p),
			KeyLen: scryptKeyLen,
			Salt:   salt,
		},
		Cipher:     aesMode,
		Nonce:      nonce,
		CipherText: ciphertext,
	}
	return seria.ToJSONIndent(envelope, "  ")
}

func Decrypt(fileJSON []byte, passphrase string) (plain []byte, light bool, err error) {
	envelope := new(fileEnvelope)
	if err := seria.FromJSON(fileJSON, envelope); err != nil {
		return nil, false, errors.Wrap(err, "parse wallet file")
	}
	if envelope.Version != storeVersion {
		return nil, false, errors.Wrapf(walleterrors.ErrUnsupportedVersion, "file version %d", envelope.Version)
	}
	if envelope.Cipher != aesMode {
		return nil, false, errors.Wrapf(walleterrors.ErrUnsupportedCipher, "cipher %q", envelope.Cipher)
	}
	if envelope.KDF != scryptName {
		return nil, false, errors.Wrapf(walleterrors.ErrUnsupportedCipher, "kdf %q", envelope.KDF)
	}

	params := envelope.ScryptParams
	if params.KeyLen < 32 {
		return nil, false, errors.Wrapf(walleterrors.ErrUnsupportedCipher, "key length %d", params.KeyLen)
	}
	derivedKey, err := scrypt.Key([]byte(passphrase), params.Salt, int(params.N), int(params.R), int(params.P), int(params.KeyLen))
	if err != nil {
		return nil, false, err
	}

	plain, err = vcrypto.AesGCMDecrypt(derivedKey[:32], envelope.CipherText, envelope.Nonce)
	if err != nil {
		return nil, false, walleterrors.ErrDecrypt
	}
	return plain, params.N == LightScryptN, nil
}

// writeKeyFile replaces file atomically.
func writeKeyFile(file string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return err
	}

	f, err := ioutil.TempFile(filepath.Dir(file), "."+filepath.Base(file)+".tmp")
	if err != nil {
		return err
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	f.Close()
	return os.Rename(f.Name(), file)
}

package wallet

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/crypto"
	"github.com/vitelabs/go-walletd/seria"
	"github.com/vitelabs/go-walletd/wallet/entropystore"
	"github.com/vitelabs/go-walletd/wallet/walleterrors"
)

const entropyBits = 256

// Wallet is an open wallet file. All methods are safe for concurrent use.
type Wallet struct {
	store    *entropystore.CryptoStore
	password string

	mu     sync.RWMutex
	record *Record

	log log.Logger
}

func newWallet(path, password string, light bool, record *Record) *Wallet {
	return &Wallet{
		store:    entropystore.NewCryptoStore(path, light),
		password: password,
		record:   record,
		log:      log.New("module", "wallet", "file", path),
	}
}

// Create makes a new wallet with fresh entropy and one primary address.
func Create(path, password string, light bool) (*Wallet, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return nil, err
	}
	return createWithEntropy(path, password, light, entropy)
}

// Restore makes a new wallet from an existing mnemonic.
func Restore(path, password, mnemonic string, light bool) (*Wallet, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	return createWithEntropy(path, password, light, entropy)
}

func createWithEntropy(path, password string, light bool, entropy []byte) (*Wallet, error) {
	w := newWallet(path, password, light, &Record{
		Version:           recordVersion,
		CreationTimestamp: uint64(time.Now().Unix()),
		Entropy:           entropy,
	})
	if w.store.Exists() {
		return nil, errors.Wrapf(walleterrors.ErrFileExists, "%s", path)
	}
	w.record.Addresses = append(w.record.Addresses, w.deriveAddress(0, ""))
	if err := w.save(); err != nil {
		return nil, err
	}
	w.log.Info("wallet created", "address", w.record.Addresses[0].SpendPublicKey)
	return w, nil
}

func Open(path, password string) (*Wallet, error) {
	store := entropystore.NewCryptoStore(path, false)
	plain, light, err := store.Load(password)
	if err != nil {
		return nil, err
	}

	record := new(Record)
	if err := seria.FromJSON(plain, record); err != nil {
		return nil, errors.Wrap(err, "decode wallet record")
	}
	if record.Version != recordVersion {
		return nil, errors.Wrapf(walleterrors.ErrUnsupportedVersion, "record version %d", record.Version)
	}

	w := newWallet(path, password, light, record)
	w.log.Info("wallet opened", "addresses", len(record.Addresses), "viewOnly", record.ViewOnly)
	return w, nil
}

func (w *Wallet) Path() string {
	return w.store.Filename
}

func (w *Wallet) Save() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.save()
}

func (w *Wallet) save() error {
	plain, err := seria.ToJSON(w.record)
	if err != nil {
		return err
	}
	return w.store.Store(plain, w.password)
}

func (w *Wallet) SetPassword(password string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	old := w.password
	w.password = password
	if err := w.save(); err != nil {
		w.password = old
		return err
	}
	return nil
}

// ExportViewOnly writes a copy of the wallet without its entropy. The
// copy can list addresses and track the chain but cannot derive new
// addresses or show a mnemonic.
func (w *Wallet) ExportViewOnly(path string) error {
	w.mu.RLock()
	record := w.record.clone()
	password, light := w.password, w.store.UseLightScrypt
	w.mu.RUnlock()

	record.Entropy = nil
	record.ViewOnly = true

	export := newWallet(path, password, light, record)
	if export.store.Exists() {
		return errors.Wrapf(walleterrors.ErrFileExists, "%s", path)
	}
	return export.save()
}

func (w *Wallet) IsViewOnly() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.record.ViewOnly
}

func (w *Wallet) Mnemonic() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.record.ViewOnly {
		return "", walleterrors.ErrViewOnly
	}
	return bip39.NewMnemonic(w.record.Entropy)
}

func (w *Wallet) deriveAddress(index uint32, label string) AddressRecord {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, index)
	pub, _ := crypto.DeriveKeyPair(w.record.Entropy, []byte("spend"), buf)

	a := AddressRecord{
		Index:             index,
		Label:             label,
		CreationTimestamp: uint64(time.Now().Unix()),
	}
	copy(a.SpendPublicKey[:], pub)
	return a
}

func (w *Wallet) CreateAddress(label string) (AddressRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.record.ViewOnly {
		return AddressRecord{}, walleterrors.ErrViewOnly
	}
	a := w.deriveAddress(uint32(len(w.record.Addresses)), label)
	w.record.Addresses = append(w.record.Addresses, a)
	if err := w.save(); err != nil {
		w.record.Addresses = w.record.Addresses[:len(w.record.Addresses)-1]
		return AddressRecord{}, err
	}
	w.log.Info("address created", "index", a.Index, "key", a.SpendPublicKey)
	return a, nil
}

func (w *Wallet) Addresses() []AddressRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]AddressRecord(nil), w.record.Addresses...)
}

func (w *Wallet) Address(index uint32) (AddressRecord, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if int(index) >= len(w.record.Addresses) {
		return AddressRecord{}, errors.Wrapf(walleterrors.ErrAddressNotFound, "index %d", index)
	}
	return w.record.Addresses[index], nil
}

// SetLabel attaches a label to key in the wallet's address book. An
// empty label removes the entry.
func (w *Wallet) SetLabel(key, label string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	old, had := w.record.Labels[key]
	if label == "" {
		delete(w.record.Labels, key)
	} else {
		if w.record.Labels == nil {
			w.record.Labels = make(map[string]string)
		}
		w.record.Labels[key] = label
	}
	if err := w.save(); err != nil {
		if had {
			w.record.Labels[key] = old
		} else {
			delete(w.record.Labels, key)
		}
		return err
	}
	return nil
}

func (w *Wallet) Labels() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	labels := make(map[string]string, len(w.record.Labels))
	for k, v := range w.record.Labels {
		labels[k] = v
	}
	return labels
}

func (w *Wallet) ScanHeight() uint32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.record.ScanHeight
}

func (w *Wallet) SetScanHeight(height uint32) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	old := w.record.ScanHeight
	w.record.ScanHeight = height
	if err := w.save(); err != nil {
		w.record.ScanHeight = old
		return err
	}
	return nil
}

// CacheName names the chain cache for this wallet. A view only export
// shares the name of the wallet it came from.
func (w *Wallet) CacheName() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, w.record.CreationTimestamp)
	var primary types.PublicKey
	if len(w.record.Addresses) > 0 {
		primary = w.record.Addresses[0].SpendPublicKey
	}
	return types.DataHash(primary[:], ts).Hex()
}

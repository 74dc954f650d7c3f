package walleterrors

import "github.com/pkg/errors"

var (
	ErrDecrypt            = errors.New("error decrypting wallet, wrong password or corrupted file")
	ErrViewOnly           = errors.New("the wallet is view only")
	ErrUnsupportedVersion = errors.New("unsupported wallet file version")
	ErrUnsupportedCipher  = errors.New("unsupported wallet file cipher")
	ErrFileExists         = errors.New("wallet file already exists")
	ErrAddressNotFound    = errors.New("address not found in wallet")
)

package crypto

import "github.com/pkg/errors"

var ErrNonceSize = errors.New("invalid gcm nonce size")

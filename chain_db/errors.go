package chain_db

import "github.com/pkg/errors"

var (
	ErrBlockNotFound    = errors.New("block not found")
	ErrHeightMismatch   = errors.New("block height does not follow the top block")
	ErrPrevHashMismatch = errors.New("previous block hash does not match the top block")
	ErrClosed           = errors.New("chain db is closed")
)

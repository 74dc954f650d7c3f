package ledger

import "github.com/pkg/errors"

var ErrUnknownInputType = errors.New("unknown transaction input type")

package rpcapi

import (
	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/chain_db"
	"github.com/vitelabs/go-walletd/seria"
	"github.com/vitelabs/go-walletd/wallet/walleterrors"
)

// Standard JSON-RPC 2.0 codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

type JsonRpc2Error struct {
	Code    int64
	Message string
}

func (e JsonRpc2Error) Error() string {
	return e.Message
}

func (e JsonRpc2Error) ErrorCode() int64 {
	return e.Code
}

func (e *JsonRpc2Error) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("code")
	s.Int64(&e.Code)
	s.ObjectKey("message")
	s.String(&e.Message)
	s.EndObject()
}

var (
	ErrMethodNotFound = errors.New("method not found")

	ErrViewOnly = JsonRpc2Error{
		Message: walleterrors.ErrViewOnly.Error(),
		Code:    -34001,
	}

	ErrAddressNotFound = JsonRpc2Error{
		Message: walleterrors.ErrAddressNotFound.Error(),
		Code:    -34002,
	}

	ErrBlockNotFound = JsonRpc2Error{
		Message: chain_db.ErrBlockNotFound.Error(),
		Code:    -35001,
	}

	concernedErrors = []struct {
		cause error
		rpc   JsonRpc2Error
	}{
		{walleterrors.ErrViewOnly, ErrViewOnly},
		{walleterrors.ErrAddressNotFound, ErrAddressNotFound},
		{chain_db.ErrBlockNotFound, ErrBlockNotFound},
	}
)

// errorFor maps a handler error onto the error object sent to clients.
// Errors callers can act on keep their own code; anything else is an
// internal error.
func errorFor(err error) JsonRpc2Error {
	var rpcErr JsonRpc2Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	for _, c := range concernedErrors {
		if errors.Is(err, c.cause) {
			return JsonRpc2Error{Code: c.rpc.Code, Message: err.Error()}
		}
	}
	return JsonRpc2Error{Code: CodeInternalError, Message: err.Error()}
}

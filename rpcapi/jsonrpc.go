package rpcapi

import (
	"github.com/vitelabs/go-walletd/common/value"
	"github.com/vitelabs/go-walletd/seria"
)

const jsonRPCVersion = "2.0"

type Request struct {
	JSONRPC string
	ID      *value.Value
	Method  string
	Params  *value.Value
}

func (r *Request) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("jsonrpc")
	s.String(&r.JSONRPC)
	s.ObjectKey("id")
	seria.Tree(s, &r.ID)
	s.ObjectKey("method")
	s.String(&r.Method)
	s.ObjectKey("params")
	seria.Tree(s, &r.Params)
	s.EndObject()
}

type Response struct {
	JSONRPC string
	ID      *value.Value
	Result  *value.Value
	Error   *JsonRpc2Error
}

// Seria writes either result or error, never both.
func (r *Response) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("jsonrpc")
	s.String(&r.JSONRPC)
	s.ObjectKey("id")
	seria.Tree(s, &r.ID)
	if s.IsInput() || r.Error == nil {
		s.ObjectKey("result")
		seria.Tree(s, &r.Result)
	}
	if s.IsInput() || r.Error != nil {
		if r.Error == nil {
			r.Error = new(JsonRpc2Error)
		}
		seria.Field(s, "error", r.Error)
		if s.IsInput() && r.Error.Code == 0 && r.Error.Message == "" {
			r.Error = nil
		}
	}
	s.EndObject()
}

func newResult(id, result *value.Value) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func newError(id *value.Value, err JsonRpc2Error) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Error: &err}
}

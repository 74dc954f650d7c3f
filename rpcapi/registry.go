package rpcapi

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common/value"
	"github.com/vitelabs/go-walletd/seria"
)

// Handler serves one method. params is nil when the request has none.
type Handler func(params *value.Value) (*value.Value, error)

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Call(method string, params *value.Value) (*value.Value, error) {
	r.mu.RLock()
	h, ok := r.handlers[method]
	r.mu.RUnlock()
	if !ok {
		return nil, JsonRpc2Error{Code: CodeMethodNotFound, Message: errors.Wrapf(ErrMethodNotFound, "%q", method).Error()}
	}
	return h(params)
}

// Method adapts a typed function to a Handler. Params are read into a
// fresh P, so absent fields keep P's zero value; an absent params member
// is read as an empty object.
func Method[P any, R any, PP interface {
	*P
	seria.Serializer
}, RP interface {
	*R
	seria.Serializer
}](fn func(*P) (*R, error)) Handler {
	return func(params *value.Value) (*value.Value, error) {
		p := PP(new(P))
		if params == nil || params.IsNull() {
			params = value.NewObject()
		}
		if err := seria.FromValue(params, p); err != nil {
			return nil, JsonRpc2Error{Code: CodeInvalidParams, Message: err.Error()}
		}
		result, err := fn((*P)(p))
		if err != nil {
			return nil, err
		}
		return seria.ToValue(RP(result))
	}
}

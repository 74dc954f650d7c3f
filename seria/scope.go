package seria

import (
	"strconv"

	"github.com/golang-collections/collections/stack"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-walletd/common/value"
)

type scopeKind uint8

const (
	scopeObject scopeKind = iota
	scopeArray
	scopeMap
)

func (k scopeKind) String() string {
	switch k {
	case scopeObject:
		return "object"
	case scopeArray:
		return "array"
	case scopeMap:
		return "map"
	}
	return "unknown"
}

// frame is one open begin/end scope.
type frame struct {
	kind scopeKind
	path string

	// node is the tree node of the scope. Readers leave it nil for a
	// scope whose value was absent, so everything inside resolves to
	// nothing.
	node *value.Value

	// index is the next array position, or the number of map keys
	// consumed or produced so far.
	index int
	// size is the declared element count (binary archives).
	size int

	// keys is the iteration order of a map being read.
	keys []string
	// key is the map key staged for the next value.
	key    string
	staged bool
}

type scopeStack struct {
	frames *stack.Stack
}

func newScopeStack() *scopeStack {
	return &scopeStack{frames: stack.New()}
}

// Depth is the number of open scopes.
func (st *scopeStack) Depth() int {
	return st.frames.Len()
}

func (st *scopeStack) push(f *frame) {
	st.frames.Push(f)
}

func (st *scopeStack) top() *frame {
	if f, ok := st.frames.Peek().(*frame); ok {
		return f
	}
	return nil
}

// pop closes the innermost scope, which must be of kind.
func (st *scopeStack) pop(kind scopeKind) (*frame, error) {
	f := st.top()
	if f == nil {
		return nil, errors.Wrapf(ErrScopeMismatch, "closing %s with no open scope", kind)
	}
	if f.kind != kind {
		return nil, errors.Wrapf(ErrScopeMismatch, "%s: closing %s inside %s", pathOf(f.path), kind, f.kind)
	}
	st.frames.Pop()
	return f, nil
}

// childPath is the path of the next value inside f. name is the pending
// object key, if any.
func (st *scopeStack) childPath(name string) string {
	f := st.top()
	if f == nil {
		return ""
	}
	switch f.kind {
	case scopeArray:
		return f.path + "/" + strconv.Itoa(f.index)
	case scopeMap:
		return f.path + "/" + f.key
	}
	return f.path + "/" + name
}

func pathOf(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

package seria

import "github.com/pkg/errors"

var (
	// ErrStructureMismatch is returned when a scope is opened on a value
	// of the wrong kind, or when begin and end calls do not pair up.
	ErrStructureMismatch = errors.New("seria: structure mismatch")

	// ErrCoercionMismatch is returned when a primitive is read from a
	// value of an incompatible kind.
	ErrCoercionMismatch = errors.New("seria: coercion mismatch")

	ErrScopeMismatch   = errors.WithMessage(ErrStructureMismatch, "end does not match begin")
	ErrMissingKey      = errors.WithMessage(ErrStructureMismatch, "value inside object without key")
	ErrUnbalancedScope = errors.WithMessage(ErrStructureMismatch, "scope left open")
	ErrMultipleRoots   = errors.WithMessage(ErrStructureMismatch, "more than one top-level value")

	ErrUnexpectedEOF = errors.New("seria: unexpected end of binary data")
	ErrTrailingData  = errors.New("seria: trailing binary data")
)

// IsStructural reports whether err is, or wraps, a structure mismatch.
func IsStructural(err error) bool {
	return errors.Is(err, ErrStructureMismatch)
}

package seria

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-walletd/common/value"
)

type envelope struct {
	Kind string
	Body *value.Value
}

func (e *envelope) Seria(s Archive) {
	s.BeginObject()
	s.ObjectKey("kind")
	s.String(&e.Kind)
	s.ObjectKey("body")
	Tree(s, &e.Body)
	s.EndObject()
}

func TestTreePassThrough(t *testing.T) {
	var e envelope
	require.NoError(t, FromJSON([]byte(`{"kind":"x","body":{"a":[1,-2,"s"],"b":null}}`), &e))
	assert.Equal(t, "x", e.Kind)
	require.NotNil(t, e.Body)
	assert.Equal(t, []string{"a", "b"}, e.Body.Keys())

	text, err := ToJSON(&e)
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"x","body":{"a":[1,-2,"s"],"b":null}}`, string(text))
}

func TestTreeMissingAndNil(t *testing.T) {
	keep := value.String("keep")
	e := envelope{Body: keep}
	require.NoError(t, FromJSON([]byte(`{"kind":"y"}`), &e))
	assert.Same(t, keep, e.Body)

	text, err := ToJSON(&envelope{Kind: "z"})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"z","body":null}`, string(text))
}

func TestTreeBinary(t *testing.T) {
	body := value.NewObject()
	body.Set("n", value.Uint64(3))
	arr := value.NewArray()
	arr.Append(value.Bool(true))
	body.Set("list", arr)

	data, err := ToBinary(&envelope{Kind: "k", Body: body})
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var back envelope
	err = FromBinary(data, &back)
	assert.True(t, errors.Is(err, ErrStructureMismatch))

	_, err = ToBinary(&envelope{Kind: "k"})
	assert.True(t, errors.Is(err, ErrCoercionMismatch))
}

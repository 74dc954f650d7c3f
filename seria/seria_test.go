package seria

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-walletd/common/value"
)

type point struct {
	X    int32
	Y    uint64
	Tag  string
	Blob []byte
	Ok   bool
	F    float64
	I8   int8
	U16  uint16
}

func (p *point) Seria(s Archive) {
	s.BeginObject()
	s.ObjectKey("x")
	s.Int32(&p.X)
	s.ObjectKey("y")
	s.Uint64(&p.Y)
	s.ObjectKey("tag")
	s.String(&p.Tag)
	s.ObjectKey("blob")
	s.Bytes(&p.Blob)
	s.ObjectKey("ok")
	s.Bool(&p.Ok)
	s.ObjectKey("f")
	s.Float64(&p.F)
	s.ObjectKey("i8")
	s.Int8(&p.I8)
	s.ObjectKey("u16")
	s.Uint16(&p.U16)
	s.EndObject()
}

type shape struct {
	Name   string
	Points []point
	Attrs  map[string]uint32
	Digest [4]byte
	Fixed  [3]uint16
	Counts []int64
}

func (sh *shape) Seria(s Archive) {
	s.BeginObject()
	s.ObjectKey("name")
	s.String(&sh.Name)
	s.ObjectKey("points")
	SliceOf(s, &sh.Points)
	s.ObjectKey("attrs")
	StringMap(s, &sh.Attrs, Archive.Uint32)
	s.ObjectKey("digest")
	s.Raw(sh.Digest[:])
	s.ObjectKey("fixed")
	FixedSlice(s, sh.Fixed[:], Archive.Uint16)
	s.ObjectKey("counts")
	Slice(s, &sh.Counts, Archive.Int64)
	s.EndObject()
}

func sampleShape() *shape {
	return &shape{
		Name: "triangle",
		Points: []point{
			{X: -1, Y: math.MaxUint64, Tag: "a", Blob: []byte{1, 2, 3}, Ok: true, F: 0.25, I8: -128, U16: 65535},
			{X: math.MaxInt32, Y: 0, Tag: "", F: -3},
			{X: 7, Y: 1 << 40, Tag: "c", Blob: []byte{0xff}},
		},
		Attrs:  map[string]uint32{"b": 2, "a": 1, "zz": math.MaxUint32},
		Digest: [4]byte{0xde, 0xad, 0xbe, 0xef},
		Fixed:  [3]uint16{1, 2, 3},
		Counts: []int64{math.MinInt64, 0, math.MaxInt64},
	}
}

func TestRoundTripJSON(t *testing.T) {
	src := sampleShape()
	text, err := ToJSON(src)
	require.NoError(t, err)

	dst := &shape{}
	require.NoError(t, FromJSON(text, dst))
	assert.Equal(t, src, dst)
}

func TestRoundTripValue(t *testing.T) {
	src := sampleShape()
	root, err := ToValue(src)
	require.NoError(t, err)

	attrs, ok := root.Get("attrs")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "zz"}, attrs.Keys())

	dst := &shape{}
	require.NoError(t, FromValue(root, dst))
	assert.Equal(t, src, dst)
}

func TestRoundTripBinary(t *testing.T) {
	src := sampleShape()
	data, err := ToBinary(src)
	require.NoError(t, err)

	dst := &shape{}
	require.NoError(t, FromBinary(data, dst))
	assert.Equal(t, src, dst)
}

func TestFieldOmission(t *testing.T) {
	root, err := value.Unmarshal([]byte(`{"name":"only-name","points":[{"x":5}],"unknown":true}`))
	require.NoError(t, err)

	dst := &shape{
		Attrs:  map[string]uint32{"default": 1},
		Digest: [4]byte{9, 9, 9, 9},
		Counts: []int64{42},
	}
	dst.Fixed = [3]uint16{4, 5, 6}
	require.NoError(t, FromValue(root, dst))

	assert.Equal(t, "only-name", dst.Name)
	require.Len(t, dst.Points, 1)
	assert.Equal(t, int32(5), dst.Points[0].X)
	assert.Equal(t, "", dst.Points[0].Tag)
	assert.Equal(t, map[string]uint32{"default": 1}, dst.Attrs)
	assert.Equal(t, [4]byte{9, 9, 9, 9}, dst.Digest)
	assert.Equal(t, [3]uint16{4, 5, 6}, dst.Fixed)
	assert.Equal(t, []int64{42}, dst.Counts)
}

func TestMissingAggregateIsSkipped(t *testing.T) {
	root, err := value.Unmarshal([]byte(`{}`))
	require.NoError(t, err)

	dst := sampleShape()
	want := sampleShape()
	require.NoError(t, FromValue(root, dst))
	assert.Equal(t, want, dst)
}

func TestArraySizeFidelity(t *testing.T) {
	root, err := ToValue(&shape{})
	require.NoError(t, err)

	points, ok := root.Get("points")
	require.True(t, ok)
	assert.Equal(t, value.KindArray, points.Kind())
	assert.Equal(t, 0, points.Len())

	text, err := value.Marshal(root)
	require.NoError(t, err)
	assert.Contains(t, string(text), `"points":[]`)

	arr, err := value.Unmarshal([]byte(`[10,20,30]`))
	require.NoError(t, err)
	in := NewJSONInput(arr)
	size := -1
	in.BeginArray(&size, false)
	assert.Equal(t, 3, size)
	assert.Equal(t, 1, in.Depth())

	// a stored empty array resets the destination
	dst := &shape{Counts: []int64{1}}
	require.NoError(t, FromJSON([]byte(`{"counts":[]}`), dst))
	assert.Nil(t, dst.Counts)
}

func TestNextMapKeyTermination(t *testing.T) {
	root, err := value.Unmarshal([]byte(`{"k1":1,"k2":2,"k3":3}`))
	require.NoError(t, err)

	in := NewJSONInput(root)
	size := -1
	in.BeginMap(&size)
	assert.Equal(t, 3, size)

	var keys []string
	calls := 0
	name := "untouched"
	for {
		calls++
		if !in.NextMapKey(&name) {
			break
		}
		keys = append(keys, name)
		var v uint8
		in.Uint8(&v)
	}
	in.EndMap()

	require.NoError(t, in.Err())
	assert.Equal(t, 4, calls)
	assert.Equal(t, []string{"k1", "k2", "k3"}, keys)
	assert.Equal(t, "k3", name)
	assert.Equal(t, 0, in.Depth())
}

func TestBinaryNextMapKeyTermination(t *testing.T) {
	src := &shape{Attrs: map[string]uint32{"x": 1, "y": 2}}
	data, err := ToBinary(src)
	require.NoError(t, err)
	dst := &shape{}
	require.NoError(t, FromBinary(data, dst))
	assert.Equal(t, src.Attrs, dst.Attrs)
}

func TestIntegerWraparound(t *testing.T) {
	root, err := value.Unmarshal([]byte(`4294967296`))
	require.NoError(t, err)

	u := uint32(7)
	in := NewJSONInput(root)
	in.Uint32(&u)
	require.NoError(t, in.Err())
	assert.Equal(t, uint32(0), u)

	i := int8(0)
	in = NewJSONInput(value.Int64(200))
	in.Int8(&i)
	assert.Equal(t, int8(-56), i)

	u64 := uint64(0)
	in = NewJSONInput(value.Int64(-1))
	in.Uint64(&u64)
	assert.Equal(t, uint64(math.MaxUint64), u64)
}

func TestScopeMismatchRejected(t *testing.T) {
	obj := value.NewObject()

	in := NewJSONInput(obj)
	in.BeginObject()
	in.EndArray()
	assert.True(t, IsStructural(in.Err()))
	assert.True(t, errors.Is(in.Err(), ErrScopeMismatch))

	out := NewJSONOutput()
	out.BeginArray(new(int), false)
	out.EndMap()
	assert.True(t, errors.Is(out.Err(), ErrScopeMismatch))

	bout := NewBinaryOutput()
	bout.BeginMap(new(int))
	bout.EndObject()
	assert.True(t, errors.Is(bout.Err(), ErrScopeMismatch))

	in = NewJSONInput(obj)
	in.EndObject()
	assert.True(t, errors.Is(in.Err(), ErrScopeMismatch))
}

func TestStructureMismatchRejected(t *testing.T) {
	err := FromJSON([]byte(`{"points":{"x":1}}`), &shape{})
	assert.True(t, IsStructural(err))
	assert.Contains(t, err.Error(), "/points")

	err = FromJSON([]byte(`[1,2]`), &shape{})
	assert.True(t, IsStructural(err))

	err = FromJSON([]byte(`{"attrs":[1]}`), &shape{})
	assert.True(t, IsStructural(err))
}

func TestCoercionMismatchRejected(t *testing.T) {
	cases := []string{
		`{"name":5}`,
		`{"points":[{"y":"1"}]}`,
		`{"points":[{"ok":1}]}`,
		`{"points":[{"x":null}]}`,
		`{"points":[{"x":1.5}]}`,
		`{"digest":"00"}`,
		`{"digest":"nothex!!"}`,
		`{"points":[{"blob":12}]}`,
	}
	for _, text := range cases {
		err := FromJSON([]byte(text), &shape{})
		assert.True(t, errors.Is(err, ErrCoercionMismatch), text)
		assert.False(t, IsStructural(err), text)
	}
}

func TestFixedSliceLength(t *testing.T) {
	err := FromJSON([]byte(`{"fixed":[1,2]}`), &shape{})
	assert.True(t, IsStructural(err))
}

func TestUnbalancedScope(t *testing.T) {
	_, err := ToValue(unbalanced{})
	assert.True(t, errors.Is(err, ErrUnbalancedScope))

	_, err = ToBinary(unbalanced{})
	assert.True(t, errors.Is(err, ErrUnbalancedScope))
}

type unbalanced struct{}

func (unbalanced) Seria(s Archive) {
	s.BeginObject()
	s.ObjectKey("open")
	s.BeginArray(new(int), false)
}

func TestOutputKeyDiscipline(t *testing.T) {
	out := NewJSONOutput()
	out.BeginObject()
	v := uint8(1)
	out.Uint8(&v)
	assert.True(t, errors.Is(out.Err(), ErrMissingKey))

	out = NewJSONOutput()
	out.Uint8(&v)
	out.Uint8(&v)
	assert.True(t, errors.Is(out.Err(), ErrMultipleRoots))

	out = NewJSONOutput()
	out.ObjectKey("root")
	assert.True(t, errors.Is(out.Err(), ErrScopeMismatch))
}

func TestStickyError(t *testing.T) {
	in := NewJSONInput(value.String("text"))
	var u uint32 = 3
	in.Uint32(&u)
	first := in.Err()
	require.Error(t, first)

	in.BeginObject()
	in.EndArray()
	name := "x"
	assert.False(t, in.NextMapKey(&name))
	assert.Equal(t, first, in.Err())
	assert.Equal(t, uint32(3), u)
}

type tree struct {
	Level    uint32
	Label    string
	Children []tree
}

func (n *tree) Seria(s Archive) {
	s.BeginObject()
	s.ObjectKey("level")
	s.Uint32(&n.Level)
	s.ObjectKey("label")
	s.String(&n.Label)
	s.ObjectKey("children")
	SliceOf(s, &n.Children)
	s.EndObject()
}

func buildTree(level, depth uint32) tree {
	n := tree{Level: level, Label: "node"}
	if level < depth {
		n.Children = []tree{buildTree(level+1, depth), buildTree(level+1, depth)}
	}
	return n
}

func TestNestingDepth(t *testing.T) {
	src := buildTree(0, 10)

	text, err := ToJSON(&src)
	require.NoError(t, err)
	var fromText tree
	require.NoError(t, FromJSON(text, &fromText))
	assert.Equal(t, src, fromText)

	data, err := ToBinary(&src)
	require.NoError(t, err)
	var fromBinary tree
	require.NoError(t, FromBinary(data, &fromBinary))
	assert.Equal(t, src, fromBinary)
}

func TestBinaryTruncatedAndTrailing(t *testing.T) {
	data, err := ToBinary(sampleShape())
	require.NoError(t, err)

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		err := FromBinary(data[:cut], &shape{})
		assert.True(t, errors.Is(err, ErrUnexpectedEOF), "cut at %d", cut)
	}

	err = FromBinary(append(data, 0), &shape{})
	assert.True(t, errors.Is(err, ErrTrailingData))
}

func TestBinaryFixedArrayHasNoPrefix(t *testing.T) {
	out := NewBinaryOutput()
	size := 2
	out.BeginArray(&size, true)
	a, b := uint8(5), uint8(6)
	out.Uint8(&a)
	out.Uint8(&b)
	out.EndArray()
	require.NoError(t, out.Err())
	assert.Equal(t, []byte{5, 6}, out.Data())

	out = NewBinaryOutput()
	out.BeginArray(&size, true)
	out.Uint8(&a)
	out.EndArray()
	assert.True(t, IsStructural(out.Err()))
}

func TestFieldHelper(t *testing.T) {
	out := NewJSONOutput()
	out.BeginObject()
	p := point{X: 3}
	Field(out, "inner", &p)
	out.EndObject()
	require.NoError(t, out.Err())

	inner, ok := out.Value().Get("inner")
	require.True(t, ok)
	x, _ := inner.Get("x")
	i, _ := x.AsInt64()
	assert.Equal(t, int64(3), i)
}

type empty struct{}

func (e *empty) Seria(s Archive) {
	s.BeginObject()
	s.EndObject()
}

type emptyList struct {
	Items []empty
	Tags  [][0]byte
}

func (l *emptyList) Seria(s Archive) {
	s.BeginObject()
	s.ObjectKey("items")
	SliceOf(s, &l.Items)
	s.ObjectKey("tags")
	Slice(s, &l.Tags, func(s Archive, tag *[0]byte) { s.Raw(tag[:]) })
	s.EndObject()
}

func TestBinaryZeroSizeElements(t *testing.T) {
	src := &emptyList{Items: []empty{{}, {}, {}}, Tags: make([][0]byte, 2)}
	data, err := ToBinary(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 2}, data)

	dst := &emptyList{}
	require.NoError(t, FromBinary(data, dst))
	assert.Equal(t, src, dst)

	// the count alone still has to stay within the array limit
	err = FromBinary([]byte{0xff, 0xff, 0xff, 0xff, 0x0f, 0}, &emptyList{})
	assert.True(t, IsStructural(err))
}

func TestBinaryLongSliceGrows(t *testing.T) {
	src := &shape{Counts: make([]int64, 3*maxPrealloc+7)}
	for i := range src.Counts {
		src.Counts[i] = int64(i) - 100
	}
	data, err := ToBinary(src)
	require.NoError(t, err)

	dst := &shape{}
	require.NoError(t, FromBinary(data, dst))
	assert.Equal(t, src.Counts, dst.Counts)
}

type danglingMapKey struct {
	twice bool
}

func (d danglingMapKey) Seria(s Archive) {
	size := 1
	s.BeginMap(&size)
	name := "a"
	s.NextMapKey(&name)
	if d.twice {
		name = "b"
		s.NextMapKey(&name)
		v := uint8(1)
		s.Uint8(&v)
	}
	s.EndMap()
}

func TestDanglingMapKeyRejected(t *testing.T) {
	for _, d := range []danglingMapKey{{}, {twice: true}} {
		_, err := ToValue(d)
		assert.True(t, IsStructural(err), "json twice=%v", d.twice)

		_, err = ToBinary(d)
		assert.True(t, IsStructural(err), "binary twice=%v", d.twice)
	}

	in := NewBinaryInput([]byte{1, 1, 'a', 5})
	size := -1
	in.BeginMap(&size)
	var name string
	require.True(t, in.NextMapKey(&name))
	in.EndMap()
	assert.True(t, IsStructural(in.Err()))
}

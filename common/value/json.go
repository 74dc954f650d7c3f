package value

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedFloat = errors.New("value: NaN and Inf have no text form")
	ErrTrailingData     = errors.New("value: trailing data after top-level value")
)

// Marshal encodes v as compact JSON. Binary payloads are written as hex
// strings.
func Marshal(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func MarshalIndent(v *Value, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v *Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt64:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindUint64:
		buf.WriteString(strconv.FormatUint(v.u, 10))
	case KindDouble:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return ErrUnsupportedFloat
		}
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		// keep doubles distinguishable from integers after a reparse
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case KindString:
		encodeString(buf, v.s)
	case KindBinary:
		encodeString(buf, hex.EncodeToString(v.bin))
	case KindArray:
		buf.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, m.key)
			buf.WriteByte(':')
			if err := encode(buf, m.value); err != nil {
				return errors.WithMessagef(err, "key %q", m.key)
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// Unmarshal parses a single JSON document. Object key order is preserved
// and a repeated key keeps the last value. Integers that fit int64 become
// KindInt64, larger non-negative integers up to MaxUint64 become
// KindUint64, all other numbers become KindDouble.
func Unmarshal(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parse(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}

func parse(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.Errorf("value: object key is %T", keyTok)
				}
				elem, err := parse(dec)
				if err != nil {
					return nil, errors.WithMessagef(err, "key %q", key)
				}
				obj.Set(key, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				elem, err := parse(dec)
				if err != nil {
					return nil, errors.WithMessagef(err, "index %d", arr.Len())
				}
				arr.Append(elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, errors.Errorf("value: unexpected delimiter %q", rune(t))
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return parseNumber(string(t))
	case nil:
		return Null(), nil
	}
	return nil, errors.Errorf("value: unexpected token %T", tok)
}

func parseNumber(s string) (*Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int64(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Uint64(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "value: number %s", s)
	}
	return Double(f), nil
}

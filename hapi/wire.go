/*
Package hapi encodes and decodes the subset of the ledger's protobuf API used
by the SDK. Messages are written field by field with protowire so the wire
form matches the upstream schema without generated code; unknown fields are
skipped when decoding.
*/
package hapi

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

type Message interface {
	AppendTo(b []byte) []byte
	Unmarshal(b []byte) error
}

func Marshal(m Message) []byte {
	return m.AppendTo(nil)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, uint64(v))
}

// int32 and enum fields sign extend to ten bytes when negative.
func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendVarint(b, num, uint64(int64(v)))
}

func appendSint64(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, protowire.EncodeZigZag(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendMessage writes m when it is non-nil, even if it encodes to zero
// bytes, so presence survives the round trip.
func appendMessage[T any, M interface {
	*T
	Message
}](b []byte, num protowire.Number, m M) []byte {
	if m == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.AppendTo(nil))
}

func appendOneof(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.AppendTo(nil))
}

type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func (f field) int64() int64 {
	return int64(f.varint)
}

func (f field) int32() int32 {
	return int32(f.varint)
}

func (f field) bool() bool {
	return f.varint != 0
}

func (f field) sint64() int64 {
	return protowire.DecodeZigZag(f.varint)
}

func (f field) copyBytes() []byte {
	return append([]byte{}, f.bytes...)
}

func (f field) string() string {
	return string(f.bytes)
}

func consumeFields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "invalid field tag")
		}
		b = b[n:]

		f := field{num: num, typ: typ}

		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		case protowire.Fixed64Type:
			f.varint, n = protowire.ConsumeFixed64(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.varint = uint64(v)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return errors.Wrapf(protowire.ParseError(n), "invalid value for field %d", num)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}

	return nil
}

func unmarshalField[T any, M interface {
	*T
	Message
}](f field) (M, error) {
	if f.typ != protowire.BytesType {
		return nil, errors.Errorf("field %d: expected length-delimited message, got wire type %d", f.num, f.typ)
	}

	m := M(new(T))
	if err := m.Unmarshal(f.bytes); err != nil {
		return nil, errors.Wrapf(err, "field %d", f.num)
	}

	return m, nil
}

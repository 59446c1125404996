// Package record decodes the packed record format shared by table-leaf,
// index-leaf, and index-interior cells: a varint header length, a stream
// of serial-type varints, then the packed values themselves.
package record

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/ondrovic/litepager/internal/varint"
)

// Value is a decoded record field. The closed kind set from
// varint.ValueKind is carried directly rather than boxed into an any, per
// the tagged-union discipline the rest of this engine follows.
type Value struct {
	Kind varint.ValueKind
	Int  int64
	Text string
}

// String renders a Value the way the query executor projects it: empty for
// NULL, decimal for the numeric kinds, the raw bytes for text.
func (v Value) String() string {
	switch v.Kind {
	case varint.KindZero:
		return "0"
	case varint.KindOne:
		return "1"
	case varint.KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case varint.KindText:
		return v.Text
	default:
		return ""
	}
}

// Decode reads one record starting at buf[0] and returns its values plus
// the total number of bytes consumed (header + body) — callers that know
// the cell's declared payload length (table-leaf and index cells all carry
// one) should check it against total themselves, per the invariant that
// record length must equal header length plus the sum of value sizes.
func Decode(buf []byte) (values []Value, total int, err error) {
	headerLen, n, err := varint.ReadVarint(buf)
	if err != nil {
		return nil, 0, errors.Wrap(err, "record: header length")
	}
	if headerLen < int64(n) || int(headerLen) > len(buf) {
		return nil, 0, errors.Errorf("record: invalid header length %d", headerLen)
	}

	var serials []int64
	offset := n
	for offset < int(headerLen) {
		st, m, err := varint.ReadVarint(buf[offset:])
		if err != nil {
			return nil, 0, errors.Wrap(err, "record: serial type")
		}
		serials = append(serials, st)
		offset += m
	}
	if offset != int(headerLen) {
		return nil, 0, errors.Errorf("record: header length %d does not match sum of serial-type varints", headerLen)
	}

	values = make([]Value, len(serials))
	body := offset
	for i, st := range serials {
		kind, size, ok := varint.SerialTypeInfo(st)
		if !ok {
			return nil, 0, errors.Errorf("record: unsupported serial type %d", st)
		}
		switch kind {
		case varint.KindNull, varint.KindZero, varint.KindOne:
			values[i] = Value{Kind: kind}
		case varint.KindText:
			if body+size > len(buf) {
				return nil, 0, errors.Errorf("record: text value at column %d overruns buffer", i)
			}
			values[i] = Value{Kind: kind, Text: string(buf[body : body+size])}
			body += size
		case varint.KindInteger:
			if size != 1 && size != 2 && size != 3 && size != 4 {
				return nil, 0, errors.Errorf("record: integer width %d bytes (serial type %d) is out of scope", size, st)
			}
			if body+size > len(buf) {
				return nil, 0, errors.Errorf("record: integer value at column %d overruns buffer", i)
			}
			values[i] = Value{Kind: kind, Int: decodeSignedBigEndian(buf[body : body+size])}
			body += size
		}
	}
	return values, body, nil
}

// decodeSignedBigEndian sign-extends a 1-4 byte big-endian two's-complement
// integer into an int64.
func decodeSignedBigEndian(b []byte) int64 {
	v := int64(int8(b[0]))
	for _, c := range b[1:] {
		v = (v << 8) | int64(c)
	}
	return v
}

// Package varint decodes the big-endian base-128 variable-length integers
// used throughout SQLite's record and B-tree cell encodings, and maps
// serial-type codes onto the value kinds this engine understands.
package varint

import "github.com/pkg/errors"

// ValueKind identifies the decoded shape of a value. The set is closed:
// every serial type this engine supports maps to exactly one of these.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindZero
	KindOne
	KindText
	KindOther // unsupported: float (7), blob (even n>=12), or anything else
)

// ReadVarint decodes a SQLite varint from the front of buf, returning the
// decoded value and the number of bytes consumed.
//
// Each of the first 8 bytes contributes its low 7 bits; the high bit
// signals continuation. Decoding stops when a byte's high bit is clear, or
// after 8 bytes, whichever comes first — the 9th-byte convention (using all
// 8 bits of a final byte) is never honored, per this engine's acknowledged
// scope.
func ReadVarint(buf []byte) (value int64, n int, err error) {
	limit := len(buf)
	if limit > 8 {
		limit = 8
	}
	var v int64
	for i := 0; i < limit; i++ {
		b := buf[i]
		v = (v << 7) | int64(b&0x7f)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	if limit == 8 {
		return v, 8, nil
	}
	return 0, 0, errors.Errorf("varint: need more than %d available byte(s)", limit)
}

// SerialTypeInfo maps a record serial-type code to its value kind and, for
// fixed-width kinds, its byte width. ok is false for codes this engine does
// not support (floats, blobs, and anything outside the documented ranges).
func SerialTypeInfo(code int64) (kind ValueKind, size int, ok bool) {
	switch {
	case code == 0:
		return KindNull, 0, true
	case code >= 1 && code <= 4:
		return KindInteger, int(code), true
	case code == 5:
		return KindInteger, 6, true
	case code == 6:
		return KindInteger, 8, true
	case code == 7:
		return KindOther, 0, false // float, out of scope
	case code == 8:
		return KindZero, 0, true
	case code == 9:
		return KindOne, 0, true
	case code >= 12 && code%2 == 0:
		return KindOther, 0, false // blob, out of scope
	case code >= 13 && code%2 == 1:
		return KindText, int((code - 13) / 2), true
	default:
		return KindOther, 0, false
	}
}

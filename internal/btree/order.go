package btree

import (
	"bytes"

	"github.com/jgraettinger/cockroach-encoding/encoding"

	"github.com/ondrovic/litepager/internal/record"
	"github.com/ondrovic/litepager/internal/varint"
)

// CompareKeyPrefix compares the first len(searchPrefix) columns of cellKey
// against searchPrefix under SQLite's NULL < INTEGER < TEXT column
// ordering. Each column is encoded to its memcmp-orderable byte form and
// the resulting byte strings compared, so a multi-column prefix comparison
// is one bytes.Compare rather than a chain of per-column branches.
func CompareKeyPrefix(cellKey, searchPrefix []record.Value) int {
	n := len(searchPrefix)
	if len(cellKey) < n {
		n = len(cellKey)
	}
	var a, b []byte
	for i := 0; i < n; i++ {
		a = encodeOrdered(a, cellKey[i])
		b = encodeOrdered(b, searchPrefix[i])
	}
	return bytes.Compare(a, b)
}

// Type-rank prefix bytes enforcing NULL < INTEGER < TEXT across columns of
// different kinds. cockroach-encoding's own tag bytes don't preserve this:
// EncodeStringAscending's bytes marker (0x12) sorts below EncodeVarintAscending's
// ascending-int tags (>=0x80), which would put TEXT before INTEGER under a
// raw bytes.Compare. Each encoding below is self-delimiting, so prefixing a
// rank byte still leaves same-length-or-greater columns byte-aligned for any
// later columns appended to the same buffer.
const (
	rankNull byte = 0
	rankInt  byte = 1
	rankText byte = 2
)

func encodeOrdered(buf []byte, v record.Value) []byte {
	switch v.Kind {
	case varint.KindText:
		buf = append(buf, rankText)
		return encoding.EncodeStringAscending(buf, v.Text)
	case varint.KindInteger:
		buf = append(buf, rankInt)
		return encoding.EncodeVarintAscending(buf, v.Int)
	case varint.KindZero:
		buf = append(buf, rankInt)
		return encoding.EncodeVarintAscending(buf, 0)
	case varint.KindOne:
		buf = append(buf, rankInt)
		return encoding.EncodeVarintAscending(buf, 1)
	default:
		buf = append(buf, rankNull)
		return encoding.EncodeNullAscending(buf)
	}
}

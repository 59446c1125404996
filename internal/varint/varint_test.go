package varint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(v uint64) []byte {
	var tmp [10]byte
	var bytes []byte
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		tmp[n] = b
		n++
		if v == 0 || n == 8 {
			break
		}
	}
	for i := n - 1; i >= 0; i-- {
		b := tmp[i]
		if i != 0 {
			b |= 0x80
		}
		bytes = append(bytes, b)
	}
	return bytes
}

func TestReadVarint_RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 255, 16384, 1 << 20, 1<<49 - 1}
	for _, v := range cases {
		buf := encode(v)
		got, n, err := ReadVarint(buf)
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, int64(v), got)

		// round-trip: re-encoding the decoded value with the same byte
		// count reproduces the original bytes.
		assert.Equal(t, buf, encode(uint64(got))[:n])
	}
}

func TestReadVarint_TruncatedIsError(t *testing.T) {
	_, _, err := ReadVarint([]byte{0x81, 0x81})
	require.Error(t, err)
}

func TestReadVarint_EightByteCap(t *testing.T) {
	buf := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x01}
	_, n, err := ReadVarint(buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestSerialTypeInfo(t *testing.T) {
	kind, size, ok := SerialTypeInfo(0)
	assert.True(t, ok)
	assert.Equal(t, KindNull, kind)
	assert.Equal(t, 0, size)

	kind, size, ok = SerialTypeInfo(2)
	assert.True(t, ok)
	assert.Equal(t, KindInteger, kind)
	assert.Equal(t, 2, size)

	kind, _, ok = SerialTypeInfo(8)
	assert.True(t, ok)
	assert.Equal(t, KindZero, kind)

	kind, _, ok = SerialTypeInfo(9)
	assert.True(t, ok)
	assert.Equal(t, KindOne, kind)

	kind, size, ok = SerialTypeInfo(13)
	assert.True(t, ok)
	assert.Equal(t, KindText, kind)
	assert.Equal(t, 0, size)

	kind, size, ok = SerialTypeInfo(15)
	assert.True(t, ok)
	assert.Equal(t, KindText, kind)
	assert.Equal(t, 1, size)

	_, _, ok = SerialTypeInfo(7)
	assert.False(t, ok, "float serial type is unsupported")

	_, _, ok = SerialTypeInfo(12)
	assert.False(t, ok, "blob serial type is unsupported")
}

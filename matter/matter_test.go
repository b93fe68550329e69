package matter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatterFixedRoundTrip(t *testing.T) {
	raw := make([]byte, 32) // Blake3-256 digest length
	for i := range raw {
		raw[i] = byte(i)
	}
	m, err := NewMatter(CodeBlake3_256, raw)
	require.NoError(t, err)

	qb64, err := m.Qb64()
	require.NoError(t, err)
	require.Len(t, qb64, 44)
	require.Equal(t, CodeBlake3_256, qb64[:1])

	decoded, n, err := DecodeMatter([]byte(qb64))
	require.NoError(t, err)
	require.Equal(t, len(qb64), n)
	require.Equal(t, CodeBlake3_256, decoded.Code())
	require.Equal(t, raw, decoded.Raw())
}

func TestMatterNoPayloadAtoms(t *testing.T) {
	for _, m := range []Matter{NewNull(), NewYes(), NewNo(), NewEscape(), NewEmpty()} {
		qb64, err := m.Qb64()
		require.NoError(t, err)
		require.Len(t, qb64, 4)

		decoded, n, err := DecodeMatter([]byte(qb64))
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, m.Code(), decoded.Code())
	}
}

func TestDecodeMatterTrailingBytesIgnored(t *testing.T) {
	m := NewYes()
	qb64, err := m.Qb64()
	require.NoError(t, err)

	decoded, n, err := DecodeMatter([]byte(qb64 + "extra-trailing-stuff"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, CodeYes, decoded.Code())
}

func TestParseCompleteRejectsTrailingGarbage(t *testing.T) {
	m := NewNull()
	qb64, err := m.Qb64()
	require.NoError(t, err)

	_, ok := ParseComplete(qb64 + "x")
	require.False(t, ok)

	code, ok := ParseComplete(qb64)
	require.True(t, ok)
	require.Equal(t, CodeNull, code)
}

func TestDecodeMatterEmptyBuffer(t *testing.T) {
	_, _, err := DecodeMatter(nil)
	require.Error(t, err)
}

func TestDecodeMatterUnrecognizedSelector(t *testing.T) {
	_, _, err := DecodeMatter([]byte("!!!!"))
	require.Error(t, err)
}

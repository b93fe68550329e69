package matter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecimerIntegerRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 42, 1234567890} {
		d, err := NewDecimer(n)
		require.NoError(t, err)

		qb64, err := d.Qb64()
		require.NoError(t, err)

		decoded, consumed, err := DecodeDecimer([]byte(qb64))
		require.NoError(t, err)
		require.Equal(t, len(qb64), consumed)

		got, err := decoded.Decimal()
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

func TestDecimerFloatRoundTrip(t *testing.T) {
	d, err := NewDecimer(3.25)
	require.NoError(t, err)

	qb64, err := d.Qb64()
	require.NoError(t, err)

	decoded, _, err := DecodeDecimer([]byte(qb64))
	require.NoError(t, err)

	got, err := decoded.Decimal()
	require.NoError(t, err)
	require.Equal(t, 3.25, got)
}

func TestDecodeDecimerRejectsNonDecimalCode(t *testing.T) {
	m := NewYes()
	qb64, err := m.Qb64()
	require.NoError(t, err)

	_, _, err = DecodeDecimer([]byte(qb64))
	require.Error(t, err)
}

package bloomdedup

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func digestOf(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	return sum[:]
}

func TestEmptyFilterReportsDigestUnseen(t *testing.T) {
	d := New(1000, 10)
	seen, err := d.MaybeSeen(digestOf("never inserted"))
	require.NoError(t, err)
	require.False(t, seen)
}

func TestInsertedDigestIsMaybeSeen(t *testing.T) {
	d := New(1000, 10)
	digest := digestOf("hello")
	require.NoError(t, d.InsertSeen(digest))

	seen, err := d.MaybeSeen(digest)
	require.NoError(t, err)
	require.True(t, seen)
}

func TestRejectsWrongElementSize(t *testing.T) {
	d := New(100, 10)
	_, err := d.MaybeSeen([]byte("too short"))
	require.Error(t, err)
	require.Error(t, d.InsertSeen([]byte("too short")))
}

func TestLowFalsePositiveRateAtModestLoad(t *testing.T) {
	d := New(1000, 10)
	for i := 0; i < 500; i++ {
		require.NoError(t, d.InsertSeen(digestOf(string(rune(i)))))
	}
	falsePositives := 0
	for i := 1000; i < 1500; i++ {
		seen, err := d.MaybeSeen(digestOf(string(rune(i))))
		require.NoError(t, err)
		if seen {
			falsePositives++
		}
	}
	require.Less(t, falsePositives, 50) // well under 10% at this load factor
}

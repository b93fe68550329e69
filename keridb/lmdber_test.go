package keridb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLMDBer(t *testing.T) *LMDBer {
	t.Helper()
	eng := newFakeEngine()
	require.NoError(t, eng.EnsureDB("sigs.", DBFlagsDupSort))
	require.NoError(t, eng.EnsureDB("kels.", DBFlagsDupSort))
	return NewLMDBer(eng)
}

func TestAddRejectsDuplicatePayload(t *testing.T) {
	l := newTestLMDBer(t)
	key := []byte("Epre.Edig")

	added, err := l.Add("sigs.", key, []byte("sig1"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = l.Add("sigs.", key, []byte("sig1"))
	require.NoError(t, err)
	require.False(t, added)

	vals, err := l.Get("sigs.", key)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("sig1")}, vals)
}

func TestPutIoValsPreservesInsertionOrder(t *testing.T) {
	l := newTestLMDBer(t)
	key := snKey("Epre", 3)

	require.NoError(t, l.PutIoVals("kels.", key, [][]byte{[]byte("P1"), []byte("P2"), []byte("P3")}))

	vals, err := l.GetIoVals("kels.", key)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("P1"), []byte("P2"), []byte("P3")}, vals)
}

func TestAddIoValRejectsExistingPayload(t *testing.T) {
	l := newTestLMDBer(t)
	key := snKey("Epre", 3)
	require.NoError(t, l.PutIoVals("kels.", key, [][]byte{[]byte("P1"), []byte("P2")}))

	added, err := l.AddIoVal("kels.", key, []byte("P2"))
	require.NoError(t, err)
	require.False(t, added)

	added, err = l.AddIoVal("kels.", key, []byte("P3"))
	require.NoError(t, err)
	require.True(t, added)

	vals, err := l.GetIoVals("kels.", key)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("P1"), []byte("P2"), []byte("P3")}, vals)
}

func TestGetIoValsAllPreIterStopsAtFirstGap(t *testing.T) {
	l := newTestLMDBer(t)
	require.NoError(t, l.PutIoVals("kels.", snKey("Epre", 3), [][]byte{[]byte("only")}))

	vals, err := l.GetIoValsAllPreIter("kels.", "Epre")
	require.NoError(t, err)
	require.Empty(t, vals, "sn 0..2 are absent, so the walk must stop before reaching sn 3")
}

func TestGetIoValsAllPreIterWalksContiguousRun(t *testing.T) {
	l := newTestLMDBer(t)
	for sn := uint64(0); sn < 3; sn++ {
		require.NoError(t, l.PutIoVals("kels.", snKey("Epre", sn), [][]byte{[]byte{byte('A' + sn)}}))
	}

	vals, err := l.GetIoValsAllPreIter("kels.", "Epre")
	require.NoError(t, err)
	require.Equal(t, [][]byte{{'A'}, {'B'}, {'C'}}, vals)
}

func TestDelIoValRemovesFirstMatchOnly(t *testing.T) {
	l := newTestLMDBer(t)
	key := snKey("Epre", 0)
	require.NoError(t, l.PutIoVals("kels.", key, [][]byte{[]byte("dup"), []byte("dup")}))

	deleted, err := l.DelIoVal("kels.", key, []byte("dup"))
	require.NoError(t, err)
	require.True(t, deleted)

	vals, err := l.GetIoVals("kels.", key)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("dup")}, vals)
}

func TestSnKeySortsNumerically(t *testing.T) {
	require.True(t, string(snKey("Epre", 2)) < string(snKey("Epre", 10)),
		"zero-padded hex must keep lexicographic order equal to numeric order")
}

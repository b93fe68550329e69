package keridb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBaser(t *testing.T) *Baser {
	t.Helper()
	eng := newFakeEngine()
	b, err := OpenBaser(eng)
	require.NoError(t, err)
	return b
}

func TestPutEvtRejectsOverwrite(t *testing.T) {
	b := newTestBaser(t)
	require.NoError(t, b.PutEvt("Epre", "Edig", []byte("event-bytes")))

	err := b.PutEvt("Epre", "Edig", []byte("different-bytes"))
	require.Error(t, err)

	raw, err := b.GetEvt("Epre", "Edig")
	require.NoError(t, err)
	require.Equal(t, []byte("event-bytes"), raw)
}

func TestAddSigAndCloneEvtMsg(t *testing.T) {
	b := newTestBaser(t)
	require.NoError(t, b.PutEvt("Epre", "Edig", []byte("EVT")))

	added, err := b.AddSig("Epre", "Edig", []byte("SIG1"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = b.AddRct("Epre", "Edig", []byte("RCT1"))
	require.NoError(t, err)
	require.True(t, added)

	msg, err := b.CloneEvtMsg("Epre", 0, "Edig")
	require.NoError(t, err)
	require.Equal(t, []byte("EVTSIG1RCT1"), msg)
}

func TestKelDivergenceRecordedAsMultipleDigests(t *testing.T) {
	b := newTestBaser(t)
	added, err := b.AddKelDig("Epre", 0, "Edig1")
	require.NoError(t, err)
	require.True(t, added)

	added, err = b.AddKelDig("Epre", 0, "Edig2")
	require.NoError(t, err)
	require.True(t, added)

	digs, err := b.GetKelDigs("Epre", 0)
	require.NoError(t, err)
	require.Len(t, digs, 2, "two digests at one sn marks divergence")
}

func TestMoveEscrowPreservesOrderAndClearsSource(t *testing.T) {
	b := newTestBaser(t)
	_, err := b.AddEscrow("dpwe", "Epre", "Edig", []byte("serder-bytes"))
	require.NoError(t, err)
	_, err = b.AddEscrow("dpwe", "Epre", "Edig", []byte("another-entry"))
	require.NoError(t, err)

	require.NoError(t, b.MoveEscrow("dpwe", "dune", "Epre", "Edig"))

	gone, err := b.GetEscrow("dpwe", "Epre", "Edig")
	require.NoError(t, err)
	require.Empty(t, gone)

	moved, err := b.GetEscrow("dune", "Epre", "Edig")
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("serder-bytes"), []byte("another-entry")}, moved)
}

func TestListEscrowKeysVisitsEveryPendingEntry(t *testing.T) {
	b := newTestBaser(t)
	_, err := b.AddEscrow("dpwe", "Epre1", "Edig1", []byte("serder-1"))
	require.NoError(t, err)
	_, err = b.AddEscrow("dpwe", "Epre2", "Edig2", []byte("serder-2"))
	require.NoError(t, err)

	keys, err := b.ListEscrowKeys("dpwe")
	require.NoError(t, err)
	require.ElementsMatch(t, []EscrowKey{{Pre: "Epre1", Dig: "Edig1"}, {Pre: "Epre2", Dig: "Edig2"}}, keys)
}

func TestSetAesAndGetAesRoundTrip(t *testing.T) {
	b := newTestBaser(t)
	dgkey := dgKey("Epre", "Edig")
	require.NoError(t, b.SetAes(dgkey, []byte("seqner-saider-couple")))

	couple, err := b.GetAes(dgkey)
	require.NoError(t, err)
	require.Equal(t, []byte("seqner-saider-couple"), couple)
}

func TestPutCdelAndComplete(t *testing.T) {
	b := newTestBaser(t)
	require.NoError(t, b.PutCdel("Epre", "0AAAAAAAAAAAAAAAAAAAAAAC", "EsaiderQb64"))

	said, err := b.GetCdel("Epre", "0AAAAAAAAAAAAAAAAAAAAAAC")
	require.NoError(t, err)
	require.Equal(t, []byte("EsaiderQb64"), said)

	_, err = b.GetCdel("Epre", "0AAAAAAAAAAAAAAAAAAAAAAD")
	require.NoError(t, err)
}

type fakeSealSource struct {
	top   uint64
	seals map[uint64][]EventSeal
	evts  map[uint64][]byte
}

func (s *fakeSealSource) LastSn(pre string) (uint64, bool) { return s.top, true }
func (s *fakeSealSource) SealsAt(pre string, sn uint64) ([]EventSeal, error) {
	return s.seals[sn], nil
}
func (s *fakeSealSource) EventAt(pre string, sn uint64) ([]byte, error) { return s.evts[sn], nil }

func TestFetchLastSealingEventByEventSealFindsMostRecent(t *testing.T) {
	b := newTestBaser(t)
	seal := EventSeal{I: "Edelpre", S: 5, D: "Edig5"}
	src := &fakeSealSource{
		top: 3,
		seals: map[uint64][]EventSeal{
			1: {{I: "other", S: 1, D: "x"}},
			2: {seal},
		},
		evts: map[uint64][]byte{2: []byte("anchoring-event")},
	}

	evt, err := b.FetchLastSealingEventByEventSeal("Edelpre", seal, src)
	require.NoError(t, err)
	require.Equal(t, []byte("anchoring-event"), evt)
}

func TestFetchLastSealingEventByEventSealReturnsNilWhenAbsent(t *testing.T) {
	b := newTestBaser(t)
	src := &fakeSealSource{top: 1, seals: map[uint64][]EventSeal{}, evts: map[uint64][]byte{}}

	evt, err := b.FetchLastSealingEventByEventSeal("Edelpre", EventSeal{I: "x", S: 9, D: "y"}, src)
	require.NoError(t, err)
	require.Nil(t, evt)
}

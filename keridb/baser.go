package keridb

import (
	"errors"
)

// Sub-db names. Each is terminated with "." to avoid collision with
// Base64 identifier prefixes sharing the same leading characters
// (spec.md §4.6).
const (
	dbEvts = "evts."
	dbDtss = "dtss."
	dbSigs = "sigs."
	dbRcts = "rcts."
	dbUres = "ures."
	dbVrcs = "vrcs."
	dbVres = "vres."
	dbKels = "kels."
	dbPses = "pses."
	dbOoes = "ooes."
	dbDels = "dels."
	dbLdes = "ldes."
	dbDpwe = "dpwe."
	dbDune = "dune."
	dbDpub = "dpub."
	dbCdel = "cdel."
	dbAes  = "aes."
)

// ErrNotFound is returned by single-value lookups that find nothing;
// it is not itself a kerierr kind since an absent key is an ordinary,
// expected outcome for most callers.
var ErrNotFound = errors.New("keridb: not found")

// Baser is the KERI key-event sub-database layout over an LMDBer: raw
// events, their attachments, the per-prefix KEL ordinal index, and the
// escrow queues that drive ingest and delegation (spec.md §4.6).
type Baser struct {
	db *LMDBer
}

// OpenBaser declares every sub-db Baser needs (creating missing ones)
// and returns a Baser bound to eng.
func OpenBaser(eng Engine) (*Baser, error) {
	lex := []string{dbSigs, dbRcts, dbVrcs, dbVres, dbUres}
	io := []string{dbKels, dbPses, dbOoes, dbDels, dbLdes, dbDpwe, dbDune, dbDpub}
	plain := []string{dbEvts, dbDtss, dbCdel, dbAes}

	for _, name := range lex {
		if err := eng.EnsureDB(name, DBFlagsDupSort); err != nil {
			return nil, err
		}
	}
	for _, name := range io {
		if err := eng.EnsureDB(name, DBFlagsDupSort); err != nil {
			return nil, err
		}
	}
	for _, name := range plain {
		if err := eng.EnsureDB(name, 0); err != nil {
			return nil, err
		}
	}
	return &Baser{db: NewLMDBer(eng)}, nil
}

func (b *Baser) Close() error { return b.db.Close() }

// Path returns the directory this Baser's environment is persisted
// to, for collaborators that back up or archive its content.
func (b *Baser) Path() string { return b.db.Path() }

// --- events ---------------------------------------------------------------

// PutEvt writes the raw serialized event at dgKey(pre, dig), failing
// if one is already present (events are write-once, spec.md §3).
func (b *Baser) PutEvt(pre, dig string, raw []byte) error {
	val, err := b.getPlain(dbEvts, dgKey(pre, dig))
	if err != nil {
		return err
	}
	if val != nil {
		return errInvalidValue("event already stored: " + pre + "." + dig)
	}
	return b.putPlain(dbEvts, dgKey(pre, dig), raw)
}

// GetEvt returns the raw serialized event at dgKey(pre, dig), or nil
// if absent.
func (b *Baser) GetEvt(pre, dig string) ([]byte, error) {
	return b.getPlain(dbEvts, dgKey(pre, dig))
}

func (b *Baser) putPlain(dbi string, key, val []byte) error {
	return b.db.eng.Update(func(txn Txn) error {
		return txn.Put(dbi, key, val)
	})
}

func (b *Baser) getPlain(dbi string, key []byte) ([]byte, error) {
	var out []byte
	err := b.db.eng.View(func(txn Txn) error {
		v, err := txn.Get(dbi, key)
		if err != nil {
			return err
		}
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// --- attachments (lexicographic duplicates) -------------------------------

// AddSig attaches an indexed signature to dgKey(pre, dig).
func (b *Baser) AddSig(pre, dig string, sig []byte) (bool, error) {
	return b.db.Add(dbSigs, dgKey(pre, dig), sig)
}

// GetSigs returns every signature attached at dgKey(pre, dig).
func (b *Baser) GetSigs(pre, dig string) ([][]byte, error) {
	return b.db.Get(dbSigs, dgKey(pre, dig))
}

// AddRct attaches a non-transferable receipt couple to dgKey(pre, dig).
func (b *Baser) AddRct(pre, dig string, couple []byte) (bool, error) {
	return b.db.Add(dbRcts, dgKey(pre, dig), couple)
}

// GetWigs returns every witness receipt attached at dgKey(pre, dig):
// the entries AddRct stores in the rcts sub-db, in lexicographic order.
func (b *Baser) GetWigs(pre, dig string) ([][]byte, error) {
	return b.db.Get(dbRcts, dgKey(pre, dig))
}

// AddVrc attaches a transferable validator receipt quadruple to
// dgKey(pre, dig).
func (b *Baser) AddVrc(pre, dig string, quadruple []byte) (bool, error) {
	return b.db.Add(dbVrcs, dgKey(pre, dig), quadruple)
}

// --- KEL ordinal index (insertion-ordered duplicates) ---------------------

// AddKelDig appends dig to the ordered digest list at snKey(pre, sn).
// A length greater than one after insertion marks divergence at that
// sn (spec.md §3).
func (b *Baser) AddKelDig(pre string, sn uint64, dig string) (bool, error) {
	return b.db.AddIoVal(dbKels, snKey(pre, sn), []byte(dig))
}

// GetKelDigs returns the digests recorded at snKey(pre, sn), in
// insertion order.
func (b *Baser) GetKelDigs(pre string, sn uint64) ([]string, error) {
	vals, err := b.db.GetIoVals(dbKels, snKey(pre, sn))
	if err != nil {
		return nil, err
	}
	return bytesToStrings(vals), nil
}

// GetKelIter walks every digest for pre across sn = 0, 1, 2, … without
// gaps, stopping at the first empty sn.
func (b *Baser) GetKelIter(pre string) ([]string, error) {
	vals, err := b.db.GetIoValsAllPreIter(dbKels, pre)
	if err != nil {
		return nil, err
	}
	return bytesToStrings(vals), nil
}

func bytesToStrings(vals [][]byte) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

// --- escrow queues (insertion-ordered duplicates) -------------------------

func (b *Baser) escrowDBI(name string) string {
	switch name {
	case "pse":
		return dbPses
	case "ooe":
		return dbOoes
	case "dels":
		return dbDels
	case "ldes":
		return dbLdes
	case "dpwe":
		return dbDpwe
	case "dune":
		return dbDune
	case "dpub":
		return dbDpub
	default:
		return ""
	}
}

// AddEscrow inserts val into the named escrow queue at dgKey(pre, dig).
func (b *Baser) AddEscrow(name, pre, dig string, val []byte) (bool, error) {
	dbi := b.escrowDBI(name)
	if dbi == "" {
		return false, errInvalidValue("unknown escrow: " + name)
	}
	return b.db.AddIoVal(dbi, dgKey(pre, dig), val)
}

// GetEscrow returns every entry in the named escrow queue at
// dgKey(pre, dig), in insertion order.
func (b *Baser) GetEscrow(name, pre, dig string) ([][]byte, error) {
	dbi := b.escrowDBI(name)
	if dbi == "" {
		return nil, errInvalidValue("unknown escrow: " + name)
	}
	return b.db.GetIoVals(dbi, dgKey(pre, dig))
}

// DelEscrow removes every entry in the named escrow queue at
// dgKey(pre, dig).
func (b *Baser) DelEscrow(name, pre, dig string) error {
	dbi := b.escrowDBI(name)
	if dbi == "" {
		return errInvalidValue("unknown escrow: " + name)
	}
	return b.db.DelIoVals(dbi, dgKey(pre, dig))
}

// EscrowKey identifies one pending entry in an escrow queue.
type EscrowKey struct {
	Pre string
	Dig string
}

// ListEscrowKeys returns every (pre, dig) pair with at least one
// pending entry in the named escrow queue, in key order. Anchorer's
// periodic sweep uses this to visit every pending entry rather than a
// single known key.
func (b *Baser) ListEscrowKeys(name string) ([]EscrowKey, error) {
	dbi := b.escrowDBI(name)
	if dbi == "" {
		return nil, errInvalidValue("unknown escrow: " + name)
	}
	keys, err := b.db.AllKeys(dbi)
	if err != nil {
		return nil, err
	}
	out := make([]EscrowKey, 0, len(keys))
	for _, k := range keys {
		pre, dig, serr := splitKey(k)
		if serr != nil {
			return nil, serr
		}
		out = append(out, EscrowKey{Pre: pre, Dig: dig})
	}
	return out, nil
}

// MoveEscrow atomically relocates every entry at dgKey(pre, dig) from
// one named escrow queue to another, per Anchorer's state transitions
// (spec.md §4.7: commit to the destination before removing the source,
// so a crash at worst replays the sweep).
func (b *Baser) MoveEscrow(fromName, toName, pre, dig string) error {
	vals, err := b.GetEscrow(fromName, pre, dig)
	if err != nil {
		return err
	}
	toDBI := b.escrowDBI(toName)
	if toDBI == "" {
		return errInvalidValue("unknown escrow: " + toName)
	}
	for _, v := range vals {
		if _, err := b.db.AddIoVal(toDBI, dgKey(pre, dig), v); err != nil {
			return err
		}
	}
	return b.DelEscrow(fromName, pre, dig)
}

// --- delegation completion --------------------------------------------

// SetAes records the (seqner, saider) couple identifying the
// authorizing delegator event for a local event's digest key.
func (b *Baser) SetAes(dgkey []byte, couple []byte) error {
	return b.putPlain(dbAes, dgkey, couple)
}

// GetAes returns the (seqner, saider) couple recorded for dgkey, or
// nil if none.
func (b *Baser) GetAes(dgkey []byte) ([]byte, error) {
	return b.getPlain(dbAes, dgkey)
}

// PutCdel records a completed delegation anchor: cdel[(pre, snQb64)] =
// saidQb64.
func (b *Baser) PutCdel(pre, seqnerQb64, saiderQb64 string) error {
	return b.putPlain(dbCdel, dgKey(pre, seqnerQb64), []byte(saiderQb64))
}

// GetCdel returns the saider qb64 recorded for (pre, seqnerQb64), or
// nil if the delegation has not completed.
func (b *Baser) GetCdel(pre, seqnerQb64 string) ([]byte, error) {
	return b.getPlain(dbCdel, dgKey(pre, seqnerQb64))
}

// --- higher-level helpers --------------------------------------------

// EventSeal identifies an anchor entry an establishment event's seal
// list may contain: {i: prefix, s: sequence number, d: digest}.
type EventSeal struct {
	I string
	S uint64
	D string
}

// SealSource abstracts reading a prefix's KEL in reverse, so
// fetchLastSealingEventByEventSeal need not depend on a concrete
// event-message decoder.
type SealSource interface {
	// LastSn returns the highest sequence number recorded for pre, or
	// ok=false if pre has no events.
	LastSn(pre string) (sn uint64, ok bool)
	// SealsAt returns the anchor seals an establishment event at
	// (pre, sn) carries, in the order they were anchored.
	SealsAt(pre string, sn uint64) ([]EventSeal, error)
	// EventAt returns the raw serialized event at (pre, sn), for the
	// winning (first) digest recorded at that sn.
	EventAt(pre string, sn uint64) ([]byte, error)
}

// FetchLastSealingEventByEventSeal walks delpre's KEL in reverse
// looking for the most recent event whose anchor list contains seal,
// returning that event's serialized bytes or nil if none anchors it
// (spec.md §4.6).
func (b *Baser) FetchLastSealingEventByEventSeal(delpre string, seal EventSeal, src SealSource) ([]byte, error) {
	top, ok := src.LastSn(delpre)
	if !ok {
		return nil, nil
	}
	for sn := top; ; sn-- {
		seals, err := src.SealsAt(delpre, sn)
		if err != nil {
			return nil, err
		}
		for _, s := range seals {
			if s.I == seal.I && s.S == seal.S && s.D == seal.D {
				return src.EventAt(delpre, sn)
			}
		}
		if sn == 0 {
			break
		}
	}
	return nil, nil
}

// CloneEvtMsg assembles the canonical outbound wire message for an
// event: its raw serialization followed by every attached signature
// and receipt, for transmission to a peer (spec.md §4.6).
func (b *Baser) CloneEvtMsg(pre string, sn uint64, dig string) ([]byte, error) {
	raw, err := b.GetEvt(pre, dig)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	sigs, err := b.GetSigs(pre, dig)
	if err != nil {
		return nil, err
	}
	msg := append([]byte(nil), raw...)
	for _, s := range sigs {
		msg = append(msg, s...)
	}
	rcts, err := b.db.Get(dbRcts, dgKey(pre, dig))
	if err != nil {
		return nil, err
	}
	for _, r := range rcts {
		msg = append(msg, r...)
	}
	return msg, nil
}

// CloneDelegation assembles the outbound message embedding the signed
// delegated event for the /delegate/request exchange: the event plus
// its signatures, without receipts (those are a delegator-side
// concern once the event is anchored).
func (b *Baser) CloneDelegation(pre, dig string) ([]byte, error) {
	raw, err := b.GetEvt(pre, dig)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	sigs, err := b.GetSigs(pre, dig)
	if err != nil {
		return nil, err
	}
	msg := append([]byte(nil), raw...)
	for _, s := range sigs {
		msg = append(msg, s...)
	}
	return msg, nil
}

package keridb

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/datatrails/go-keri/keridb/bloomdedup"
)

// proemDigits is the zero-padded hex width of an insertion-ordered
// duplicate's ordering counter; with the trailing "." this makes a
// 33-byte proem (spec.md §4.5, §6).
const proemDigits = 32

// LMDBer wraps an Engine with the two duplicate-value disciplines KERI
// sub-dbs need: lexicographically-sorted duplicates (sigs, rcts, vrcs)
// and insertion-ordered duplicates via an embedded numeric proem
// (escrows, kels).
type LMDBer struct {
	eng   Engine
	dedup map[string]*bloomdedup.Dedup
}

// NewLMDBer wraps an already-open Engine.
func NewLMDBer(eng Engine) *LMDBer {
	return &LMDBer{eng: eng, dedup: make(map[string]*bloomdedup.Dedup)}
}

func (l *LMDBer) Close() error { return l.eng.Close() }

// Path returns the directory the underlying Engine persists to, so
// collaborators that archive or back up a Baser's content know what
// to read.
func (l *LMDBer) Path() string { return l.eng.Path() }

func (l *LMDBer) dedupFor(dbi string) *bloomdedup.Dedup {
	d, ok := l.dedup[dbi]
	if !ok {
		d = bloomdedup.New(1<<14, 10)
		l.dedup[dbi] = d
	}
	return d
}

// --- lexicographic duplicates -------------------------------------------

// Put replaces any existing value(s) at key with a single val.
func (l *LMDBer) Put(dbi string, key, val []byte) error {
	return l.eng.Update(func(txn Txn) error {
		if err := txn.Del(dbi, key, nil); err != nil {
			return err
		}
		return txn.Put(dbi, key, val)
	})
}

// Add inserts val as a new lexicographic duplicate at key, rejecting
// an exact-duplicate payload already present.
func (l *LMDBer) Add(dbi string, key, val []byte) (bool, error) {
	present, err := l.hasDup(dbi, key, val)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}
	if err := l.eng.Update(func(txn Txn) error {
		return txn.Put(dbi, key, val)
	}); err != nil {
		return false, err
	}
	_ = l.dedupFor(dbi).InsertSeen(bloomDigestOf(val))
	return true, nil
}

func (l *LMDBer) hasDup(dbi string, key, val []byte) (bool, error) {
	digest := bloomDigestOf(val)
	bd := l.dedupFor(dbi)
	if maybe, err := bd.MaybeSeen(digest); err == nil && !maybe {
		return false, nil
	}
	found := false
	err := l.eng.View(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, v, err := c.Get(key, nil, OpSetKey)
		if err != nil {
			return err
		}
		for k != nil {
			if bytes.Equal(v, val) {
				found = true
				return nil
			}
			k, v, err = c.Get(nil, nil, OpNextDup)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		_ = bd.InsertSeen(digest)
	}
	return found, nil
}

// Get returns all values stored at key, in lexicographic order.
func (l *LMDBer) Get(dbi string, key []byte) ([][]byte, error) {
	var out [][]byte
	err := l.eng.View(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, v, err := c.Get(key, nil, OpSetKey)
		if err != nil {
			return err
		}
		for k != nil {
			out = append(out, append([]byte(nil), v...))
			k, v, err = c.Get(nil, nil, OpNextDup)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// Count returns the number of duplicate values stored at key.
func (l *LMDBer) Count(dbi string, key []byte) (uint64, error) {
	var n uint64
	err := l.eng.View(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, _, err := c.Get(key, nil, OpSetKey)
		if err != nil {
			return err
		}
		if k == nil {
			return nil
		}
		n, err = c.Count()
		return err
	})
	return n, err
}

// Del removes all duplicates at key, or (if val is non-nil) only the
// matching duplicate.
func (l *LMDBer) Del(dbi string, key, val []byte) error {
	return l.eng.Update(func(txn Txn) error {
		return txn.Del(dbi, key, val)
	})
}

// --- insertion-ordered duplicates ----------------------------------------

func proem(n uint64) string {
	return fmt.Sprintf("%0*x.", proemDigits, n)
}

func stripProem(val []byte) []byte {
	if len(val) < proemDigits+1 {
		return val
	}
	return val[proemDigits+1:]
}

// nextProemIndex inspects the last-inserted duplicate at key (by
// proem, which sorts lexicographically with the counter since it is
// fixed-width) and returns one past it, or 0 if the key has no values
// yet.
func (l *LMDBer) nextProemIndex(txn Txn, dbi string, key []byte) (uint64, error) {
	c, err := txn.OpenCursor(dbi)
	if err != nil {
		return 0, err
	}
	defer c.Close()
	k, v, err := c.Get(key, nil, OpSetKey)
	if err != nil {
		return 0, err
	}
	if k == nil {
		return 0, nil
	}
	last := v
	for {
		nk, nv, err := c.Get(nil, nil, OpNextDup)
		if err != nil {
			return 0, err
		}
		if nk == nil {
			break
		}
		last = nv
	}
	if len(last) < proemDigits {
		return 0, errDatabase("malformed proem on existing duplicate")
	}
	var n uint64
	if _, err := fmt.Sscanf(string(last[:proemDigits]), "%x", &n); err != nil {
		return 0, errDatabase("malformed proem on existing duplicate")
	}
	return n + 1, nil
}

// PutIoVals replaces all duplicates at key with vals, in the given
// order, re-proeming from zero.
func (l *LMDBer) PutIoVals(dbi string, key []byte, vals [][]byte) error {
	return l.eng.Update(func(txn Txn) error {
		if err := txn.Del(dbi, key, nil); err != nil {
			return err
		}
		for i, v := range vals {
			pv := append([]byte(proem(uint64(i))), v...)
			if err := txn.Put(dbi, key, pv); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddIoVal appends val as a new insertion-ordered duplicate at key,
// rejecting a payload (proem-stripped) already present.
func (l *LMDBer) AddIoVal(dbi string, key, val []byte) (bool, error) {
	existing, err := l.GetIoVals(dbi, key)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if bytes.Equal(e, val) {
			return false, nil
		}
	}
	err = l.eng.Update(func(txn Txn) error {
		n, err := l.nextProemIndex(txn, dbi, key)
		if err != nil {
			return err
		}
		pv := append([]byte(proem(n)), val...)
		return txn.Put(dbi, key, pv)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetIoVals returns all duplicates at key, proem-stripped, in
// insertion order.
func (l *LMDBer) GetIoVals(dbi string, key []byte) ([][]byte, error) {
	var out [][]byte
	err := l.eng.View(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, v, err := c.Get(key, nil, OpSetKey)
		if err != nil {
			return err
		}
		for k != nil {
			out = append(out, append([]byte(nil), stripProem(v)...))
			k, v, err = c.Get(nil, nil, OpNextDup)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// GetIoValLast returns the most recently inserted duplicate at key, or
// nil if key has none.
func (l *LMDBer) GetIoValLast(dbi string, key []byte) ([]byte, error) {
	var out []byte
	err := l.eng.View(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, _, err := c.Get(key, nil, OpSetKey)
		if err != nil {
			return err
		}
		if k == nil {
			return nil
		}
		_, lv, err := c.Get(nil, nil, OpLastDup)
		if err != nil {
			return err
		}
		out = append([]byte(nil), stripProem(lv)...)
		return nil
	})
	return out, err
}

// CntIoVals returns the number of insertion-ordered duplicates at key.
func (l *LMDBer) CntIoVals(dbi string, key []byte) (uint64, error) {
	return l.Count(dbi, key)
}

// DelIoVals removes every duplicate at key.
func (l *LMDBer) DelIoVals(dbi string, key []byte) error {
	return l.Del(dbi, key, nil)
}

// DelIoVal scans duplicates at key and deletes the first one whose
// proem-stripped payload equals val.
func (l *LMDBer) DelIoVal(dbi string, key, val []byte) (bool, error) {
	deleted := false
	err := l.eng.Update(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, v, err := c.Get(key, nil, OpSetKey)
		if err != nil {
			return err
		}
		for k != nil {
			if bytes.Equal(stripProem(v), val) {
				if err := c.Del(); err != nil {
					return err
				}
				deleted = true
				return nil
			}
			k, v, err = c.Get(nil, nil, OpNextDup)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return deleted, err
}

// GetIoValsAllPreIter walks snKey(pre, 0), snKey(pre, 1), … in order,
// yielding every duplicate at each sn, and stops at the first absent
// sn (no gaps tolerated).
func (l *LMDBer) GetIoValsAllPreIter(dbi, pre string) ([][]byte, error) {
	var out [][]byte
	for sn := uint64(0); ; sn++ {
		vals, err := l.GetIoVals(dbi, snKey(pre, sn))
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			break
		}
		out = append(out, vals...)
	}
	return out, nil
}

// GetIoValLastAllPreIter is GetIoValsAllPreIter specialized to the last
// value at each sn, stopping at the first absent sn.
func (l *LMDBer) GetIoValLastAllPreIter(dbi, pre string) ([][]byte, error) {
	var out [][]byte
	for sn := uint64(0); ; sn++ {
		v, err := l.GetIoValLast(dbi, snKey(pre, sn))
		if err != nil {
			return nil, err
		}
		if v == nil {
			break
		}
		out = append(out, v)
	}
	return out, nil
}

// GetIoValsAnyPreIter walks all keys sharing prefix `pre + "."` via
// set_range, tolerating gaps in sn, stopping when the prefix component
// of the key changes.
func (l *LMDBer) GetIoValsAnyPreIter(dbi, pre string) ([][]byte, error) {
	var out [][]byte
	start := []byte(pre + ".")
	err := l.eng.View(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, v, err := c.Get(start, nil, OpSetRange)
		if err != nil {
			return err
		}
		for k != nil {
			kpre, _, serr := splitKey(k)
			if serr != nil || kpre != pre {
				break
			}
			out = append(out, append([]byte(nil), stripProem(v)...))
			k, v, err = c.Get(nil, nil, OpNextDup)
			if err != nil {
				return err
			}
			if k == nil {
				k, v, err = c.Get(nil, nil, OpNextNoDup)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	return out, err
}

// AllKeys returns every distinct key bearing at least one value in
// dbi, in key order. Used by escrow sweeps, which must visit every
// pending entry rather than a single known key.
func (l *LMDBer) AllKeys(dbi string) ([][]byte, error) {
	var out [][]byte
	err := l.eng.View(func(txn Txn) error {
		c, err := txn.OpenCursor(dbi)
		if err != nil {
			return err
		}
		defer c.Close()
		k, _, err := c.Get(nil, nil, OpFirst)
		if err != nil {
			return err
		}
		for k != nil {
			out = append(out, append([]byte(nil), k...))
			k, _, err = c.Get(nil, nil, OpNextNoDup)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// bloomDigestOf maps an arbitrary-length payload to the fixed 32-byte
// width bloomdedup indexes on; it need only be collision-resistant for
// the dedup accelerator, not semantically meaningful.
func bloomDigestOf(val []byte) []byte {
	sum := sha256.Sum256(val)
	return sum[:]
}

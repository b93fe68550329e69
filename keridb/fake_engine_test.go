package keridb

import (
	"bytes"
	"sort"
)

// fakeEngine is an in-memory Engine double satisfying the ordered,
// dupsort contract real mdbx provides, used so LMDBer/Baser's logic
// can be exercised without the Go toolchain ever invoking the real
// erigontech/mdbx-go binding. Duplicate values at a key are always
// kept byte-sorted, matching mdbx's dupsort discipline; insertion-
// ordered duplicates rely on their embedded proem sorting the same
// way a real engine would order them.
type fakeEngine struct {
	dbs      map[string]map[string][][]byte
	dupFlags map[string]DBFlags
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		dbs:      make(map[string]map[string][][]byte),
		dupFlags: make(map[string]DBFlags),
	}
}

func (e *fakeEngine) Path() string { return "fake" }
func (e *fakeEngine) Close() error { return nil }

func (e *fakeEngine) EnsureDB(dbi string, flags DBFlags) error {
	if _, ok := e.dbs[dbi]; !ok {
		e.dbs[dbi] = make(map[string][][]byte)
		e.dupFlags[dbi] = flags
	}
	return nil
}

func (e *fakeEngine) View(fn func(Txn) error) error   { return fn(&fakeTxn{e: e}) }
func (e *fakeEngine) Update(fn func(Txn) error) error { return fn(&fakeTxn{e: e}) }

type fakeTxn struct{ e *fakeEngine }

func (t *fakeTxn) table(dbi string) map[string][][]byte {
	m, ok := t.e.dbs[dbi]
	if !ok {
		m = make(map[string][][]byte)
		t.e.dbs[dbi] = m
	}
	return m
}

func (t *fakeTxn) Get(dbi string, key []byte) ([]byte, error) {
	vals := t.table(dbi)[string(key)]
	if len(vals) == 0 {
		return nil, nil
	}
	return vals[0], nil
}

func (t *fakeTxn) Put(dbi string, key, val []byte) error {
	tbl := t.table(dbi)
	k := string(key)
	if t.e.dupFlags[dbi]&DBFlagsDupSort == 0 {
		tbl[k] = [][]byte{append([]byte(nil), val...)}
		return nil
	}
	vals := tbl[k]
	for _, v := range vals {
		if bytes.Equal(v, val) {
			return nil
		}
	}
	vals = append(vals, append([]byte(nil), val...))
	sort.Slice(vals, func(i, j int) bool { return bytes.Compare(vals[i], vals[j]) < 0 })
	tbl[k] = vals
	return nil
}

func (t *fakeTxn) Del(dbi string, key, val []byte) error {
	tbl := t.table(dbi)
	k := string(key)
	if val == nil {
		delete(tbl, k)
		return nil
	}
	vals := tbl[k]
	out := vals[:0]
	for _, v := range vals {
		if !bytes.Equal(v, val) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		delete(tbl, k)
	} else {
		tbl[k] = out
	}
	return nil
}

func (t *fakeTxn) OpenCursor(dbi string) (Cursor, error) {
	return &fakeCursor{tbl: t.table(dbi)}, nil
}

type fakeCursor struct {
	tbl     map[string][][]byte
	keys    []string
	keyIdx  int
	valIdx  int
	started bool
}

func (c *fakeCursor) sortedKeys() []string {
	keys := make([]string, 0, len(c.tbl))
	for k := range c.tbl {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *fakeCursor) currentKV() (k, v []byte, ok bool) {
	if c.keyIdx < 0 || c.keyIdx >= len(c.keys) {
		return nil, nil, false
	}
	vals := c.tbl[c.keys[c.keyIdx]]
	if c.valIdx < 0 || c.valIdx >= len(vals) {
		return nil, nil, false
	}
	return []byte(c.keys[c.keyIdx]), vals[c.valIdx], true
}

func (c *fakeCursor) Get(key, val []byte, op Op) ([]byte, []byte, error) {
	switch op {
	case OpFirst:
		c.keys = c.sortedKeys()
		if len(c.keys) == 0 {
			c.keyIdx = 0
			return nil, nil, nil
		}
		c.keyIdx, c.valIdx, c.started = 0, 0, true
		k2, v2, ok := c.currentKV()
		if !ok {
			return nil, nil, nil
		}
		return k2, v2, nil
	case OpSetKey:
		c.keys = c.sortedKeys()
		for i, k := range c.keys {
			if k == string(key) {
				c.keyIdx, c.valIdx, c.started = i, 0, true
				k2, v2, ok := c.currentKV()
				if !ok {
					return nil, nil, nil
				}
				return k2, v2, nil
			}
		}
		return nil, nil, nil
	case OpSetRange:
		c.keys = c.sortedKeys()
		for i, k := range c.keys {
			if k >= string(key) {
				c.keyIdx, c.valIdx, c.started = i, 0, true
				k2, v2, ok := c.currentKV()
				if !ok {
					return nil, nil, nil
				}
				return k2, v2, nil
			}
		}
		c.keyIdx = len(c.keys)
		return nil, nil, nil
	case OpNextDup:
		if !c.started {
			return nil, nil, nil
		}
		c.valIdx++
		k2, v2, ok := c.currentKV()
		if !ok {
			return nil, nil, nil
		}
		return k2, v2, nil
	case OpLastDup:
		if !c.started || c.keyIdx >= len(c.keys) {
			return nil, nil, nil
		}
		vals := c.tbl[c.keys[c.keyIdx]]
		c.valIdx = len(vals) - 1
		k2, v2, ok := c.currentKV()
		if !ok {
			return nil, nil, nil
		}
		return k2, v2, nil
	case OpNextNoDup:
		if !c.started {
			return nil, nil, nil
		}
		c.keyIdx++
		c.valIdx = 0
		k2, v2, ok := c.currentKV()
		if !ok {
			return nil, nil, nil
		}
		return k2, v2, nil
	default:
		return nil, nil, errInvalidValue("fakeCursor: unsupported op")
	}
}

func (c *fakeCursor) Put(key, val []byte) error {
	tbl := c.tbl
	k := string(key)
	vals := tbl[k]
	vals = append(vals, append([]byte(nil), val...))
	sort.Slice(vals, func(i, j int) bool { return bytes.Compare(vals[i], vals[j]) < 0 })
	tbl[k] = vals
	return nil
}

func (c *fakeCursor) Del() error {
	k2, v2, ok := c.currentKV()
	if !ok {
		return nil
	}
	vals := c.tbl[string(k2)]
	out := vals[:0]
	for _, v := range vals {
		if !bytes.Equal(v, v2) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		delete(c.tbl, string(k2))
	} else {
		c.tbl[string(k2)] = out
	}
	return nil
}

func (c *fakeCursor) Count() (uint64, error) {
	if c.keyIdx < 0 || c.keyIdx >= len(c.keys) {
		return 0, nil
	}
	return uint64(len(c.tbl[c.keys[c.keyIdx]])), nil
}

func (c *fakeCursor) Close() {}

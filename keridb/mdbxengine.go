package keridb

import (
	"os"

	"github.com/erigontech/mdbx-go/mdbx"
)

// mdbxEngine is the concrete Engine adapter over
// github.com/erigontech/mdbx-go. It concentrates every call into the
// real binding's API surface here, so the rest of keridb depends only
// on the narrow Engine/Txn/Cursor contract in engine.go.
type mdbxEngine struct {
	env  *mdbx.Env
	path string
	dbis map[string]mdbx.DBI
}

const maxNamedDBs = 32

// openMdbxEngine creates or opens an mdbx environment rooted at path.
func openMdbxEngine(path string, mapSizeBytes int64) (Engine, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errDatabase("create db directory: " + err.Error())
	}
	env, err := mdbx.NewEnv()
	if err != nil {
		return nil, errDatabase("new mdbx env: " + err.Error())
	}
	if err := env.SetOption(mdbx.OptMaxDB, maxNamedDBs); err != nil {
		return nil, errDatabase("set max dbs: " + err.Error())
	}
	if mapSizeBytes > 0 {
		if err := env.SetGeometry(-1, -1, int(mapSizeBytes), -1, -1, -1); err != nil {
			return nil, errDatabase("set geometry: " + err.Error())
		}
	}
	if err := env.Open(path, 0, 0o644); err != nil {
		_ = env.Close()
		return nil, errDatabase("open mdbx env: " + err.Error())
	}
	return &mdbxEngine{env: env, path: path, dbis: make(map[string]mdbx.DBI)}, nil
}

func (e *mdbxEngine) Path() string { return e.path }

func (e *mdbxEngine) Close() error {
	e.env.Close()
	return nil
}

func (e *mdbxEngine) EnsureDB(dbi string, flags DBFlags) error {
	var mflags uint = mdbx.Create
	if flags&DBFlagsDupSort != 0 {
		mflags |= mdbx.DupSort
	}
	return e.env.Update(func(txn *mdbx.Txn) error {
		d, err := txn.OpenDBI(dbi, mflags, nil, nil)
		if err != nil {
			return err
		}
		e.dbis[dbi] = d
		return nil
	})
}

func (e *mdbxEngine) dbiFor(name string) (mdbx.DBI, bool) {
	d, ok := e.dbis[name]
	return d, ok
}

func (e *mdbxEngine) View(fn func(Txn) error) error {
	return e.env.View(func(txn *mdbx.Txn) error {
		return fn(&mdbxTxn{env: e, txn: txn})
	})
}

func (e *mdbxEngine) Update(fn func(Txn) error) error {
	return e.env.Update(func(txn *mdbx.Txn) error {
		return fn(&mdbxTxn{env: e, txn: txn})
	})
}

type mdbxTxn struct {
	env *mdbxEngine
	txn *mdbx.Txn
}

func (t *mdbxTxn) resolve(dbi string) (mdbx.DBI, error) {
	d, ok := t.env.dbiFor(dbi)
	if !ok {
		return 0, errDatabase("unknown sub-db: " + dbi)
	}
	return d, nil
}

func (t *mdbxTxn) Get(dbi string, key []byte) ([]byte, error) {
	d, err := t.resolve(dbi)
	if err != nil {
		return nil, err
	}
	val, err := t.txn.Get(d, key)
	if mdbx.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errDatabase("get: " + err.Error())
	}
	return val, nil
}

func (t *mdbxTxn) Put(dbi string, key, val []byte) error {
	d, err := t.resolve(dbi)
	if err != nil {
		return err
	}
	if err := t.txn.Put(d, key, val, 0); err != nil {
		return errDatabase("put: " + err.Error())
	}
	return nil
}

func (t *mdbxTxn) Del(dbi string, key, val []byte) error {
	d, err := t.resolve(dbi)
	if err != nil {
		return err
	}
	if err := t.txn.Del(d, key, val); err != nil && !mdbx.IsNotFound(err) {
		return errDatabase("del: " + err.Error())
	}
	return nil
}

func (t *mdbxTxn) OpenCursor(dbi string) (Cursor, error) {
	d, err := t.resolve(dbi)
	if err != nil {
		return nil, err
	}
	c, err := t.txn.OpenCursor(d)
	if err != nil {
		return nil, errDatabase("open cursor: " + err.Error())
	}
	return &mdbxCursor{c: c}, nil
}

type mdbxCursor struct {
	c *mdbx.Cursor
}

var cursorOps = map[Op]mdbx.CursorOp{
	OpSetKey:       mdbx.SetKey,
	OpSetRange:     mdbx.SetRange,
	OpFirst:        mdbx.First,
	OpFirstDup:     mdbx.FirstDup,
	OpNextDup:      mdbx.NextDup,
	OpLastDup:      mdbx.LastDup,
	OpNextNoDup:    mdbx.NextNoDup,
	OpGetBothRange: mdbx.GetBothRange,
}

func (c *mdbxCursor) Get(key, val []byte, op Op) (k, v []byte, err error) {
	mop, ok := cursorOps[op]
	if !ok {
		return nil, nil, errInvalidValue("unsupported cursor op")
	}
	k, v, err = c.c.Get(key, val, mop)
	if mdbx.IsNotFound(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errDatabase("cursor get: " + err.Error())
	}
	return k, v, nil
}

func (c *mdbxCursor) Put(key, val []byte) error {
	if err := c.c.Put(key, val, 0); err != nil {
		return errDatabase("cursor put: " + err.Error())
	}
	return nil
}

func (c *mdbxCursor) Del() error {
	if err := c.c.Del(0); err != nil {
		return errDatabase("cursor del: " + err.Error())
	}
	return nil
}

func (c *mdbxCursor) Count() (uint64, error) {
	n, err := c.c.Count()
	if err != nil {
		return 0, errDatabase("cursor count: " + err.Error())
	}
	return n, nil
}

func (c *mdbxCursor) Close() {
	c.c.Close()
}

package keridb

// Op names a cursor positioning operation, mirroring the primitives
// spec.md §4.5 requires of the underlying engine: `set_key`,
// `set_range`, `iternext_dup`, `last_dup`, `next_nodup`.
type Op uint8

const (
	OpSetKey Op = iota
	OpSetRange
	OpFirst
	OpFirstDup
	OpNextDup
	OpLastDup
	OpNextNoDup
	OpGetBothRange
)

// DBFlags names the duplicate-ordering discipline a sub-db is created
// with. Per spec.md §4.6, this is declared once at first creation and
// is immutable thereafter.
type DBFlags uint8

const (
	// DBFlagsDupSort marks a sub-db as holding multiple lexicographically
	// ordered values per key (sigs, rcts, vrcs: spec.md §4.5's
	// "lexicographic duplicates").
	DBFlagsDupSort DBFlags = 1 << iota
)

// Cursor is the minimal cursor surface LMDBer needs over a sub-db.
type Cursor interface {
	// Get positions the cursor per op using key/val as applicable and
	// returns the key/value found there.
	Get(key, val []byte, op Op) (k, v []byte, err error)
	Put(key, val []byte) error
	Del() error
	Count() (uint64, error)
	Close()
}

// Txn is one engine transaction, read-only or read-write.
type Txn interface {
	Get(dbi string, key []byte) (val []byte, err error)
	Put(dbi string, key, val []byte) error
	Del(dbi string, key, val []byte) error // val nil deletes all dups at key
	OpenCursor(dbi string) (Cursor, error)
}

// Engine is the narrow ordered-KV surface LMDBer is built against. A
// concrete adapter (mdbxEngine) implements this over
// github.com/erigontech/mdbx-go; tests may substitute an in-memory
// fake satisfying the same contract.
type Engine interface {
	// View runs fn in a read-only transaction.
	View(fn func(Txn) error) error
	// Update runs fn in a read-write transaction, committing on
	// success and rolling back if fn returns an error (spec.md §5:
	// "the wrapper wraps each put/del/get in its own transaction").
	Update(fn func(Txn) error) error
	// EnsureDB declares a sub-db, creating it on first use with the
	// given duplicate-ordering flags. Later calls with a different
	// flag set for the same name are a programmer error.
	EnsureDB(dbi string, flags DBFlags) error
	// Path returns the directory the engine's files live under.
	Path() string
	// Close releases the engine's resources.
	Close() error
}

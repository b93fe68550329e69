package keridb

// defaultMapSize is the upper bound of the mdbx map: openMdbxEngine
// passes it as the geometry's upper size, so the map grows on demand
// up to this size and not past it.
const defaultMapSize = 1 << 30 // 1 GiB

// OpenBaserAt opens (creating if absent) a persistent Baser rooted at
// dir, backed by mdbx.
func OpenBaserAt(dir string) (*Baser, error) {
	eng, err := openMdbxEngine(dir, defaultMapSize)
	if err != nil {
		return nil, err
	}
	b, err := OpenBaser(eng)
	if err != nil {
		_ = eng.Close()
		return nil, err
	}
	return b, nil
}

// OpenTempBaser opens a Baser over a fresh OS-temp-backed directory,
// returning a cleanup that closes the store and removes its files.
func OpenTempBaser(tail, name string) (b *Baser, cleanup func(), err error) {
	dir, rm, err := TempDir(tail, name)
	if err != nil {
		return nil, nil, err
	}
	b, err = OpenBaserAt(dir)
	if err != nil {
		rm()
		return nil, nil, err
	}
	return b, func() {
		_ = b.Close()
		rm()
	}, nil
}

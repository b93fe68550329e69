package keridb

import (
	"os"
	"path/filepath"
)

// defaultHeadDir is the preferred root for persistent database
// directories; altHeadDir is tried if the preferred head is not
// writable (spec.md §4.6).
const (
	defaultHeadDir = "/usr/local/var/keri/db"
	altHeadDirName = ".keri/db"
)

// ResolveDir returns the directory a named database should live in:
// `<head>/<tail>/<name>/`. It prefers defaultHeadDir, falling back to
// a directory under the user's home if that is not writable, and
// fails if neither is.
func ResolveDir(tail, name string) (string, error) {
	for _, head := range candidateHeads() {
		dir := filepath.Join(head, tail, name)
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return dir, nil
		}
	}
	return "", errDatabase("no writable database head path for " + tail + "/" + name)
}

func candidateHeads() []string {
	heads := []string{defaultHeadDir}
	if home, err := os.UserHomeDir(); err == nil {
		heads = append(heads, filepath.Join(home, altHeadDirName))
	}
	return heads
}

// TempDir creates a fresh OS-temp-backed database directory for
// `<tail>/<name>`, intended for tests and ephemeral habs. The caller
// is responsible for invoking the returned cleanup to remove the tree
// once the database is closed.
func TempDir(tail, name string) (dir string, cleanup func(), err error) {
	root, err := os.MkdirTemp("", "keridb-")
	if err != nil {
		return "", nil, errDatabase("create temp dir: " + err.Error())
	}
	dir = filepath.Join(root, tail, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = os.RemoveAll(root)
		return "", nil, errDatabase("create temp db dir: " + err.Error())
	}
	return dir, func() { _ = os.RemoveAll(root) }, nil
}

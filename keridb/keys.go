// Package keridb implements the KERI-specific ordered key-value store:
// an LMDB/MDBX-backed wrapper (LMDBer) providing lexicographic and
// insertion-ordered duplicate semantics over named sub-dbs, and Baser,
// the KERI key-event sub-database layout built on top of it
// (spec.md §4.5, §4.6).
package keridb

import (
	"fmt"
	"strconv"
	"strings"
)

// snKeyDigits is the zero-padded hex width of a sequence number within
// an snKey, chosen so lexicographic order equals numeric order
// (spec.md §4.5: `snKey(pre, sn) = pre + "." + hex(sn, 32)`).
const snKeyDigits = 32

// dgKey builds the digest-qualified key `pre + "." + dig` used to
// address an event's attachments (sigs, rcts, ...).
func dgKey(pre, dig string) []byte {
	return []byte(pre + "." + dig)
}

// snKey builds the sequence-number-qualified key
// `pre + "." + zero-padded-32-hex(sn)`.
func snKey(pre string, sn uint64) []byte {
	return []byte(pre + "." + fmt.Sprintf("%0*x", snKeyDigits, sn))
}

// splitKey inverts dgKey/snKey, returning the prefix and the trailing
// component (a digest string, or a hex sequence number string).
func splitKey(key []byte) (pre, trailing string, err error) {
	s := string(key)
	idx := strings.LastIndexByte(s, '.')
	if idx < 0 {
		return "", "", errDatabase("malformed key: no separator: " + s)
	}
	return s[:idx], s[idx+1:], nil
}

// splitKeySn is splitKey specialized for an snKey, parsing the trailing
// component back into a sequence number.
func splitKeySn(key []byte) (pre string, sn uint64, err error) {
	pre, trailing, err := splitKey(key)
	if err != nil {
		return "", 0, err
	}
	sn, perr := strconv.ParseUint(trailing, 16, 64)
	if perr != nil {
		return "", 0, errDatabase("malformed snKey sequence number: " + trailing)
	}
	return pre, sn, nil
}

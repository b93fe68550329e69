// Package matter implements the CESR-native primitive atom codec:
// typed values (digests, prefixes, numbers, booleans, null, text/bytes
// labels) encoded with a self-describing leading code. Every atom is
// self-delimiting: decode always knows its total size from its first
// 1-4 characters (see matter/codex.go).
package matter

import "strings"

// Matter is a generic primitive atom: a code plus its raw payload.
type Matter struct {
	code string
	raw  []byte
}

// NewMatter constructs a Matter atom for an explicit code and raw
// payload, validating the raw length against the code's Sizage.
func NewMatter(code string, raw []byte) (Matter, error) {
	sizage, ok := Sizes[code]
	if !ok {
		return Matter{}, errInvalidValue("unknown code " + code)
	}
	wantLen := rawLenForSizage(sizage, 0)
	if sizage.FS >= 0 && len(raw) != wantLen {
		return Matter{}, errInvalidValue("raw length mismatch for code " + code)
	}
	return Matter{code: code, raw: append([]byte(nil), raw...)}, nil
}

// Code returns the atom's code selector string.
func (m Matter) Code() string { return m.code }

// Raw returns the atom's raw byte payload.
func (m Matter) Raw() []byte { return m.raw }

// rawLenForSizage computes the byte length of raw material implied by
// a fixed-size code, or by a counted code given its already-decoded
// quadlet count.
func rawLenForSizage(s Sizage, quadlets int) int {
	if s.FS >= 0 {
		return s.FS*3/4 - s.LS
	}
	return quadlets*3 - s.LS
}

// Qb64 renders the atom in the CESR text domain. For a fixed-size code
// it is the base64url encoding of (lead zero pad ++ raw), with the
// leading characters of that encoding overwritten by the code itself.
// Because the lead pad bytes are zero, overwriting their leading bits
// with the code is lossless as long as the code's bit-width fits within
// the pad. A counted code is followed by its soft count and then the
// whole encoding.
func (m Matter) Qb64() (string, error) {
	sizage, ok := Sizes[m.code]
	if !ok {
		return "", errInvalidValue("unknown code " + m.code)
	}
	padded := make([]byte, sizage.LS+len(m.raw))
	copy(padded[sizage.LS:], m.raw)
	encoded := b64Encode(padded)

	if sizage.FS >= 0 {
		if len(m.code)+len(encoded)-sizage.LS != sizage.FS {
			return "", errInvalidValue("raw size does not fit fixed code " + m.code)
		}
		return m.code + encoded[sizage.LS:], nil
	}

	quadlets := (sizage.LS + len(m.raw)) / 3
	if (sizage.LS+len(m.raw))%3 != 0 {
		return "", errInvalidValue("raw+lead size not a multiple of 3 for code " + m.code)
	}
	count := encodeSoftCount(quadlets, sizage.SS)
	return m.code + count + encoded, nil
}

// Qb64b is Qb64 rendered as bytes.
func (m Matter) Qb64b() ([]byte, error) {
	s, err := m.Qb64()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// DecodeMatter parses one primitive atom from the head of buf, without
// mutating it. It returns the decoded Matter and the number of bytes
// consumed from buf.
func DecodeMatter(buf []byte) (Matter, int, error) {
	if len(buf) == 0 {
		return Matter{}, 0, errEmptyMaterial("no material to decode")
	}
	hs, ok := HardSize(buf[0])
	if !ok {
		return Matter{}, 0, errDeserialize("unrecognized code selector")
	}
	if len(buf) < hs {
		return Matter{}, 0, errDeserialize("truncated code")
	}
	code := string(buf[:hs])
	sizage, ok := Sizes[code]
	if !ok {
		return Matter{}, 0, errDeserialize("unknown code " + code)
	}

	if sizage.FS >= 0 {
		if len(buf) < sizage.FS {
			return Matter{}, 0, errDeserialize("truncated primitive for code " + code)
		}
		text := strings.Repeat("A", sizage.LS) + string(buf[hs:sizage.FS])
		raw, err := decodePayload([]byte(text), sizage.LS)
		if err != nil {
			return Matter{}, 0, err
		}
		return Matter{code: code, raw: raw}, sizage.FS, nil
	}

	if len(buf) < hs+sizage.SS {
		return Matter{}, 0, errDeserialize("truncated soft count for code " + code)
	}
	quadlets, err := decodeSoftCount(string(buf[hs : hs+sizage.SS]))
	if err != nil {
		return Matter{}, 0, err
	}
	fs := hs + sizage.SS + quadlets*4
	if len(buf) < fs {
		return Matter{}, 0, errDeserialize("truncated counted primitive for code " + code)
	}
	raw, err := decodePayload(buf[hs+sizage.SS:fs], sizage.LS)
	if err != nil {
		return Matter{}, 0, err
	}
	return Matter{code: code, raw: raw}, fs, nil
}

func decodePayload(encoded []byte, ls int) ([]byte, error) {
	padded, err := b64Decode(string(encoded))
	if err != nil {
		return nil, errDeserialize("invalid base64 payload")
	}
	if len(padded) < ls {
		return nil, errDeserialize("payload shorter than lead pad")
	}
	return padded[ls:], nil
}

// Size returns the full qb64 text size of this atom.
func (m Matter) Size() (int, error) {
	sizage, ok := Sizes[m.code]
	if !ok {
		return 0, errInvalidValue("unknown code " + m.code)
	}
	if sizage.FS >= 0 {
		return sizage.FS, nil
	}
	quadlets := (sizage.LS + len(m.raw)) / 3
	return len(m.code) + sizage.SS + quadlets*4, nil
}

// ParseComplete reports whether s is, in its entirety, exactly one
// complete primitive (no trailing or leading garbage) and if so what
// code it carries. Used by Mapper to decide whether a plain string
// value collides with a reserved primitive encoding and therefore
// needs the Escape prefix.
func ParseComplete(s string) (code string, ok bool) {
	if s == "" {
		return "", false
	}
	m, consumed, err := DecodeMatter([]byte(s))
	if err != nil {
		return "", false
	}
	if consumed != len(s) {
		return "", false
	}
	return m.code, true
}

// NewNull, NewYes, NewNo, NewEscape, NewEmpty construct the fixed
// no-payload atoms.
func NewNull() Matter   { return Matter{code: CodeNull} }
func NewYes() Matter    { return Matter{code: CodeYes} }
func NewNo() Matter     { return Matter{code: CodeNo} }
func NewEscape() Matter { return Matter{code: CodeEscape} }
func NewEmpty() Matter  { return Matter{code: CodeEmpty} }

package matter

import "lukechampine.com/blake3"

// Diger computes and holds a digest atom: a Blake3-256 (or other
// digestive code) hash of a byte string, rendered as a fixed-size
// Matter primitive.
type Diger struct {
	m Matter
}

// NewDiger hashes ser with the algorithm named by code (default
// Blake3-256 when code is empty) and wraps the result as a Diger.
func NewDiger(ser []byte, code string) (Diger, error) {
	if code == "" {
		code = CodeBlake3_256
	}
	if !DigDex[code] {
		return Diger{}, errInvalidValue("not a digestive code: " + code)
	}
	switch code {
	case CodeBlake3_256:
		sum := blake3.Sum256(ser)
		m, err := NewMatter(code, sum[:])
		if err != nil {
			return Diger{}, err
		}
		return Diger{m: m}, nil
	default:
		return Diger{}, errInvalidValue("unsupported digestive code: " + code)
	}
}

// DecodeDiger parses a digest atom from the head of buf.
func DecodeDiger(buf []byte) (Diger, int, error) {
	m, n, err := DecodeMatter(buf)
	if err != nil {
		return Diger{}, 0, err
	}
	if !DigDex[m.code] {
		return Diger{}, 0, errDeserialize("not a digestive code: " + m.code)
	}
	return Diger{m: m}, n, nil
}

// Verify reports whether ser hashes, under this Diger's own code, to
// the digest this Diger holds.
func (d Diger) Verify(ser []byte) (bool, error) {
	other, err := NewDiger(ser, d.m.code)
	if err != nil {
		return false, err
	}
	if len(other.m.raw) != len(d.m.raw) {
		return false, nil
	}
	for i := range d.m.raw {
		if d.m.raw[i] != other.m.raw[i] {
			return false, nil
		}
	}
	return true, nil
}

// Matter exposes the underlying primitive atom.
func (d Diger) Matter() Matter { return d.m }

// Code returns the digestive code this Diger was computed with.
func (d Diger) Code() string { return d.m.code }

// Qb64 renders the digest atom.
func (d Diger) Qb64() (string, error) { return d.m.Qb64() }

// Qb64b renders the digest atom as bytes.
func (d Diger) Qb64b() ([]byte, error) { return d.m.Qb64b() }

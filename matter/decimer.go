package matter

import (
	"strconv"
	"strings"
)

// Decimer round-trips a finite integer or float as a canonical base64
// representation of its decimal-string ASCII bytes, with an explicit
// lead-byte pad chosen to align the string to a quadlet boundary.
type Decimer struct {
	m Matter
}

// NewDecimer builds a Decimer from a finite decimal value, accepting
// either an int64 or a float64.
func NewDecimer(decimal any) (Decimer, error) {
	s, err := formatDecimal(decimal)
	if err != nil {
		return Decimer{}, err
	}
	raw := []byte(s)
	for _, ls := range []int{0, 1, 2} {
		if (ls+len(raw))%3 != 0 {
			continue
		}
		quadlets := (ls + len(raw)) / 3
		code := decimalCodeForLS(ls, quadlets <= maxSmallQuadlets)
		m, err := matterFromCounted(code, raw)
		if err != nil {
			return Decimer{}, err
		}
		return Decimer{m: m}, nil
	}
	return Decimer{}, errInvalidValue("no lead size aligns this decimal")
}

func decimalCodeForLS(ls int, small bool) string {
	switch {
	case small && ls == 0:
		return CodeDecimalL0
	case small && ls == 1:
		return CodeDecimalL1
	case small && ls == 2:
		return CodeDecimalL2
	case ls == 0:
		return CodeDecimalBigL0
	case ls == 1:
		return CodeDecimalBigL1
	default:
		return CodeDecimalBigL2
	}
}

func formatDecimal(decimal any) (string, error) {
	switch v := decimal.(type) {
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s, nil
	default:
		return "", errInvalidValue("unsupported decimal type")
	}
}

// DecodeDecimer parses a Decimer atom from the head of buf.
func DecodeDecimer(buf []byte) (Decimer, int, error) {
	m, n, err := DecodeMatter(buf)
	if err != nil {
		return Decimer{}, 0, err
	}
	if Sizes[m.code].Kind != KindDecimal {
		return Decimer{}, 0, errDeserialize("not a decimal code: " + m.code)
	}
	return Decimer{m: m}, n, nil
}

// Decimal returns the native Go value: int64 if the string has no
// fraction, else float64.
func (d Decimer) Decimal() (any, error) {
	s := string(d.m.raw)
	if !strings.Contains(s, ".") {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errInvalidValue("malformed decimal integer")
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errInvalidValue("malformed decimal float")
	}
	return f, nil
}

// Matter exposes the underlying primitive atom.
func (d Decimer) Matter() Matter { return d.m }

// Qb64 renders the decimer atom.
func (d Decimer) Qb64() (string, error) { return d.m.Qb64() }

// Qb64b renders the decimer atom as bytes.
func (d Decimer) Qb64b() ([]byte, error) { return d.m.Qb64b() }

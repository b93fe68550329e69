package matter

import "regexp"

// StrictLabelPattern is the regex strict labels must satisfy (valid Go
// identifier-style attribute names).
var StrictLabelPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const maxSmallQuadlets = 1<<12 - 1 // two base64 soft-count chars

// Labeler encodes a field-map label: either a strict attribute-style
// label (Label1/Label2, overflowing to StrB64 for long labels) or
// arbitrary UTF-8 text (StrB64 family only).
type Labeler struct {
	m Matter
}

// NewStrictLabel builds a Labeler for a strict label string, selecting
// the smallest admissible code for its byte length class.
func NewStrictLabel(label string) (Labeler, error) {
	if label == "" {
		return Labeler{}, errEmptyMaterial("empty label")
	}
	if !StrictLabelPattern.MatchString(label) {
		return Labeler{}, errInvalidValue("label is not strict: " + label)
	}
	return newLabelMatter([]byte(label))
}

// NewTextLabel builds a Labeler for arbitrary UTF-8 text, always using
// the StrB64 family (never the strict Label1/Label2 codes, since
// those are reserved for strict labels per spec §4.1).
func NewTextLabel(text string) (Labeler, error) {
	if text == "" {
		return Labeler{}, errEmptyMaterial("empty text")
	}
	m, err := newStrB64Matter([]byte(text))
	if err != nil {
		return Labeler{}, err
	}
	return Labeler{m: m}, nil
}

func newLabelMatter(raw []byte) (Labeler, error) {
	for _, code := range []string{CodeLabel2, CodeLabel1} {
		ls := Sizes[code].LS
		if (ls+len(raw))%3 == 0 && len(raw) <= maxSmallQuadlets*3 {
			m, err := matterFromCounted(code, raw)
			if err != nil {
				return Labeler{}, err
			}
			return Labeler{m: m}, nil
		}
	}
	m, err := newStrB64Matter(raw)
	if err != nil {
		return Labeler{}, err
	}
	return Labeler{m: m}, nil
}

func newStrB64Matter(raw []byte) (Matter, error) {
	for _, ls := range []int{0, 1, 2} {
		if (ls+len(raw))%3 != 0 {
			continue
		}
		quadlets := (ls + len(raw)) / 3
		code := strB64CodeForLS(ls, quadlets <= maxSmallQuadlets)
		return matterFromCounted(code, raw)
	}
	return Matter{}, errInvalidValue("no lead size aligns this label")
}

func strB64CodeForLS(ls int, small bool) string {
	switch {
	case small && ls == 0:
		return CodeStrB64L0
	case small && ls == 1:
		return CodeStrB64L1
	case small && ls == 2:
		return CodeStrB64L2
	case ls == 0:
		return CodeStrB64BigL0
	case ls == 1:
		return CodeStrB64BigL1
	default:
		return CodeStrB64BigL2
	}
}

func matterFromCounted(code string, raw []byte) (Matter, error) {
	sizage, ok := Sizes[code]
	if !ok {
		return Matter{}, errInvalidValue("unknown code " + code)
	}
	if (sizage.LS+len(raw))%3 != 0 {
		return Matter{}, errInvalidValue("raw length does not align for code " + code)
	}
	return Matter{code: code, raw: append([]byte(nil), raw...)}, nil
}

// DecodeLabeler parses a Labeler atom from the head of buf.
func DecodeLabeler(buf []byte) (Labeler, int, error) {
	m, n, err := DecodeMatter(buf)
	if err != nil {
		return Labeler{}, 0, err
	}
	switch m.code {
	case CodeLabel1, CodeLabel2, CodeStrB64L0, CodeStrB64L1, CodeStrB64L2,
		CodeStrB64BigL0, CodeStrB64BigL1, CodeStrB64BigL2:
		return Labeler{m: m}, n, nil
	default:
		return Labeler{}, 0, errDeserialize("not a labeler code: " + m.code)
	}
}

// Label returns the decoded label text, validating it is strict.
func (l Labeler) Label() (string, error) {
	s := string(l.m.raw)
	if !StrictLabelPattern.MatchString(s) {
		return "", errInvalidValue("label is not strict: " + s)
	}
	return s, nil
}

// Text returns the decoded text verbatim, with no strictness check.
func (l Labeler) Text() string {
	return string(l.m.raw)
}

// Matter exposes the underlying primitive atom.
func (l Labeler) Matter() Matter { return l.m }

// Qb64 renders the labeler atom.
func (l Labeler) Qb64() (string, error) { return l.m.Qb64() }

// Qb64b renders the labeler atom as bytes.
func (l Labeler) Qb64b() ([]byte, error) { return l.m.Qb64b() }

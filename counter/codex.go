// Package counter implements the CESR framing codec: Counter atoms
// that enclose a nested payload of a known quadlet (text domain) or
// triplet (binary domain) count, tagged with a group-kind code. Unlike
// matter.Matter, a Counter's payload length is never self-describing
// from a fixed table entry -- it is always an explicit count.
package counter

import "github.com/datatrails/go-keri/kerierr"

// Cold names the serialization domain a Counter's count is measured
// against: quadlets of base64 text, or triplets of raw bytes.
type Cold uint8

const (
	ColdText Cold = iota
	ColdBinary
)

// Codex names the group kinds this package enclose()s and peek()s.
type Codex string

const (
	GenericMapGroup     Codex = "GenericMapGroup"
	GenericListGroup    Codex = "GenericListGroup"
	BigGenericMapGroup  Codex = "BigGenericMapGroup"
	BigGenericListGroup Codex = "BigGenericListGroup"
)

// normalMaxCount is the largest count a normal (2-char soft count)
// counter code can carry; above this, enclose automatically switches
// to the big (4-char) variant.
const normalMaxCount = 1<<12 - 1 // 4095, two base64 digits

// code is a concrete text-domain counter selector: HS hard chars
// naming the group kind, SS soft chars encoding the count.
type code struct {
	name Codex
	hs   int
	ss   int
}

var normalCodes = map[Codex]code{
	GenericMapGroup:  {name: GenericMapGroup, hs: 2, ss: 2},
	GenericListGroup: {name: GenericListGroup, hs: 2, ss: 2},
}

var bigCodes = map[Codex]code{
	BigGenericMapGroup:  {name: BigGenericMapGroup, hs: 4, ss: 4},
	BigGenericListGroup: {name: BigGenericListGroup, hs: 4, ss: 4},
}

// selectors maps each normal code's literal hard-part text to its
// Codex name, and likewise for big codes. These are this package's own
// invented selectors (the spec does not fix literal Counter code
// strings), chosen to be internally self-consistent the same way
// matter.Sizes is: every selector's length equals its own hs.
var selectors = map[string]Codex{
	"-A":   GenericMapGroup,
	"-B":   GenericListGroup,
	"-0A.": BigGenericMapGroup,
	"-0B.": BigGenericListGroup,
}

var bigOf = map[Codex]Codex{
	GenericMapGroup:  BigGenericMapGroup,
	GenericListGroup: BigGenericListGroup,
}

var hardOf = map[Codex]string{
	GenericMapGroup:     "-A",
	GenericListGroup:    "-B",
	BigGenericMapGroup:  "-0A.",
	BigGenericListGroup: "-0B.",
}

func errInvalidValue(msg string) error {
	return wrapf(msg, kerierr.ErrInvalidValue)
}

func errDeserialize(msg string) error {
	return wrapf(msg, kerierr.ErrDeserialize)
}

package matter

// Kind tags what family a code belongs to, driving how Mapper dispatches
// a decoded primitive back into a native Go value.
type Kind uint8

const (
	KindNull Kind = iota
	KindYes
	KindNo
	KindEscape
	KindEmpty
	KindDigest
	KindDecimal
	KindLabel  // strict attribute-style label (V/W, or StrB64 overflow)
	KindString // arbitrary text (StrB64 family)
	KindBytes  // raw byte string
	KindTag    // reserved tag codes; recognized, never constructed by us
)

// Sizage describes one codex entry: how many characters are "hard" (the
// code selector itself), how many are "soft" (an embedded base64 count
// of trailing quadlets, 0 for fixed-size codes), how many lead bytes of
// zero padding are folded into the raw material before encoding, and
// the full qb64 text size when fixed (-1 when variable/counted).
type Sizage struct {
	Kind Kind
	HS   int
	SS   int
	LS   int
	FS   int // -1 for counted/variable codes
}

// Fixed, no-payload codes (the atom IS the code).
const (
	CodeNull   = "1AAK"
	CodeNo     = "1AAL"
	CodeYes    = "1AAM"
	CodeEscape = "1AAO"
	CodeEmpty  = "1AAP"
)

// Digest codes.
const (
	CodeBlake3_256 = "E"
)

// Decimal (Decimer) codes: leader size 0/1/2, plus big variants.
const (
	CodeDecimalL0    = "4H"
	CodeDecimalL1    = "5H"
	CodeDecimalL2    = "6H"
	CodeDecimalBigL0 = "7AAH"
	CodeDecimalBigL1 = "8AAH"
	CodeDecimalBigL2 = "9AAH"
)

// Arbitrary base64-text string codes, plus big variants.
const (
	CodeStrB64L0    = "4A"
	CodeStrB64L1    = "5A"
	CodeStrB64L2    = "6A"
	CodeStrB64BigL0 = "7AAA"
	CodeStrB64BigL1 = "8AAA"
	CodeStrB64BigL2 = "9AAA"
)

// Raw byte-string codes, plus big variants.
const (
	CodeBytesL0    = "4B"
	CodeBytesL1    = "5B"
	CodeBytesL2    = "6B"
	CodeBytesBigL0 = "7AAB"
	CodeBytesBigL1 = "8AAB"
	CodeBytesBigL2 = "9AAB"
)

// Counted strict-label codes: one hard character plus a 3-character
// soft count, so every label atom is a whole number of quadlets.
const (
	CodeLabel1 = "V" // lead size 1
	CodeLabel2 = "W" // lead size 0
)

// Reserved tag codes. We never construct these ourselves; they exist so
// the escape codex and the generic "is this a complete primitive"
// probe recognize them.
const (
	CodeTag1  = "0J"
	CodeTag2  = "0K"
	CodeTag3  = "X"
	CodeTag4  = "1AAF"
	CodeTag5  = "0L"
	CodeTag6  = "0M"
	CodeTag7  = "Y"
	CodeTag8  = "1AAN"
	CodeTag9  = "0N"
	CodeTag10 = "0O"
	CodeTag11 = "Z"
)

// Sizes is the codex: the canonical lookup table for every known code.
var Sizes = map[string]Sizage{
	CodeNull:   {Kind: KindNull, HS: 4, SS: 0, LS: 0, FS: 4},
	CodeNo:     {Kind: KindNo, HS: 4, SS: 0, LS: 0, FS: 4},
	CodeYes:    {Kind: KindYes, HS: 4, SS: 0, LS: 0, FS: 4},
	CodeEscape: {Kind: KindEscape, HS: 4, SS: 0, LS: 0, FS: 4},
	CodeEmpty:  {Kind: KindEmpty, HS: 4, SS: 0, LS: 0, FS: 4},

	CodeBlake3_256: {Kind: KindDigest, HS: 1, SS: 0, LS: 1, FS: 44},

	CodeDecimalL0:    {Kind: KindDecimal, HS: 2, SS: 2, LS: 0, FS: -1},
	CodeDecimalL1:    {Kind: KindDecimal, HS: 2, SS: 2, LS: 1, FS: -1},
	CodeDecimalL2:    {Kind: KindDecimal, HS: 2, SS: 2, LS: 2, FS: -1},
	CodeDecimalBigL0: {Kind: KindDecimal, HS: 4, SS: 4, LS: 0, FS: -1},
	CodeDecimalBigL1: {Kind: KindDecimal, HS: 4, SS: 4, LS: 1, FS: -1},
	CodeDecimalBigL2: {Kind: KindDecimal, HS: 4, SS: 4, LS: 2, FS: -1},

	CodeStrB64L0:    {Kind: KindString, HS: 2, SS: 2, LS: 0, FS: -1},
	CodeStrB64L1:    {Kind: KindString, HS: 2, SS: 2, LS: 1, FS: -1},
	CodeStrB64L2:    {Kind: KindString, HS: 2, SS: 2, LS: 2, FS: -1},
	CodeStrB64BigL0: {Kind: KindString, HS: 4, SS: 4, LS: 0, FS: -1},
	CodeStrB64BigL1: {Kind: KindString, HS: 4, SS: 4, LS: 1, FS: -1},
	CodeStrB64BigL2: {Kind: KindString, HS: 4, SS: 4, LS: 2, FS: -1},

	CodeBytesL0:    {Kind: KindBytes, HS: 2, SS: 2, LS: 0, FS: -1},
	CodeBytesL1:    {Kind: KindBytes, HS: 2, SS: 2, LS: 1, FS: -1},
	CodeBytesL2:    {Kind: KindBytes, HS: 2, SS: 2, LS: 2, FS: -1},
	CodeBytesBigL0: {Kind: KindBytes, HS: 4, SS: 4, LS: 0, FS: -1},
	CodeBytesBigL1: {Kind: KindBytes, HS: 4, SS: 4, LS: 1, FS: -1},
	CodeBytesBigL2: {Kind: KindBytes, HS: 4, SS: 4, LS: 2, FS: -1},

	CodeLabel1: {Kind: KindLabel, HS: 1, SS: 3, LS: 1, FS: -1},
	CodeLabel2: {Kind: KindLabel, HS: 1, SS: 3, LS: 0, FS: -1},

	CodeTag1:  {Kind: KindTag, HS: 2, SS: 0, LS: 0, FS: 3},
	CodeTag2:  {Kind: KindTag, HS: 2, SS: 0, LS: 0, FS: 4},
	CodeTag3:  {Kind: KindTag, HS: 1, SS: 0, LS: 0, FS: 4},
	CodeTag4:  {Kind: KindTag, HS: 4, SS: 0, LS: 0, FS: 8},
	CodeTag5:  {Kind: KindTag, HS: 2, SS: 0, LS: 0, FS: 7},
	CodeTag6:  {Kind: KindTag, HS: 2, SS: 0, LS: 0, FS: 8},
	CodeTag7:  {Kind: KindTag, HS: 1, SS: 0, LS: 0, FS: 8},
	CodeTag8:  {Kind: KindTag, HS: 4, SS: 0, LS: 0, FS: 12},
	CodeTag9:  {Kind: KindTag, HS: 2, SS: 0, LS: 0, FS: 11},
	CodeTag10: {Kind: KindTag, HS: 2, SS: 0, LS: 0, FS: 12},
	CodeTag11: {Kind: KindTag, HS: 1, SS: 0, LS: 0, FS: 12},
}

// DigDex names digestive codes admissible as SAID field values.
var DigDex = map[string]bool{
	CodeBlake3_256: true,
}

// EscapeDex is the set of codes that, if a plain string value happens
// to parse as exactly one of them, must be prefixed with the Escape
// atom when serialized as a Mapper field value (see spec §6, §4.3).
var EscapeDex = map[string]bool{
	CodeEscape: true,
	CodeNull:   true,
	CodeNo:     true,
	CodeYes:    true,
	CodeEmpty:  true,

	CodeDecimalL0: true, CodeDecimalL1: true, CodeDecimalL2: true,
	CodeDecimalBigL0: true, CodeDecimalBigL1: true, CodeDecimalBigL2: true,

	CodeStrB64L0: true, CodeStrB64L1: true, CodeStrB64L2: true,
	CodeStrB64BigL0: true, CodeStrB64BigL1: true, CodeStrB64BigL2: true,

	CodeTag1: true, CodeTag2: true, CodeTag3: true, CodeTag4: true,
	CodeTag5: true, CodeTag6: true, CodeTag7: true, CodeTag8: true,
	CodeTag9: true, CodeTag10: true, CodeTag11: true,

	CodeLabel1: true, CodeLabel2: true,

	CodeBytesL0: true, CodeBytesL1: true, CodeBytesL2: true,
	CodeBytesBigL0: true, CodeBytesBigL1: true, CodeBytesBigL2: true,
}

// hardSizeByFirstChar maps the first text character of a code to its
// hard size (selector length in characters). Every code sharing a
// first character must agree on hard size -- this is what lets decode
// learn a primitive's full size from just its first 1-4 characters.
var hardSizeByFirstChar = map[byte]int{}

func init() {
	for code, sizage := range Sizes {
		c := code[0]
		if existing, ok := hardSizeByFirstChar[c]; ok && existing != sizage.HS {
			panic("matter: inconsistent hard size for first char " + string(c))
		}
		hardSizeByFirstChar[c] = sizage.HS
	}
}

// HardSize returns the hard (selector) size implied by the first
// character of a qb64 string, or 0, false if unrecognized.
func HardSize(first byte) (int, bool) {
	hs, ok := hardSizeByFirstChar[first]
	return hs, ok
}

package mapping

import "github.com/datatrails/go-keri/matter"

// decDex names the Decimer-family codes: a primitive of one of these
// codes, seen as a value, decodes back to a native int64/float64.
var decDex = map[string]bool{
	matter.CodeDecimalL0: true, matter.CodeDecimalL1: true, matter.CodeDecimalL2: true,
	matter.CodeDecimalBigL0: true, matter.CodeDecimalBigL1: true, matter.CodeDecimalBigL2: true,
}

// labelDex names the StrB64/Label-family codes: a primitive of one of
// these codes, seen as a value, decodes back to its text via Labeler.
var labelDex = map[string]bool{
	matter.CodeStrB64L0: true, matter.CodeStrB64L1: true, matter.CodeStrB64L2: true,
	matter.CodeStrB64BigL0: true, matter.CodeStrB64BigL1: true, matter.CodeStrB64BigL2: true,
	matter.CodeLabel1: true, matter.CodeLabel2: true,
}

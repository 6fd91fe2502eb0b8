// internal/mubi/mubi.go

// Package mubi holds the multi-bit hardened encodings used by the
// entropy complex register contract. Only the exact encodings below
// count as true or false; every other bit pattern is distinguishable
// from both, so partial bit flips surface as failures instead of being
// coerced to a default. Comparisons MUST stay exact-match.
package mubi

// Bool4 is a 4-bit multi-bit boolean as stored in register fields.
type Bool4 uint32

const (
	True4  Bool4 = 0x6
	False4 Bool4 = 0x9
)

// IsTrue reports whether b is exactly the true encoding.
func (b Bool4) IsTrue() bool { return b == True4 }

// IsFalse reports whether b is exactly the false encoding.
func (b Bool4) IsFalse() bool { return b == False4 }

// HardenedBool is a 32-bit hardened boolean used in driver-side state.
type HardenedBool uint32

const (
	HardenedTrue  HardenedBool = 0x739
	HardenedFalse HardenedBool = 0x1d4
)

// IsTrue reports whether b is exactly the true encoding.
func (b HardenedBool) IsTrue() bool { return b == HardenedTrue }

// IsFalse reports whether b is exactly the false encoding.
func (b HardenedBool) IsFalse() bool { return b == HardenedFalse }

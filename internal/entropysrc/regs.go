// internal/entropysrc/regs.go
package entropysrc

import "github.com/tamzrod/entropy-complex/internal/registers"

// ENTROPY_SRC register offsets. Generated from the hardware
// specification; treat as a fixed external contract.

const (
	regModuleEnable       = 0x20 // module enable (RW)
	regConf               = 0x24 // operating mode configuration (RW)
	regEntropyControl     = 0x28 // routing and type control (RW)
	regHealthTestWindows  = 0x30 // health test window sizes (RW)
	regRepcntThresholds   = 0x34 // repetition count test (RW)
	regRepcntsThresholds  = 0x38 // repetition count symbol test (RW)
	regAdaptpHiThresholds = 0x3c // adaptive proportion test high (RW)
	regAdaptpLoThresholds = 0x40 // adaptive proportion test low (RW)
	regBucketThresholds   = 0x44 // bucket test (RW)
	regMarkovHiThresholds = 0x48 // Markov test high (RW)
	regMarkovLoThresholds = 0x4c // Markov test low (RW)
	regExthtHiThresholds  = 0x50 // external health test high (RW)
	regExthtLoThresholds  = 0x54 // external health test low (RW)
	regAlertThreshold     = 0x58 // health test alert threshold (RW)
)

// Register reset values.

const (
	moduleEnableResval = 0x9 // multi-bit false

	entropyControlResval = 0x99

	confResval = 0x909099

	// FIPS window 0x200 in [15:0], bypass window 0x60 in [31:16].
	healthTestWindowsResval = 0x600200

	// Threshold 2 in [15:0], inverted threshold in [31:16].
	alertThresholdResval = 0xfffd0002

	// Both threshold fields wide open.
	thresholdsResval = 0xffffffff
)

// Configuration register fields.
var (
	controlEsRouteField = registers.Field{Mask: 0xf, Shift: 0}
	controlEsTypeField  = registers.Field{Mask: 0xf, Shift: 4}

	confFipsEnableField     = registers.Field{Mask: 0xf, Shift: 0}
	confEntropyDataRegField = registers.Field{Mask: 0xf, Shift: 4}
	confThresholdScopeField = registers.Field{Mask: 0xf, Shift: 12}
	confRngBitEnableField   = registers.Field{Mask: 0xf, Shift: 20}
	confRngBitSelField      = registers.Field{Mask: 0x3, Shift: 24}

	windowsFipsWindowField = registers.Field{Mask: 0xffff, Shift: 0}

	alertThresholdField    = registers.Field{Mask: 0xffff, Shift: 0}
	alertThresholdInvField = registers.Field{Mask: 0xffff, Shift: 16}

	// Every health test threshold register carries the FIPS threshold
	// in [15:0] and the (unused here) bypass threshold in [31:16].
	thresholdsFipsField = registers.Field{Mask: 0xffff, Shift: 0}
)

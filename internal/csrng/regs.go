// internal/csrng/regs.go
package csrng

import "github.com/tamzrod/entropy-complex/internal/registers"

// CSRNG register offsets. Generated from the hardware specification;
// treat as a fixed external contract.

const (
	regIntrState   = 0x00 // interrupt state (RW1C)
	regIntrEnable  = 0x04 // interrupt enable (RW)
	regIntrTest    = 0x08 // interrupt test (W)
	regAlertTest   = 0x0c // alert test (W)
	regRegwen      = 0x10 // register write enable (RW0C)
	regCtrl        = 0x14 // block control (RW)
	regCmdReq      = 0x18 // application command request (W)
	regSwCmdSts    = 0x1c // software command status (R)
	regGenbitsVld  = 0x20 // generated bits valid (R)
	regGenbits     = 0x24 // generated bits FIFO (R)
	regMainSMState = 0x40 // internal main state machine state (R)
)

// Register reset values and bit positions.

const (
	ctrlResval = 0x999 // all control fields multi-bit false

	intrCmdReqDoneBit = 0 // cs_cmd_req_done

	swCmdStsCmdRdyBit = 0 // ready to accept a command
	swCmdStsCmdStsBit = 1 // set only when the last command failed

	genbitsVldBit  = 0 // a 128-bit block is available
	genbitsFipsBit = 1 // the available block is FIPS-compatible

	// Must match MainSmIdle in the hardware state machine encoding.
	mainSMIdle = 0x4e
)

// Control register fields, all 4-bit multi-bit booleans.
var (
	ctrlEnableField       = registers.Field{Mask: 0xf, Shift: 0}
	ctrlSwAppEnableField  = registers.Field{Mask: 0xf, Shift: 4}
	ctrlReadIntStateField = registers.Field{Mask: 0xf, Shift: 8}
)

// Application command header fields. The header is not a register in
// the hardware specification; the layout is mapped here by hand. The
// command register also accepts arbitrary 32-bit data (seed words).
var (
	cmdFieldID    = registers.Field{Mask: 0xf, Shift: 0}
	cmdFieldLen   = registers.Field{Mask: 0xf, Shift: 4}
	cmdFieldFlag0 = registers.Field{Mask: 0xf, Shift: 8}
	cmdFieldGlen  = registers.Field{Mask: 0x7ffff, Shift: 12}
)

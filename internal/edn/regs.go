// internal/edn/regs.go
package edn

import "github.com/tamzrod/entropy-complex/internal/registers"

// EDN register offsets. Generated from the hardware specification;
// treat as a fixed external contract.

const (
	regCtrl        = 0x14 // block control (RW)
	regSwCmdReq    = 0x20 // software command request, relayed to the engine (W)
	regSwCmdSts    = 0x24 // software command status (R)
	regReseedCmd   = 0x28 // reseed command template (W)
	regGenerateCmd = 0x2c // generate command template (W)
	regMaxNumReqs  = 0x30 // generate requests between automatic reseeds (RW)
)

const (
	ctrlResval = 0x9999 // all control fields multi-bit false

	swCmdStsCmdRdyBit = 0 // ready to accept a command
	swCmdStsCmdStsBit = 1 // set only when the last command failed
)

// Control register fields, all 4-bit multi-bit booleans.
var (
	ctrlEnableField      = registers.Field{Mask: 0xf, Shift: 0}
	ctrlBootReqModeField = registers.Field{Mask: 0xf, Shift: 4}
	ctrlAutoReqModeField = registers.Field{Mask: 0xf, Shift: 8}
	ctrlCmdFifoRstField  = registers.Field{Mask: 0xf, Shift: 12}
)

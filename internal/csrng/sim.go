// internal/csrng/sim.go
package csrng

import "github.com/tamzrod/entropy-complex/internal/registers"

// SeedSimReady seeds a registers.Sim so an engine at base accepts and
// completes commands: state machine idle, command interface ready,
// completion latched, and FIPS-compatible bits available.
func SeedSimReady(s *registers.Sim, base uint32) {
	s.Seed(base+regMainSMState, mainSMIdle)
	s.Seed(base+regSwCmdSts, registers.SetBit(0, swCmdStsCmdRdyBit))
	s.Seed(base+regIntrState, registers.SetBit(0, intrCmdReqDoneBit))
	s.Seed(base+regGenbitsVld,
		registers.SetBit(registers.SetBit(0, genbitsVldBit), genbitsFipsBit))
}

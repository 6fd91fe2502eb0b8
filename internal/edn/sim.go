// internal/edn/sim.go
package edn

import "github.com/tamzrod/entropy-complex/internal/registers"

// SeedSimReady seeds a registers.Sim so a unit at base reports ready
// with no error status.
func SeedSimReady(s *registers.Sim, base uint32) {
	s.Seed(base+regSwCmdSts, registers.SetBit(0, swCmdStsCmdRdyBit))
}

// internal/entropy/sim.go
package entropy

import (
	"github.com/tamzrod/entropy-complex/internal/csrng"
	"github.com/tamzrod/entropy-complex/internal/edn"
	"github.com/tamzrod/entropy-complex/internal/registers"
)

// NewSimBus returns a register image seeded so the whole complex
// behaves as responsive hardware: commands are accepted and complete,
// and generated blocks read as FIPS-compatible. Used by package tests
// and the CLI's sim backend.
func NewSimBus() *registers.Sim {
	s := registers.NewSim()
	csrng.SeedSimReady(s, BaseCsrng)
	edn.SeedSimReady(s, BaseEDN0)
	edn.SeedSimReady(s, BaseEDN1)
	return s
}

// internal/entropy/generate.go
package entropy

import (
	"github.com/tamzrod/entropy-complex/internal/csrng"
	"github.com/tamzrod/entropy-complex/internal/mubi"
)

// Software generation path: these talk to the DRBG engine's own
// interface directly, bypassing the distribution units. Every command
// is tracked to completion.

// Instantiate creates the engine's software DRBG instance. When
// disableTRNGInput is exactly the hardened true encoding, the instance
// is seeded from seed material alone, without TRNG input.
func (c *Complex) Instantiate(disableTRNGInput mubi.HardenedBool, seed *csrng.SeedMaterial) error {
	return c.engine.Send(csrng.Command{
		Op:               csrng.OpInstantiate,
		DisableTRNGInput: disableTRNGInput,
		Seed:             seed,
	})
}

// Reseed mixes fresh entropy, and optionally seed material, into the
// software instance.
func (c *Complex) Reseed(disableTRNGInput mubi.HardenedBool, seed *csrng.SeedMaterial) error {
	return c.engine.Send(csrng.Command{
		Op:               csrng.OpReseed,
		DisableTRNGInput: disableTRNGInput,
		Seed:             seed,
	})
}

// Update absorbs seed material into the instance state without a
// reseed.
func (c *Complex) Update(seed *csrng.SeedMaterial) error {
	return c.engine.Send(csrng.Command{
		Op:   csrng.OpUpdate,
		Seed: seed,
	})
}

// GenerateStart issues a generate command sized to cover lenWords
// 32-bit words, rounded up to whole 128-bit blocks.
func (c *Complex) GenerateStart(seed *csrng.SeedMaterial, lenWords int) error {
	return c.engine.Send(csrng.Command{
		Op:          csrng.OpGenerate,
		Seed:        seed,
		GenerateLen: csrng.Blocks(lenWords),
	})
}

// GenerateDataGet drains the started generate request into buf. See
// csrng.Device.GenerateDataGet for the drain and FIPS-check contract.
func (c *Complex) GenerateDataGet(buf []uint32, fipsCheck mubi.HardenedBool) error {
	return c.engine.GenerateDataGet(buf, fipsCheck)
}

// Generate is GenerateStart followed by GenerateDataGet.
func (c *Complex) Generate(seed *csrng.SeedMaterial, buf []uint32, fipsCheck mubi.HardenedBool) error {
	if err := c.GenerateStart(seed, len(buf)); err != nil {
		return err
	}
	return c.GenerateDataGet(buf, fipsCheck)
}

// Uninstantiate tears down the software instance.
func (c *Complex) Uninstantiate() error {
	return c.engine.Send(csrng.Command{Op: csrng.OpUninstantiate})
}

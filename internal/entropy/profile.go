// internal/entropy/profile.go
package entropy

import (
	"fmt"

	"github.com/tamzrod/entropy-complex/internal/csrng"
	"github.com/tamzrod/entropy-complex/internal/edn"
	"github.com/tamzrod/entropy-complex/internal/entropysrc"
	"github.com/tamzrod/entropy-complex/internal/mubi"
	"github.com/tamzrod/entropy-complex/internal/registers"
)

// Block base addresses from the platform memory map.
const (
	BaseCsrng      = 0x41150000
	BaseEntropySrc = 0x41160000
	BaseEDN0       = 0x41170000
	BaseEDN1       = 0x41180000
)

// ProfileID names an entry of the profile table.
type ProfileID uint32

// ProfileContinuous is the single supported runtime profile: FIPS
// conditioned entropy distributed to hardware consumers continuously.
const ProfileContinuous ProfileID = 0x1e5f

// Profile is one named, immutable entropy complex configuration.
type Profile struct {
	// ID must match the table key; every lookup re-checks it so a
	// corrupted selection is caught instead of silently applied.
	ID ProfileID

	EntropySrc entropysrc.Config
	EDN0       edn.Config
	EDN1       edn.Config
}

// profiles is fixed at build time and never mutated.
var profiles = map[ProfileID]Profile{
	ProfileContinuous: {
		ID: ProfileContinuous,
		EntropySrc: entropysrc.Config{
			FIPSEnable:         mubi.True4,
			RouteToFirmware:    mubi.False4,
			BypassConditioner:  mubi.False4,
			SingleBitMode:      mubi.False4,
			FIPSTestWindowSize: 0x200,
			AlertThreshold:     2,
			RepcntThreshold:    0xffff,
			RepcntsThreshold:   0xffff,
			AdaptpHiThreshold:  0xffff,
			AdaptpLoThreshold:  0x0,
			BucketThreshold:    0xffff,
			MarkovHiThreshold:  0xffff,
			MarkovLoThreshold:  0x0,
			ExthtHiThreshold:   0xffff,
			ExthtLoThreshold:   0x0,
		},
		EDN0: edn.Config{
			Base:           BaseEDN0,
			ReseedInterval: 32,
			Instantiate: csrng.Command{
				Op:               csrng.OpInstantiate,
				DisableTRNGInput: mubi.HardenedFalse,
			},
			Generate: csrng.Command{
				Op:               csrng.OpGenerate,
				DisableTRNGInput: mubi.HardenedFalse,
				GenerateLen:      8,
			},
			Reseed: csrng.Command{
				Op:               csrng.OpReseed,
				DisableTRNGInput: mubi.HardenedFalse,
			},
		},
		EDN1: edn.Config{
			Base:           BaseEDN1,
			ReseedInterval: 4,
			Instantiate: csrng.Command{
				Op:               csrng.OpInstantiate,
				DisableTRNGInput: mubi.HardenedFalse,
			},
			Generate: csrng.Command{
				Op:               csrng.OpGenerate,
				DisableTRNGInput: mubi.HardenedFalse,
				GenerateLen:      1,
			},
			Reseed: csrng.Command{
				Op:               csrng.OpReseed,
				DisableTRNGInput: mubi.HardenedFalse,
			},
		},
	},
}

// lookupProfile fetches a table entry and re-validates its identity
// field against the requested key before use.
func lookupProfile(id ProfileID) (Profile, error) {
	p, ok := profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("entropy: unknown profile %#x: %w", uint32(id), registers.ErrBadArgs)
	}
	if p.ID != id {
		return Profile{}, fmt.Errorf("entropy: profile %#x identity mismatch: %w", uint32(id), registers.ErrRecoverable)
	}
	return p, nil
}

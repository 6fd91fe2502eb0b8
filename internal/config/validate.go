// internal/config/validate.go
package config

import "fmt"

// maxGenerateBlocks mirrors the SP 800-90A cap enforced by the driver.
const maxGenerateBlocks = 0x800

// Validate checks overlay correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	o := cfg.Entropy

	if s := o.Source; s != nil {
		if s.FIPSWindowSize != nil && *s.FIPSWindowSize == 0 {
			return fmt.Errorf("config: source: fips_window_size must be > 0")
		}

		if t := s.Thresholds; t != nil {
			// High/low pairs: a high threshold below its low
			// counterpart can never pass a health test.
			pairs := []struct {
				name   string
				hi, lo *uint16
			}{
				{"adaptp", t.AdaptpHi, t.AdaptpLo},
				{"markov", t.MarkovHi, t.MarkovLo},
				{"extht", t.ExthtHi, t.ExthtLo},
			}
			for _, p := range pairs {
				if p.hi != nil && p.lo != nil && *p.hi < *p.lo {
					return fmt.Errorf(
						"config: thresholds: %s_hi (%d) below %s_lo (%d)",
						p.name, *p.hi, p.name, *p.lo,
					)
				}
			}
		}
	}

	for _, e := range []struct {
		name string
		edn  *EDNOverrides
	}{
		{"edn0", o.EDN0},
		{"edn1", o.EDN1},
	} {
		if e.edn == nil {
			continue
		}
		if e.edn.ReseedInterval != nil && *e.edn.ReseedInterval == 0 {
			return fmt.Errorf("config: %s: reseed_interval must be > 0", e.name)
		}
		if e.edn.GenerateBlocks != nil {
			if *e.edn.GenerateBlocks == 0 {
				return fmt.Errorf("config: %s: generate_blocks must be > 0", e.name)
			}
			if *e.edn.GenerateBlocks > maxGenerateBlocks {
				return fmt.Errorf(
					"config: %s: generate_blocks %d exceeds protocol cap %d",
					e.name, *e.edn.GenerateBlocks, maxGenerateBlocks,
				)
			}
		}
	}

	return nil
}

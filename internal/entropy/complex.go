// internal/entropy/complex.go

// Package entropy orchestrates the entropy complex: the entropy source,
// the DRBG engine, and both distribution units, plus the software
// generation path that talks to the engine directly.
package entropy

import (
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/entropy-complex/internal/config"
	"github.com/tamzrod/entropy-complex/internal/csrng"
	"github.com/tamzrod/entropy-complex/internal/edn"
	"github.com/tamzrod/entropy-complex/internal/entropysrc"
	"github.com/tamzrod/entropy-complex/internal/registers"
)

// Result-kind sentinels, re-exported for callers of this package.
var (
	ErrBadArgs     = registers.ErrBadArgs
	ErrOutOfRange  = registers.ErrOutOfRange
	ErrRecoverable = registers.ErrRecoverable
)

// Complex drives the whole entropy complex over one register bus.
//
// Single-threaded, run-to-completion: concurrent callers must
// serialize externally.
type Complex struct {
	bus     registers.Bus
	log     logrus.FieldLogger
	profile ProfileID
	over    *config.Overrides

	src    *entropysrc.Device
	engine *csrng.Device
	edn0   *edn.Device
	edn1   *edn.Device
}

// Option adjusts Complex construction.
type Option func(*Complex)

// WithOverrides applies a validated profile overlay on top of the
// built-in table entry.
func WithOverrides(o *config.Overrides) Option {
	return func(c *Complex) { c.over = o }
}

// WithLogger sets the logger shared by all blocks.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Complex) { c.log = log }
}

// New returns a Complex for the continuous profile.
func New(bus registers.Bus, opts ...Option) *Complex {
	c := &Complex{
		bus:     bus,
		log:     logrus.StandardLogger(),
		profile: ProfileContinuous,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine = csrng.New(bus, BaseCsrng, c.log)
	c.src = entropysrc.New(bus, BaseEntropySrc, c.log)
	c.edn0 = edn.New(bus, BaseEDN0, c.engine, c.log)
	c.edn1 = edn.New(bus, BaseEDN1, c.engine, c.log)
	return c
}

// activeProfile looks up the configured table entry, re-validating its
// identity, and applies any overlay.
func (c *Complex) activeProfile() (Profile, error) {
	p, err := lookupProfile(c.profile)
	if err != nil {
		return Profile{}, err
	}
	if c.over != nil {
		applyOverrides(&p, c.over)
	}
	return p, nil
}

// StopAll tears the complex down: consumers before producers, so no
// block is left mid-request against a disappearing upstream. The
// distribution units keep command FIFOs toward the engine that survive
// reconfiguration unless cleared, hence the explicit unit stops first.
func (c *Complex) StopAll() error {
	if err := c.edn0.Stop(); err != nil {
		return err
	}
	if err := c.edn1.Stop(); err != nil {
		return err
	}
	if err := c.engine.Stop(); err != nil {
		return err
	}
	return c.src.Stop()
}

// Init brings the complex from any state into the running continuous
// configuration. Everything is stopped first; on failure the partial
// configuration is left as-is, and the caller retries Init.
func (c *Complex) Init() error {
	if err := c.StopAll(); err != nil {
		return err
	}

	p, err := c.activeProfile()
	if err != nil {
		return err
	}

	if err := c.src.Configure(&p.EntropySrc); err != nil {
		return err
	}
	if err := c.engine.Configure(); err != nil {
		return err
	}
	if err := c.edn0.Configure(&p.EDN0); err != nil {
		return err
	}
	if err := c.edn1.Configure(&p.EDN1); err != nil {
		return err
	}
	c.log.Info("entropy complex running")
	return nil
}

// Check attests, point-in-time and read-only, that the hardware still
// carries the active configuration. First mismatch aborts.
func (c *Complex) Check() error {
	p, err := c.activeProfile()
	if err != nil {
		return err
	}

	if err := c.src.Check(&p.EntropySrc); err != nil {
		return err
	}
	if err := c.engine.Check(); err != nil {
		return err
	}
	if err := c.edn0.Check(); err != nil {
		return err
	}
	return c.edn1.Check()
}

// applyOverrides merges a validated overlay into p.
func applyOverrides(p *Profile, o *config.Overrides) {
	if s := o.Source; s != nil {
		if s.FIPSWindowSize != nil {
			p.EntropySrc.FIPSTestWindowSize = *s.FIPSWindowSize
		}
		if s.AlertThreshold != nil {
			p.EntropySrc.AlertThreshold = *s.AlertThreshold
		}
		if t := s.Thresholds; t != nil {
			set := func(dst *uint16, v *uint16) {
				if v != nil {
					*dst = *v
				}
			}
			set(&p.EntropySrc.RepcntThreshold, t.Repcnt)
			set(&p.EntropySrc.RepcntsThreshold, t.Repcnts)
			set(&p.EntropySrc.AdaptpHiThreshold, t.AdaptpHi)
			set(&p.EntropySrc.AdaptpLoThreshold, t.AdaptpLo)
			set(&p.EntropySrc.BucketThreshold, t.Bucket)
			set(&p.EntropySrc.MarkovHiThreshold, t.MarkovHi)
			set(&p.EntropySrc.MarkovLoThreshold, t.MarkovLo)
			set(&p.EntropySrc.ExthtHiThreshold, t.ExthtHi)
			set(&p.EntropySrc.ExthtLoThreshold, t.ExthtLo)
		}
	}
	applyEDN(&p.EDN0, o.EDN0)
	applyEDN(&p.EDN1, o.EDN1)
}

func applyEDN(cfg *edn.Config, o *config.EDNOverrides) {
	if o == nil {
		return
	}
	if o.ReseedInterval != nil {
		cfg.ReseedInterval = *o.ReseedInterval
	}
	if o.GenerateBlocks != nil {
		cfg.Generate.GenerateLen = *o.GenerateBlocks
	}
}

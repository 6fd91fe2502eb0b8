// internal/edn/edn.go

// Package edn drives the entropy distribution units that wrap the DRBG
// engine with an autonomous reseed/generate schedule for one hardware
// consumer group.
package edn

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/entropy-complex/internal/csrng"
	"github.com/tamzrod/entropy-complex/internal/mubi"
	"github.com/tamzrod/entropy-complex/internal/registers"
)

// Config holds one distribution unit's settings.
type Config struct {
	// Base is the register base address of the targeted unit.
	Base uint32

	// ReseedInterval is the number of generate calls between
	// automatic reseed commands.
	ReseedInterval uint32

	// Engine command descriptors relayed through the unit.
	Instantiate csrng.Command
	Generate    csrng.Command
	Reseed      csrng.Command
}

// Device is one distribution unit instance.
type Device struct {
	base   uint32
	bus    registers.Bus
	engine *csrng.Device
	log    logrus.FieldLogger
}

// New returns a Device at the given base address. Commands the unit
// relays to the DRBG engine are encoded by engine.
func New(bus registers.Bus, base uint32, engine *csrng.Device, log logrus.FieldLogger) *Device {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Device{
		base:   base,
		bus:    bus,
		engine: engine,
		log:    log.WithField("block", fmt.Sprintf("edn@%#x", base)),
	}
}

// Configure programs the command templates and reseed interval, enables
// the unit in automatic-request mode, and instantiates its engine
// instance. After this the unit runs without software intervention.
func (d *Device) Configure(cfg *Config) error {
	if cfg.Base != d.base {
		return fmt.Errorf("edn: config targets unit at %#x, device is at %#x: %w",
			cfg.Base, d.base, registers.ErrBadArgs)
	}
	if err := d.engine.Relay(d.base+regReseedCmd, cfg.Reseed); err != nil {
		return err
	}
	if err := d.engine.Relay(d.base+regGenerateCmd, cfg.Generate); err != nil {
		return err
	}
	if err := d.bus.Write32(d.base+regMaxNumReqs, cfg.ReseedInterval); err != nil {
		return fmt.Errorf("edn: reseed interval write: %v: %w", err, registers.ErrRecoverable)
	}

	reg := ctrlEnableField.Write(0, uint32(mubi.True4))
	reg = ctrlAutoReqModeField.Write(reg, uint32(mubi.True4))
	if err := d.bus.Write32(d.base+regCtrl, reg); err != nil {
		return fmt.Errorf("edn: control write: %v: %w", err, registers.ErrRecoverable)
	}

	if err := d.ReadyBlock(); err != nil {
		return err
	}
	if err := d.engine.Relay(d.base+regSwCmdReq, cfg.Instantiate); err != nil {
		return err
	}
	if err := d.ReadyBlock(); err != nil {
		return err
	}
	d.log.WithField("reseed_interval", cfg.ReseedInterval).Debug("distribution unit running")
	return nil
}

// Check verifies that the unit is enabled in automatic-request mode.
func (d *Device) Check() error {
	reg, err := d.bus.Read32(d.base + regCtrl)
	if err != nil {
		return fmt.Errorf("edn: control read: %v: %w", err, registers.ErrRecoverable)
	}
	if mubi.Bool4(ctrlEnableField.Read(reg)) != mubi.True4 ||
		mubi.Bool4(ctrlAutoReqModeField.Read(reg)) != mubi.True4 {
		return fmt.Errorf("edn: unit not enabled in auto-request mode: %w", registers.ErrRecoverable)
	}
	return nil
}

// Stop clears the unit's command FIFO and disables it.
//
// The FIFO clear is only honored while the unit is enabled, so it is
// asserted first; the following single write restores the whole control
// register to its reset value, dropping enable and the clear bit
// together so no command can be admitted in between.
func (d *Device) Stop() error {
	reg, err := d.bus.Read32(d.base + regCtrl)
	if err != nil {
		return fmt.Errorf("edn: control read: %v: %w", err, registers.ErrRecoverable)
	}
	if err := d.bus.Write32(d.base+regCtrl,
		ctrlCmdFifoRstField.Write(reg, uint32(mubi.True4))); err != nil {
		return fmt.Errorf("edn: fifo clear: %v: %w", err, registers.ErrRecoverable)
	}
	if err := d.bus.Write32(d.base+regCtrl, ctrlResval); err != nil {
		return fmt.Errorf("edn: control reset: %v: %w", err, registers.ErrRecoverable)
	}
	d.log.Debug("distribution unit stopped")
	return nil
}

// ReadyBlock polls until the unit can accept a new engine command. A
// unit reporting an error status will never become usable, so that
// returns immediately instead of blocking forever.
func (d *Device) ReadyBlock() error {
	for {
		reg, err := d.bus.Read32(d.base + regSwCmdSts)
		if err != nil {
			return fmt.Errorf("edn: command status read: %v: %w", err, registers.ErrRecoverable)
		}
		if registers.BitSet(reg, swCmdStsCmdStsBit) {
			return fmt.Errorf("edn: unit reports command error: %w", registers.ErrRecoverable)
		}
		if registers.BitSet(reg, swCmdStsCmdRdyBit) {
			return nil
		}
	}
}

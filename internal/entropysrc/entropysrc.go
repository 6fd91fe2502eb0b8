// internal/entropysrc/entropysrc.go

// Package entropysrc programs and attests the raw entropy source:
// health test thresholds, operating mode, and module enable.
package entropysrc

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/entropy-complex/internal/mubi"
	"github.com/tamzrod/entropy-complex/internal/registers"
)

// Config holds the entropy source operating parameters.
// All boolean-like knobs use multi-bit encodings so that partial bit
// flips are detectable; see package mubi.
type Config struct {
	// FIPSEnable selects SP 800-90B conditioned, FIPS-compliant output.
	FIPSEnable mubi.Bool4

	// RouteToFirmware diverts entropy to a firmware-visible register
	// instead of hardware consumers.
	RouteToFirmware mubi.Bool4

	// BypassConditioner feeds raw entropy downstream. Unsupported;
	// Configure rejects anything but the false encoding.
	BypassConditioner mubi.Bool4

	// SingleBitMode enables single-bit entropy mode.
	SingleBitMode mubi.Bool4

	// FIPSTestWindowSize is the health test window size in bits.
	FIPSTestWindowSize uint16

	// AlertThreshold is the number of health test failures tolerated
	// before an alert fires. 0 disables alerts.
	AlertThreshold uint16

	// Health test thresholds.
	RepcntThreshold   uint16
	RepcntsThreshold  uint16
	AdaptpHiThreshold uint16
	AdaptpLoThreshold uint16
	BucketThreshold   uint16
	MarkovHiThreshold uint16
	MarkovLoThreshold uint16
	ExthtHiThreshold  uint16
	ExthtLoThreshold  uint16
}

// thresholdRegs pairs each health test threshold register with the
// configured value, in programming order.
func (c *Config) thresholdRegs() []struct {
	name   string
	offset uint32
	value  uint16
} {
	return []struct {
		name   string
		offset uint32
		value  uint16
	}{
		{"repcnt", regRepcntThresholds, c.RepcntThreshold},
		{"repcnts", regRepcntsThresholds, c.RepcntsThreshold},
		{"adaptp_hi", regAdaptpHiThresholds, c.AdaptpHiThreshold},
		{"adaptp_lo", regAdaptpLoThresholds, c.AdaptpLoThreshold},
		{"bucket", regBucketThresholds, c.BucketThreshold},
		{"markov_hi", regMarkovHiThresholds, c.MarkovHiThreshold},
		{"markov_lo", regMarkovLoThresholds, c.MarkovLoThreshold},
		{"extht_hi", regExthtHiThresholds, c.ExthtHiThreshold},
		{"extht_lo", regExthtLoThresholds, c.ExthtLoThreshold},
	}
}

// Device is the entropy source block.
type Device struct {
	base uint32
	bus  registers.Bus
	log  logrus.FieldLogger
}

// New returns a Device at the given base address.
func New(bus registers.Bus, base uint32, log logrus.FieldLogger) *Device {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Device{base: base, bus: bus, log: log.WithField("block", "entropy_src")}
}

func (d *Device) write(offset, val uint32) error {
	if err := d.bus.Write32(d.base+offset, val); err != nil {
		return fmt.Errorf("entropy_src: register 0x%02x write: %v: %w", offset, err, registers.ErrRecoverable)
	}
	return nil
}

func (d *Device) read(offset uint32) (uint32, error) {
	reg, err := d.bus.Read32(d.base + offset)
	if err != nil {
		return 0, fmt.Errorf("entropy_src: register 0x%02x read: %v: %w", offset, err, registers.ErrRecoverable)
	}
	return reg, nil
}

// Configure programs the entropy source and asserts module enable.
func (d *Device) Configure(cfg *Config) error {
	if cfg.BypassConditioner != mubi.False4 {
		// Bypassing the conditioner is not supported.
		return fmt.Errorf("entropy_src: conditioner bypass not supported: %w", registers.ErrBadArgs)
	}

	// Routing and type control.
	reg := controlEsRouteField.Write(0, uint32(cfg.RouteToFirmware))
	reg = controlEsTypeField.Write(reg, uint32(cfg.BypassConditioner))
	if err := d.write(regEntropyControl, reg); err != nil {
		return err
	}

	// Operating mode.
	reg = confFipsEnableField.Write(0, uint32(cfg.FIPSEnable))
	reg = confEntropyDataRegField.Write(reg, uint32(cfg.RouteToFirmware))
	reg = confThresholdScopeField.Write(reg, uint32(mubi.False4))
	reg = confRngBitEnableField.Write(reg, uint32(cfg.SingleBitMode))
	reg = confRngBitSelField.Write(reg, 0)
	if err := d.write(regConf, reg); err != nil {
		return err
	}

	// Health test window. The bypass window keeps its reset value;
	// conditioner bypass is not supported.
	if err := d.write(regHealthTestWindows,
		windowsFipsWindowField.Write(healthTestWindowsResval, uint32(cfg.FIPSTestWindowSize))); err != nil {
		return err
	}

	// Alert threshold, stored with its bitwise inverse as a redundant
	// copy.
	reg = alertThresholdField.Write(0, uint32(cfg.AlertThreshold))
	reg = alertThresholdInvField.Write(reg, uint32(^cfg.AlertThreshold))
	if err := d.write(regAlertThreshold, reg); err != nil {
		return err
	}

	// Health test thresholds. Only the FIPS field is programmed; the
	// bypass field stays at its reset value.
	for _, t := range cfg.thresholdRegs() {
		if err := d.write(t.offset,
			thresholdsFipsField.Write(thresholdsResval, uint32(t.value))); err != nil {
			return err
		}
	}

	if err := d.write(regModuleEnable, uint32(mubi.True4)); err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{
		"window": cfg.FIPSTestWindowSize,
		"alert":  cfg.AlertThreshold,
	}).Debug("entropy source enabled")
	return nil
}

// Check verifies, read-only, that the hardware still matches cfg.
//
// Only FIPS-compatible configurations that keep the conditioner in the
// path and do not route entropy to firmware can be attested.
func (d *Device) Check(cfg *Config) error {
	if cfg.FIPSEnable != mubi.True4 ||
		cfg.BypassConditioner != mubi.False4 ||
		cfg.RouteToFirmware != mubi.False4 {
		return fmt.Errorf("entropy_src: check supports only FIPS non-bypass non-routed configs: %w", registers.ErrBadArgs)
	}

	reg, err := d.read(regModuleEnable)
	if err != nil {
		return err
	}
	if mubi.Bool4(reg) != mubi.True4 {
		return fmt.Errorf("entropy_src: module not enabled: %w", registers.ErrRecoverable)
	}

	reg, err = d.read(regConf)
	if err != nil {
		return err
	}
	if mubi.Bool4(confFipsEnableField.Read(reg)) != mubi.True4 ||
		mubi.Bool4(confRngBitEnableField.Read(reg)) != mubi.False4 {
		return fmt.Errorf("entropy_src: operating mode drifted: %w", registers.ErrRecoverable)
	}

	reg, err = d.read(regEntropyControl)
	if err != nil {
		return err
	}
	if mubi.Bool4(controlEsTypeField.Read(reg)) != mubi.False4 ||
		mubi.Bool4(controlEsRouteField.Read(reg)) != mubi.False4 {
		return fmt.Errorf("entropy_src: routing control drifted: %w", registers.ErrRecoverable)
	}

	reg, err = d.read(regHealthTestWindows)
	if err != nil {
		return err
	}
	if windowsFipsWindowField.Read(reg) != uint32(cfg.FIPSTestWindowSize) {
		return fmt.Errorf("entropy_src: health test window drifted: %w", registers.ErrRecoverable)
	}

	// The alert threshold pair is compared as a whole register so a
	// corrupted inverse field fails too.
	exp := alertThresholdField.Write(0, uint32(cfg.AlertThreshold))
	exp = alertThresholdInvField.Write(exp, uint32(^cfg.AlertThreshold))
	reg, err = d.read(regAlertThreshold)
	if err != nil {
		return err
	}
	if reg != exp {
		return fmt.Errorf("entropy_src: alert threshold drifted: %w", registers.ErrRecoverable)
	}

	for _, t := range cfg.thresholdRegs() {
		reg, err = d.read(t.offset)
		if err != nil {
			return err
		}
		if thresholdsFipsField.Read(reg) != uint32(t.value) {
			return fmt.Errorf("entropy_src: %s threshold drifted: %w", t.name, registers.ErrRecoverable)
		}
	}
	return nil
}

// Stop disables the module and returns the critical configuration
// registers to their reset values, in a fixed order, so internal FIFOs
// cannot end up inconsistent with a later reconfiguration.
func (d *Device) Stop() error {
	if err := d.write(regModuleEnable, moduleEnableResval); err != nil {
		return err
	}
	if err := d.write(regEntropyControl, entropyControlResval); err != nil {
		return err
	}
	if err := d.write(regConf, confResval); err != nil {
		return err
	}
	if err := d.write(regHealthTestWindows, healthTestWindowsResval); err != nil {
		return err
	}
	if err := d.write(regAlertThreshold, alertThresholdResval); err != nil {
		return err
	}
	d.log.Debug("entropy source stopped")
	return nil
}

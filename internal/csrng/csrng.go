// internal/csrng/csrng.go

// Package csrng drives the DRBG engine's application command interface:
// header encoding, command transmission with completion tracking, and
// generated-bits draining.
package csrng

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/entropy-complex/internal/mubi"
	"github.com/tamzrod/entropy-complex/internal/registers"
)

// Op is a DRBG application command identifier.
type Op uint32

const (
	OpInstantiate   Op = 1
	OpReseed        Op = 2
	OpGenerate      Op = 3
	OpUpdate        Op = 4
	OpUninstantiate Op = 5
)

const (
	// BlockWords is the engine's native output granularity in 32-bit
	// words (one 128-bit block).
	BlockWords = 4

	// MaxGenerateBlocks caps a single generate request at 0x800
	// 128-bit blocks (4096 bits), per SP 800-90A.
	MaxGenerateBlocks = 0x800

	// maxSeedWords is the widest seed length representable in the
	// 4-bit command length field.
	maxSeedWords = 0xf

	// idleNumTries bounds the main state machine idle wait. Commands
	// can hang when the state machine is not idle, so the wait exists
	// as a defect workaround; it gives up instead of spinning forever.
	idleNumTries = 100000
)

// SeedMaterial is a caller-owned, read-only view of additional seed
// words. The driver never copies or retains it beyond one transmission.
type SeedMaterial struct {
	Data []uint32
}

// Command describes one application command.
type Command struct {
	Op Op

	// DisableTRNGInput maps to flag0. The field is written only when
	// the value is exactly the hardened true encoding; any other
	// value, corrupted intermediates included, leaves flag0 at its
	// safe default.
	DisableTRNGInput mubi.HardenedBool

	Seed *SeedMaterial

	// GenerateLen is the generate length in 128-bit blocks.
	GenerateLen uint32
}

func (c Command) seedLen() uint32 {
	if c.Seed == nil {
		return 0
	}
	return uint32(len(c.Seed.Data))
}

// EncodeHeader packs the 32-bit application command header.
func EncodeHeader(cmd Command) uint32 {
	reg := cmdFieldID.Write(0, uint32(cmd.Op))
	reg = cmdFieldLen.Write(reg, cmd.seedLen())
	reg = cmdFieldGlen.Write(reg, cmd.GenerateLen)
	if cmd.DisableTRNGInput == mubi.HardenedTrue {
		reg = cmdFieldFlag0.Write(reg, uint32(mubi.True4))
	}
	return reg
}

// Device is one DRBG engine instance.
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
	return &Device{base: base, bus: bus, log: log.WithField("block", "csrng")}
}

// idleWait blocks until the engine's internal main state machine
// reports idle, giving up after idleNumTries attempts. Sending a
// command while the state machine is busy can hang the interface.
func (d *Device) idleWait() error {
	for i := 0; i < idleNumTries; i++ {
		reg, err := d.bus.Read32(d.base + regMainSMState)
		if err != nil {
			return fmt.Errorf("csrng: main sm state read: %v: %w", err, registers.ErrRecoverable)
		}
		if reg == mainSMIdle {
			return nil
		}
	}
	return fmt.Errorf("csrng: main sm not idle after %d attempts: %w", idleNumTries, registers.ErrRecoverable)
}

// Send transmits cmd over the engine's own software interface and
// tracks it to completion.
func (d *Device) Send(cmd Command) error {
	return d.sendAppCmd(d.base+regCmdReq, cmd, true)
}

// Relay writes cmd to a command register of another block (a
// distribution unit) that forwards it to the engine. Completion is not
// tracked here; the relaying block's own status covers that.
func (d *Device) Relay(addr uint32, cmd Command) error {
	return d.sendAppCmd(addr, cmd, false)
}

func (d *Device) sendAppCmd(addr uint32, cmd Command, track bool) error {
	if cmd.GenerateLen > MaxGenerateBlocks {
		return fmt.Errorf("csrng: generate length %d blocks exceeds %d: %w",
			cmd.GenerateLen, MaxGenerateBlocks, registers.ErrOutOfRange)
	}
	if cmd.seedLen() > maxSeedWords {
		return fmt.Errorf("csrng: seed material length %d does not fit the command length field: %w",
			cmd.seedLen(), registers.ErrRecoverable)
	}

	if track {
		// The software interface only. Relayed commands are paced by
		// the relaying block.
		if err := d.idleWait(); err != nil {
			return err
		}
		for {
			reg, err := d.bus.Read32(d.base + regSwCmdSts)
			if err != nil {
				return fmt.Errorf("csrng: command status read: %v: %w", err, registers.ErrRecoverable)
			}
			if registers.BitSet(reg, swCmdStsCmdRdyBit) {
				break
			}
		}

		// Clear the completion interrupt before sending so a stale
		// completion from a previous command cannot satisfy the poll
		// below.
		if err := d.bus.Write32(d.base+regIntrState, registers.SetBit(0, intrCmdReqDoneBit)); err != nil {
			return fmt.Errorf("csrng: interrupt clear: %v: %w", err, registers.ErrRecoverable)
		}
	}

	if err := d.bus.Write32(addr, EncodeHeader(cmd)); err != nil {
		return fmt.Errorf("csrng: command header write: %v: %w", err, registers.ErrRecoverable)
	}
	if cmd.Seed != nil {
		for _, word := range cmd.Seed.Data {
			if err := d.bus.Write32(addr, word); err != nil {
				return fmt.Errorf("csrng: seed word write: %v: %w", err, registers.ErrRecoverable)
			}
		}
	}

	if !track {
		return nil
	}

	if cmd.Op == OpGenerate {
		// A generate command completes only once all requested bits
		// have been produced; the valid bit signals progress.
		for {
			reg, err := d.bus.Read32(d.base + regGenbitsVld)
			if err != nil {
				return fmt.Errorf("csrng: genbits valid read: %v: %w", err, registers.ErrRecoverable)
			}
			if registers.BitSet(reg, genbitsVldBit) {
				return nil
			}
		}
	}

	// Non-generate commands complete earlier; poll the command-done
	// interrupt, then inspect the status bit it latches.
	for {
		reg, err := d.bus.Read32(d.base + regIntrState)
		if err != nil {
			return fmt.Errorf("csrng: interrupt state read: %v: %w", err, registers.ErrRecoverable)
		}
		if registers.BitSet(reg, intrCmdReqDoneBit) {
			break
		}
	}
	reg, err := d.bus.Read32(d.base + regSwCmdSts)
	if err != nil {
		return fmt.Errorf("csrng: command status read: %v: %w", err, registers.ErrRecoverable)
	}
	if registers.BitSet(reg, swCmdStsCmdStsBit) {
		return fmt.Errorf("csrng: command %d rejected by hardware: %w", cmd.Op, registers.ErrRecoverable)
	}
	return nil
}

// Configure enables the engine with the software application interface
// and internal state read-back enabled.
func (d *Device) Configure() error {
	reg := ctrlEnableField.Write(0, uint32(mubi.True4))
	reg = ctrlSwAppEnableField.Write(reg, uint32(mubi.True4))
	reg = ctrlReadIntStateField.Write(reg, uint32(mubi.True4))
	if err := d.bus.Write32(d.base+regCtrl, reg); err != nil {
		return fmt.Errorf("csrng: control write: %v: %w", err, registers.ErrRecoverable)
	}
	d.log.Debug("engine enabled")
	return nil
}

// Check verifies that the engine is enabled.
func (d *Device) Check() error {
	reg, err := d.bus.Read32(d.base + regCtrl)
	if err != nil {
		return fmt.Errorf("csrng: control read: %v: %w", err, registers.ErrRecoverable)
	}
	if mubi.Bool4(ctrlEnableField.Read(reg)) != mubi.True4 {
		return fmt.Errorf("csrng: engine not enabled: %w", registers.ErrRecoverable)
	}
	return nil
}

// Stop returns the control register to its reset value, disabling the
// engine.
func (d *Device) Stop() error {
	if err := d.bus.Write32(d.base+regCtrl, ctrlResval); err != nil {
		return fmt.Errorf("csrng: control reset: %v: %w", err, registers.ErrRecoverable)
	}
	d.log.Debug("engine stopped")
	return nil
}

// GenerateDataGet drains the output of a previously started generate
// command into buf.
//
// The engine produces whole 128-bit blocks, so ceil(len(buf)/4) blocks
// are always read in full to keep the hardware FIFO consistent; words
// past len(buf) are discarded. Each block is read in reverse word order
// to match the engine's known-answer-test convention. When fipsCheck is
// anything but the hardened false encoding, a block arriving without
// the FIPS-compatible bit records an error that is returned after the
// drain completes.
func (d *Device) GenerateDataGet(buf []uint32, fipsCheck mubi.HardenedBool) error {
	nblocks := ceilDiv(len(buf), BlockWords)
	var deferred error
	for block := 0; block < nblocks; block++ {
		var reg uint32
		for {
			var err error
			reg, err = d.bus.Read32(d.base + regGenbitsVld)
			if err != nil {
				return fmt.Errorf("csrng: genbits valid read: %v: %w", err, registers.ErrRecoverable)
			}
			if registers.BitSet(reg, genbitsVldBit) {
				break
			}
		}

		if fipsCheck != mubi.HardenedFalse && !registers.BitSet(reg, genbitsFipsBit) {
			// Not FIPS-compatible entropy. The block must still be
			// read to clear the FIFO, so the error is reported only
			// after the drain.
			deferred = fmt.Errorf("csrng: generated bits not FIPS-compatible: %w", registers.ErrRecoverable)
		}

		for offset := 0; offset < BlockWords; offset++ {
			word, err := d.bus.Read32(d.base + regGenbits)
			if err != nil {
				return fmt.Errorf("csrng: genbits read: %v: %w", err, registers.ErrRecoverable)
			}
			idx := block*BlockWords + BlockWords - 1 - offset
			if idx < len(buf) {
				buf[idx] = word
			}
		}
	}
	return deferred
}

// Blocks converts a word count to the number of 128-bit blocks needed
// to cover it.
func Blocks(words int) uint32 {
	return uint32(ceilDiv(words, BlockWords))
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// internal/registers/registers.go
package registers

import "errors"

// Bus abstracts atomic 32-bit register access.
// The driver depends on word geometry only; backends own the transport.
type Bus interface {
	Read32(addr uint32) (uint32, error)
	Write32(addr, val uint32) error
}

// Result-kind sentinels shared by every driver layer.
// Callers classify with errors.Is; each failure site adds context via %w.
var (
	// ErrBadArgs marks an unsupported or invalid configuration request.
	// Caller error, never retried internally.
	ErrBadArgs = errors.New("bad arguments")

	// ErrOutOfRange marks a request exceeding a hard protocol limit.
	ErrOutOfRange = errors.New("out of range")

	// ErrRecoverable marks a hardware error status, an exhausted wait,
	// or a verification mismatch. Caller may retry, typically via init.
	ErrRecoverable = errors.New("recoverable hardware error")
)

// Field describes a sub-field of a 32-bit register.
// Mask is unshifted: Field{Mask: 0xf, Shift: 8} covers bits [11:8].
type Field struct {
	Mask  uint32
	Shift uint32
}

// Write returns reg with the field set to val. Bits outside the field
// are preserved.
func (f Field) Write(reg, val uint32) uint32 {
	return (reg &^ (f.Mask << f.Shift)) | ((val & f.Mask) << f.Shift)
}

// Read extracts the field value from reg.
func (f Field) Read(reg uint32) uint32 {
	return (reg >> f.Shift) & f.Mask
}

// BitSet reports whether bit n of reg is set.
func BitSet(reg uint32, n uint32) bool {
	return reg&(1<<n) != 0
}

// SetBit returns reg with bit n set.
func SetBit(reg uint32, n uint32) uint32 {
	return reg | 1<<n
}

// internal/registers/sim.go
package registers

// Sim is an in-memory register image implementing Bus.
//
// Reads come from a per-address queue of canned values when one is
// loaded, falling back to the stored image. Writes update the image and
// are logged in order. Sim backs package tests and the CLI's dry-run
// backend; it models register storage only, not block behavior.
type Sim struct {
	image    map[uint32]uint32
	queues   map[uint32][]uint32
	readErr  map[uint32]error
	writeErr map[uint32]error
	writes   []Write
}

// Write records one Write32 call.
type Write struct {
	Addr uint32
	Val  uint32
}

// NewSim returns an empty register image. Unseeded addresses read as 0.
func NewSim() *Sim {
	return &Sim{
		image:    make(map[uint32]uint32),
		queues:   make(map[uint32][]uint32),
		readErr:  make(map[uint32]error),
		writeErr: make(map[uint32]error),
	}
}

// Seed sets the stored value for addr without logging a write.
func (s *Sim) Seed(addr, val uint32) {
	s.image[addr] = val
}

// Queue appends canned read values for addr. Queued values are consumed
// one per read before the stored image is used again.
func (s *Sim) Queue(addr uint32, vals ...uint32) {
	s.queues[addr] = append(s.queues[addr], vals...)
}

// FailRead makes every read of addr return err until cleared with a nil err.
func (s *Sim) FailRead(addr uint32, err error) {
	if err == nil {
		delete(s.readErr, addr)
		return
	}
	s.readErr[addr] = err
}

// FailWrite makes every write of addr return err until cleared with a nil err.
func (s *Sim) FailWrite(addr uint32, err error) {
	if err == nil {
		delete(s.writeErr, addr)
		return
	}
	s.writeErr[addr] = err
}

// Read32 implements Bus.
func (s *Sim) Read32(addr uint32) (uint32, error) {
	if err := s.readErr[addr]; err != nil {
		return 0, err
	}
	if q := s.queues[addr]; len(q) > 0 {
		v := q[0]
		s.queues[addr] = q[1:]
		return v, nil
	}
	return s.image[addr], nil
}

// Write32 implements Bus.
func (s *Sim) Write32(addr, val uint32) error {
	if err := s.writeErr[addr]; err != nil {
		return err
	}
	s.image[addr] = val
	s.writes = append(s.writes, Write{Addr: addr, Val: val})
	return nil
}

// Value returns the stored image value for addr.
func (s *Sim) Value(addr uint32) uint32 {
	return s.image[addr]
}

// Writes returns all logged writes in order.
func (s *Sim) Writes() []Write {
	return s.writes
}

// WriteCount returns the number of Write32 calls observed.
func (s *Sim) WriteCount() int {
	return len(s.writes)
}

// internal/registers/registers_test.go
package registers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldWriteRead(t *testing.T) {
	f := Field{Mask: 0xf, Shift: 8}

	reg := f.Write(0, 0x6)
	assert.Equal(t, uint32(0x600), reg)
	assert.Equal(t, uint32(0x6), f.Read(reg))

	// Other bits are preserved and overlong values are masked.
	reg = f.Write(0xff00ff, 0x123)
	assert.Equal(t, uint32(0xff03ff), reg)
	assert.Equal(t, uint32(0x3), f.Read(reg))
}

func TestBitHelpers(t *testing.T) {
	assert.True(t, BitSet(0b10, 1))
	assert.False(t, BitSet(0b10, 0))
	assert.Equal(t, uint32(0b101), SetBit(0b100, 0))
}

func TestSimQueueFallsBackToImage(t *testing.T) {
	s := NewSim()
	s.Seed(0x10, 0xaa)
	s.Queue(0x10, 1, 2)

	for _, want := range []uint32{1, 2, 0xaa, 0xaa} {
		got, err := s.Read32(0x10)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSimWritesAreLoggedAndStored(t *testing.T) {
	s := NewSim()
	require.NoError(t, s.Write32(0x20, 7))
	require.NoError(t, s.Write32(0x24, 9))

	assert.Equal(t, []Write{{Addr: 0x20, Val: 7}, {Addr: 0x24, Val: 9}}, s.Writes())
	assert.Equal(t, uint32(7), s.Value(0x20))

	got, err := s.Read32(0x20)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got)
}

func TestSimInjectedFailures(t *testing.T) {
	s := NewSim()
	boom := errors.New("bus fault")

	s.FailRead(0x30, boom)
	_, err := s.Read32(0x30)
	assert.ErrorIs(t, err, boom)

	s.FailRead(0x30, nil)
	_, err = s.Read32(0x30)
	assert.NoError(t, err)

	s.FailWrite(0x34, boom)
	assert.ErrorIs(t, s.Write32(0x34, 1), boom)
	assert.Zero(t, s.WriteCount())
}

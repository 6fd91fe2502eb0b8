// internal/registers/modbus/modbus_test.go
package modbus

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = 0x41150000

// fakeClient is a word-pair memory behind the Modbus holding register
// vocabulary the bridge uses.
type fakeClient struct {
	regs map[uint16]uint16
	err  error
}

func (f *fakeClient) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]byte, 2*quantity)
	for i := uint16(0); i < quantity; i++ {
		binary.BigEndian.PutUint16(out[2*i:], f.regs[address+i])
	}
	return out, nil
}

func (f *fakeClient) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := uint16(0); i < quantity; i++ {
		f.regs[address+i] = binary.BigEndian.Uint16(value[2*i:])
	}
	return nil, nil
}

func newTestBus() (*Bus, *fakeClient) {
	f := &fakeClient{regs: make(map[uint16]uint16)}
	return &Bus{client: f, base: testBase}, f
}

func TestRoundTrip(t *testing.T) {
	b, f := newTestBus()

	require.NoError(t, b.Write32(testBase+0x14, 0xdeadbeef))

	// One 32-bit register spans two big-endian holding registers at
	// index (addr-base)/2.
	assert.Equal(t, uint16(0xdead), f.regs[0x14/2])
	assert.Equal(t, uint16(0xbeef), f.regs[0x14/2+1])

	got, err := b.Read32(testBase + 0x14)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), got)
}

func TestAddressValidation(t *testing.T) {
	b, _ := newTestBus()

	_, err := b.Read32(testBase + 0x2) // misaligned
	assert.Error(t, err)

	_, err = b.Read32(testBase - 4) // below window
	assert.Error(t, err)

	_, err = b.Read32(testBase + maxOffset + 4) // past window
	assert.Error(t, err)

	// Last word of the window is reachable.
	require.NoError(t, b.Write32(testBase+maxOffset, 1))
}

func TestTransportErrorsPropagate(t *testing.T) {
	b, f := newTestBus()
	f.err = errors.New("connection reset")

	_, err := b.Read32(testBase)
	assert.ErrorIs(t, err, f.err)
	assert.ErrorIs(t, b.Write32(testBase, 1), f.err)
}

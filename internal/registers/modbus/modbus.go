// internal/registers/modbus/modbus.go

// Package modbus implements registers.Bus against a bring-up bridge
// that publishes the DUT register window as Modbus TCP holding
// registers. Each 32-bit register occupies two consecutive holding
// registers, big-endian, at index (addr-base)/2.
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	gomodbus "github.com/goburrow/modbus"
)

// maxOffset keeps both halves of a 32-bit register inside the 16-bit
// holding register space.
const maxOffset = 0x1fffc

// client is the slice of the Modbus vocabulary the bridge needs.
type client interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Bus is a connected bridge client.
type Bus struct {
	client  client
	handler *gomodbus.TCPClientHandler
	base    uint32
}

// Dial connects to a bridge. base is the DUT address mapped to holding
// register 0.
func Dial(endpoint string, base uint32, timeout time.Duration) (*Bus, error) {
	if endpoint == "" {
		return nil, errors.New("modbus bridge: endpoint required")
	}
	handler := gomodbus.NewTCPClientHandler(endpoint)
	handler.Timeout = timeout
	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("modbus bridge: connect %s: %w", endpoint, err)
	}
	return &Bus{
		client:  gomodbus.NewClient(handler),
		handler: handler,
		base:    base,
	}, nil
}

// Close closes the bridge connection.
func (b *Bus) Close() error {
	if b == nil || b.handler == nil {
		return nil
	}
	return b.handler.Close()
}

func (b *Bus) regIndex(addr uint32) (uint16, error) {
	if addr%4 != 0 {
		return 0, fmt.Errorf("modbus bridge: misaligned register address %#x", addr)
	}
	if addr < b.base || addr-b.base > maxOffset {
		return 0, fmt.Errorf("modbus bridge: address %#x outside window at %#x", addr, b.base)
	}
	return uint16((addr - b.base) / 2), nil
}

// Read32 implements registers.Bus.
func (b *Bus) Read32(addr uint32) (uint32, error) {
	idx, err := b.regIndex(addr)
	if err != nil {
		return 0, err
	}
	raw, err := b.client.ReadHoldingRegisters(idx, 2)
	if err != nil {
		return 0, fmt.Errorf("modbus bridge: read %#x: %w", addr, err)
	}
	if len(raw) != 4 {
		return 0, fmt.Errorf("modbus bridge: read %#x: short payload (%d bytes)", addr, len(raw))
	}
	return binary.BigEndian.Uint32(raw), nil
}

// Write32 implements registers.Bus.
func (b *Bus) Write32(addr, val uint32) error {
	idx, err := b.regIndex(addr)
	if err != nil {
		return err
	}
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], val)
	if _, err := b.client.WriteMultipleRegisters(idx, 2, raw[:]); err != nil {
		return fmt.Errorf("modbus bridge: write %#x: %w", addr, err)
	}
	return nil
}

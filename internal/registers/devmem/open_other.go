// internal/registers/devmem/open_other.go

//go:build !linux

package devmem

import "errors"

// Open is only available on linux targets.
func Open(ranges ...Range) (*Bus, error) {
	return nil, errors.New("devmem: /dev/mem access requires linux")
}

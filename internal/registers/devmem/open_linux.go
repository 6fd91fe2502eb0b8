// internal/registers/devmem/open_linux.go

//go:build linux

package devmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Open maps the given register windows from /dev/mem.
func Open(ranges ...Range) (*Bus, error) {
	fd, err := unix.Open("/dev/mem", unix.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("devmem: open /dev/mem: %w", err)
	}
	defer unix.Close(fd)

	b := &Bus{}
	for _, r := range ranges {
		mem, err := unix.Mmap(fd, int64(r.Base), int(r.Size),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("devmem: mmap %#x+%#x: %w", r.Base, r.Size, err)
		}
		b.windows = append(b.windows, window{base: r.Base, size: r.Size, mem: mem})
	}

	windows := b.windows
	b.closer = func() error {
		var first error
		for _, w := range windows {
			if err := unix.Munmap(w.mem); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	return b, nil
}

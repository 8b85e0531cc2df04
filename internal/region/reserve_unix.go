//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package region

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reserve maps n bytes of private anonymous memory. Pages are committed
// lazily by the kernel, so large arenas cost address space rather than RSS
// until touched.
func reserve(n int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, err
	}
	release := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, release, nil
}

//go:build windows

package region

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// reserve commits n bytes of read/write virtual memory.
func reserve(n int) ([]byte, func() error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, err
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
	release := func() error {
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}
	return data, release, nil
}

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly) && !windows

package region

// reserve falls back to the Go heap when anonymous mappings are not available.
func reserve(n int) ([]byte, func() error, error) {
	return make([]byte, n), nil, nil
}

//go:build !linux

package device

// Open isn't supported.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

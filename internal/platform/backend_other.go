//go:build !linux && !windows

package platform

// NewNative reports ErrUnsupported: only X11 and Win32 have native backends.
func NewNative() (Backend, error) {
	return nil, ErrUnsupported
}

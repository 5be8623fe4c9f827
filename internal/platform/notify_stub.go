//go:build !linux && !darwin && !windows

package platform

// Notify reports ErrUnsupported; the caller decides whether that matters.
func Notify(title, body string, opts Options) error {
	return ErrUnsupported
}

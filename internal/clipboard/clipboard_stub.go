//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard is not supported on this platform")

// WriteImage reports that the clipboard is unavailable.
func WriteImage(img image.Image) error {
	if _, err := encodePNG(img); err != nil {
		return err
	}
	return errUnsupported
}

// WriteText reports that the clipboard is unavailable.
func WriteText(string) error { return errUnsupported }

package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for assets that are not a recognised image type.
var ErrUnsupported = errors.New("unsupported asset type")

// Decoder turns an asset address into a decoded image.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (image.Image, error)

func (f DecoderFunc) Decode(path string) (image.Image, error) { return f(path) }

// FileDecoder reads images from the local filesystem.
type FileDecoder struct{}

// Decode sniffs the file header before decoding and honours EXIF
// orientation.
func (FileDecoder) Decode(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory asset.
func DecodeBytes(data []byte) (image.Image, error) {
	if !filetype.IsImage(data) {
		kind, err := filetype.Match(data)
		if err != nil || kind == filetype.Unknown {
			return nil, fmt.Errorf("%w: unknown", ErrUnsupported)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind.MIME.Value)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Thumbnail scales img down to fit in a size×size box, keeping the aspect
// ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, size int) image.Image {
	if img == nil || size <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Box)
}

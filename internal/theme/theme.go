package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colors of the viewer chrome.
type Theme struct {
	Name string

	// Canvas
	Background color.RGBA // Behind the image, visible when letterboxed
	Foreground color.RGBA // Status text

	// Section selector bar
	BarBackground color.RGBA
	TabActive     color.RGBA
	TabText       color.RGBA
	TabTextActive color.RGBA

	// Thumbnail strip
	StripBackground color.RGBA
	ThumbBorder     color.RGBA
	ThumbActive     color.RGBA
	ThumbMissing    color.RGBA // Status text when the current image failed to load

	// Previous/next buttons and the floating arrow
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonText            color.RGBA
	ArrowFill             color.RGBA
}

// Default returns the hardcoded default dark theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{17, 17, 17, 255},
		Foreground:            color.RGBA{235, 235, 235, 255},
		BarBackground:         color.RGBA{0, 0, 0, 180},
		TabActive:             color.RGBA{70, 70, 70, 230},
		TabText:               color.RGBA{190, 190, 190, 255},
		TabTextActive:         color.RGBA{255, 255, 255, 255},
		StripBackground:       color.RGBA{0, 0, 0, 160},
		ThumbBorder:           color.RGBA{90, 90, 90, 255},
		ThumbActive:           color.RGBA{255, 200, 40, 255},
		ThumbMissing:          color.RGBA{80, 20, 20, 255},
		ButtonBackground:      color.RGBA{0, 0, 0, 140},
		ButtonBackgroundHover: color.RGBA{60, 60, 60, 200},
		ButtonText:            color.RGBA{255, 255, 255, 255},
		ArrowFill:             color.RGBA{255, 255, 255, 230},
	}
}

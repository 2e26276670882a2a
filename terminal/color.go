package terminal

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a packed 24-bit colour, 0xRRGGBB. No alpha channel
type RGB uint32

// NewRGB packs 8-bit channels into an RGB
func NewRGB(r, g, b uint8) RGB {
	return RGB(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGBFromColorful converts a colorful.Color, clamping out-of-gamut values
func RGBFromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return NewRGB(r, g, b)
}

// R returns the red channel
func (c RGB) R() uint8 { return uint8(c >> 16) }

// G returns the green channel
func (c RGB) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel
func (c RGB) B() uint8 { return uint8(c) }

// Colorful converts to a colorful.Color for blending
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
	}
}

// Blend interpolates towards other in CIE-Lab space, t in [0,1]
func (c RGB) Blend(other RGB, t float64) RGB {
	return RGBFromColorful(c.Colorful().BlendLab(other.Colorful(), t))
}

// Generic palette, ordered dark-to-light
var (
	Black     = NewRGB(0, 0, 0)
	DarkRed   = NewRGB(20, 0, 0)
	DimGray   = NewRGB(55, 55, 55)
	Gray      = NewRGB(120, 120, 120)
	LightGray = NewRGB(200, 200, 200)
	White     = NewRGB(255, 255, 255)

	Red       = NewRGB(255, 0, 0)
	Coral     = NewRGB(255, 50, 50)
	Green     = NewRGB(0, 255, 0)
	PaleGreen = NewRGB(100, 255, 100)
	Blue      = NewRGB(0, 0, 255)
	Yellow    = NewRGB(255, 255, 0)
	Cyan      = NewRGB(0, 255, 255)
	Magenta   = NewRGB(255, 0, 255)
)

package avatar

import (
	"image/color"
	"strings"
)

// palette is the fixed set of background colors a client may request.
// "brand" is the product accent color.
var palette = map[string]color.NRGBA{
	"blue":   {R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
	"purple": {R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff},
	"green":  {R: 0x22, G: 0xc5, B: 0x5e, A: 0xff},
	"red":    {R: 0xef, G: 0x44, B: 0x44, A: 0xff},
	"orange": {R: 0xf9, G: 0x73, B: 0x16, A: 0xff},
	"yellow": {R: 0xea, G: 0xb3, B: 0x08, A: 0xff},
	"pink":   {R: 0xec, G: 0x48, B: 0x99, A: 0xff},
	"gray":   {R: 0x6b, G: 0x72, B: 0x80, A: 0xff},
	"black":  {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	"white":  {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"brand":  {R: 0x4f, G: 0x46, B: 0xe5, A: 0xff},
}

// PaletteColor resolves a color name case-insensitively.
func PaletteColor(name string) (color.NRGBA, bool) {
	c, ok := palette[strings.ToLower(name)]
	return c, ok
}

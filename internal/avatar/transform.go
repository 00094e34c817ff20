package avatar

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
)

// Transform produces the final response bytes for a request from a source
// image. It is the identity when the target matches the source resolution and
// no color is requested; otherwise it resizes to fit a target×target box with
// transparent padding (never cropping, never upscaling past the source's
// intrinsic content) and/or flattens transparency onto the requested
// background color. Output is always PNG.
func Transform(base []byte, targetRes, sourceRes int, colorName string) ([]byte, error) {
	if targetRes == sourceRes && colorName == "" {
		return base, nil
	}

	img, err := imaging.Decode(bytes.NewReader(base))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrTransformFailed, err)
	}

	if targetRes != sourceRes {
		// Fit never upscales, so content larger than the source stays at
		// its intrinsic size, centered on a transparent canvas.
		content := imaging.Fit(img, targetRes, targetRes, imaging.Lanczos)
		canvas := imaging.New(targetRes, targetRes, color.NRGBA{})
		img = imaging.PasteCenter(canvas, content)
	}

	if colorName != "" {
		bg, ok := PaletteColor(colorName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidColor, colorName)
		}
		b := img.Bounds()
		flat := imaging.New(b.Dx(), b.Dy(), bg)
		img = imaging.OverlayCenter(flat, img, 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrTransformFailed, err)
	}
	return buf.Bytes(), nil
}

package avatar

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, size int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(size, size, c), imaging.PNG))
	return buf.Bytes()
}

func pixelAt(t *testing.T, png []byte, x, y int) color.NRGBA {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(png))
	require.NoError(t, err)
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestTransformIdentity(t *testing.T) {
	t.Parallel()

	base := pngBytes(t, 180, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	out, err := Transform(base, 180, 180, "")
	require.NoError(t, err)
	assert.Equal(t, base, out, "same resolution and no color is a no-op")
}

func TestTransformResize(t *testing.T) {
	t.Parallel()

	base := pngBytes(t, 720, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	out, err := Transform(base, 100, 720, "")
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestTransformNeverUpscales(t *testing.T) {
	t.Parallel()

	base := pngBytes(t, 720, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	out, err := Transform(base, 1024, 720, "")
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())

	// Content stays at its intrinsic 720 size centered on the canvas, so
	// the corners are transparent padding.
	corner := pixelAt(t, out, 0, 0)
	assert.Equal(t, uint8(0), corner.A)
	center := pixelAt(t, out, 512, 512)
	assert.Equal(t, uint8(255), center.A)
}

func TestTransformRecolor(t *testing.T) {
	t.Parallel()

	base := pngBytes(t, 180, color.NRGBA{}) // fully transparent
	out, err := Transform(base, 180, 180, "blue")
	require.NoError(t, err)

	blue, _ := PaletteColor("blue")
	px := pixelAt(t, out, 90, 90)
	assert.Equal(t, blue, px, "transparency flattens onto the named color")
	assert.Equal(t, uint8(255), px.A)
}

func TestTransformResizeAndRecolor(t *testing.T) {
	t.Parallel()

	base := pngBytes(t, 720, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	out, err := Transform(base, 300, 720, "white")
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, uint8(255), pixelAt(t, out, 0, 0).A, "no transparent pixels remain")
}

func TestTransformDeterministic(t *testing.T) {
	t.Parallel()

	base := pngBytes(t, 720, color.NRGBA{R: 40, G: 80, B: 120, A: 200})

	first, err := Transform(base, 150, 720, "green")
	require.NoError(t, err)
	second, err := Transform(base, 150, 720, "green")
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must hash to a stable ETag")
}

func TestTransformCorruptInput(t *testing.T) {
	t.Parallel()

	_, err := Transform([]byte("not a png"), 100, 720, "")
	require.ErrorIs(t, err, ErrTransformFailed)
}

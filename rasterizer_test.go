package ttficon

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

func goRegular(t *testing.T) *Font {
	t.Helper()

	f, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("could not parse the Go Regular font: %v", err)
	}
	return f
}

// inkBounds returns the rectangle enclosing the non transparent pixels.
func inkBounds(img *image.NRGBA) image.Rectangle {
	var ink image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				ink = ink.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return ink
}

func TestRasterizer_BoundsShouldMatchMeasurement(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	for _, size := range []float64{8, 12.5, 24, 64} {
		for _, ch := range "AgW.j" {
			img, err := Rasterize(f, string(ch), color.Black, size)
			assert.NoError(err)

			m, err := Measure(f, string(ch), size)
			assert.NoError(err)

			assert.Equal(m.Bounds(), img.Bounds(), "%q at %vpt", ch, size)
			assert.GreaterOrEqual(img.Bounds().Dx(), 1)
			assert.GreaterOrEqual(img.Bounds().Dy(), 1)
			assert.Equal(image.Point{}, img.Bounds().Min)
		}
	}
}

func TestRasterizer_ShouldBeDeterministic(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	img1, err := Rasterize(f, "Q", red, 32)
	assert.NoError(err)
	img2, err := Rasterize(f, "Q", red, 32)
	assert.NoError(err)

	assert.Equal(img1.Bounds(), img2.Bounds())
	assert.Equal(img1.Pix, img2.Pix)
}

func TestRasterizer_ShouldUseTheRequestedColor(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	img, err := Rasterize(f, "M", red, 48)
	assert.NoError(err)

	var painted int
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			painted++
			assert.InDelta(0xff, c.R, 1)
			assert.InDelta(0, c.G, 1)
			assert.InDelta(0, c.B, 1)
		}
	}
	assert.Greater(painted, 0)
}

func TestRasterizer_BackgroundShouldBeTransparent(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	img, err := Rasterize(f, "A", color.Black, 24)
	assert.NoError(err)

	// The first row is above the cap height of the glyph.
	for x := 0; x < img.Bounds().Dx(); x++ {
		assert.Equal(uint8(0), img.NRGBAAt(x, 0).A)
	}
}

func TestRasterizer_SansScenario(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	img, err := Rasterize(f, "A", color.Black, 24)
	assert.NoError(err)

	m, err := Measure(f, "A", 24)
	assert.NoError(err)

	// Ascent 1935/2048 em, descent 432/2048 em, quantized up to whole pixels.
	assert.Equal(23, m.Ascent.Ceil())
	assert.Equal(29, img.Bounds().Dy())
	assert.Greater(img.Bounds().Dx(), 0)

	ink := inkBounds(img)
	assert.False(ink.Empty())

	// The glyph sits on the baseline, which is positioned at the font ascent.
	assert.InDelta(m.Baseline().Y.Ceil(), ink.Max.Y, 1)
	assert.Equal(23, m.Baseline().Y.Ceil())

	// The side bearings of 'A' are almost equal, so the ink is roughly centered.
	left, right := ink.Min.X, img.Bounds().Dx()-ink.Max.X
	assert.LessOrEqual(math.Abs(float64(left-right)), float64(img.Bounds().Dx())/4)
}

func TestRasterizer_ShouldClampDegenerateBounds(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	img, err := Rasterize(f, "", color.Black, 24)
	assert.NoError(err)
	assert.Equal(1, img.Bounds().Dx())
	assert.GreaterOrEqual(img.Bounds().Dy(), 1)

	img, err = Rasterize(f, "A", color.Black, 0.01)
	assert.NoError(err)
	assert.GreaterOrEqual(img.Bounds().Dx(), 1)
	assert.GreaterOrEqual(img.Bounds().Dy(), 1)
}

func TestRasterizer_ShouldRejectInvalidInput(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	_, err := Rasterize(nil, "A", color.Black, 24)
	assert.ErrorIs(err, ErrNilFont)

	for _, size := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Rasterize(f, "A", color.Black, size)
		assert.ErrorIs(err, ErrInvalidSize, "size %v", size)

		_, err = Measure(f, "A", size)
		assert.ErrorIs(err, ErrInvalidSize, "size %v", size)
	}
}

func TestRasterizer_ShouldRejectSizesBeyondTheFixedPointRange(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	_, err := Rasterize(f, "A", color.Black, 1e7)
	assert.ErrorIs(err, ErrInvalidSize)

	_, err = Measure(f, "A", MaxPixelSize+1)
	assert.ErrorIs(err, ErrInvalidSize)

	// The limit applies to pixels, so it depends on the resolution too.
	hiDPI := &Rasterizer{DPI: 144, Hinting: font.HintingFull}
	_, err = hiDPI.Measure(f, "A", MaxPixelSize/2+1)
	assert.ErrorIs(err, ErrInvalidSize)

	m, err := Measure(f, "A", MaxPixelSize)
	assert.NoError(err)
	// The line height of Go Regular is about 1.16 em.
	assert.InDelta(1.16*MaxPixelSize, m.Bounds().Dy(), 0.02*MaxPixelSize)
}

func TestRasterizer_NonPositiveSizeShouldYieldABlankPixel(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	for _, size := range []float64{0, -12} {
		img, err := Rasterize(f, "A", color.Black, size)
		assert.NoError(err)
		assert.Equal(image.Rect(0, 0, 1, 1), img.Bounds())
		assert.Equal(uint8(0), img.NRGBAAt(0, 0).A)

		m, err := Measure(f, "A", size)
		assert.NoError(err)
		assert.Equal(img.Bounds(), m.Bounds())
	}
}

func TestRasterizer_NilColorShouldFallBackToDefault(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	img1, err := Rasterize(f, "B", nil, 20)
	assert.NoError(err)
	img2, err := Rasterize(f, "B", DefaultColor, 20)
	assert.NoError(err)

	assert.Equal(img1.Pix, img2.Pix)
}

func TestRasterizer_FreeTypeEngine(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	r := &Rasterizer{
		DPI:     DefaultDPI,
		Hinting: font.HintingFull,
		Engine:  FreeType,
	}
	img, err := r.Rasterize(f, "A", red, 24)
	assert.NoError(err)

	m, err := r.Measure(f, "A", 24)
	assert.NoError(err)
	assert.Equal(m.Bounds(), img.Bounds())
	assert.False(inkBounds(img).Empty())

	// FreeType reports the em size as height; the descent still has to fit.
	assert.GreaterOrEqual(img.Bounds().Dy(), m.Ascent.Ceil()+m.Descent.Floor())

	_, err = r.Rasterize(&Font{family: "Empty"}, "A", red, 24)
	assert.ErrorIs(err, ErrNoOutlines)
}

func TestRasterizer_ZeroDPIShouldUseDefault(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	img1, err := (&Rasterizer{Hinting: font.HintingFull}).Rasterize(f, "x", red, 16)
	assert.NoError(err)
	img2, err := Rasterize(f, "x", red, 16)
	assert.NoError(err)

	assert.Equal(img1.Pix, img2.Pix)
}

func TestRasterizer_ParseEngine(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		name   string
		engine Engine
		valid  bool
	}{
		{"", SFNT, true},
		{"sfnt", SFNT, true},
		{"opentype", SFNT, true},
		{"freetype", FreeType, true},
		{"truetype", FreeType, true},
		{"cairo", SFNT, false},
	}

	for _, tc := range testCases {
		e, err := ParseEngine(tc.name)
		if tc.valid {
			assert.NoError(err)
			assert.Equal(tc.engine, e)
		} else {
			assert.Error(err)
		}
	}
	assert.Equal("freetype", FreeType.String())
}

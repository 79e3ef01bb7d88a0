package ttficon

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font"
)

func TestIcon_NewIconShouldUseDefaults(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	icon, err := NewIcon(f, 'A')
	assert.NoError(err)

	assert.Equal(DefaultColor, icon.Color())
	assert.Equal(float64(DefaultSize), icon.Size())
	assert.Equal('A', icon.Char())
	assert.Same(f, icon.Font())

	img, err := Rasterize(f, "A", DefaultColor, DefaultSize)
	assert.NoError(err)
	assert.Equal(img.Bounds(), icon.Bounds())
	assert.Equal(img.Pix, icon.Image().(*image.NRGBA).Pix)
}

func TestIcon_NilColorShouldFallBackToDefault(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	icon, err := NewIconWith(f, 'A', nil, 16)
	assert.NoError(err)
	assert.Equal(DefaultColor, icon.Color())
}

func TestIcon_DeriveColorShouldKeepTheRest(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	icon, err := NewIconWith(f, 'R', color.Black, 30)
	assert.NoError(err)

	derived, err := icon.WithColor(red)
	assert.NoError(err)
	assert.NotSame(icon, derived)

	assert.Equal(red, derived.Color())
	assert.Equal(icon.Size(), derived.Size())
	assert.Equal(icon.Char(), derived.Char())
	assert.Equal(icon.Bounds(), derived.Bounds())

	// The receiver is left untouched.
	assert.Equal(color.Black, icon.Color())

	// The coverage is identical, only the color changes.
	src := icon.Image().(*image.NRGBA)
	dst := derived.Image().(*image.NRGBA)
	for i := 3; i < len(src.Pix); i += 4 {
		assert.Equal(src.Pix[i], dst.Pix[i])
	}
}

func TestIcon_DeriveSizeShouldKeepTheRest(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	icon, err := NewIconWith(f, 'R', red, 24)
	assert.NoError(err)

	derived, err := icon.WithSize(48)
	assert.NoError(err)

	assert.Equal(red, derived.Color())
	assert.Equal(48.0, derived.Size())
	assert.Greater(derived.Bounds().Dy(), icon.Bounds().Dy())
	assert.Greater(derived.Bounds().Dx(), icon.Bounds().Dx())

	expected, err := Rasterize(f, "R", red, 48)
	assert.NoError(err)
	assert.Equal(expected.Pix, derived.Image().(*image.NRGBA).Pix)

	assert.Equal(24.0, icon.Size())
}

func TestIcon_DerivationShouldBeIdempotent(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	icon, err := NewIcon(f, 'g')
	assert.NoError(err)

	// Deriving with the current values reproduces the same bitmap.
	same, err := icon.WithColor(icon.Color())
	assert.NoError(err)
	assert.Equal(icon.Image(), same.Image())

	same, err = icon.WithSize(icon.Size())
	assert.NoError(err)
	assert.Equal(icon.Image(), same.Image())

	// Changing the size back and forth returns to the original bitmap.
	big, err := icon.WithSize(96)
	assert.NoError(err)
	back, err := big.WithSize(icon.Size())
	assert.NoError(err)
	assert.Equal(icon.Image(), back.Image())
}

func TestIcon_ImageShouldReturnACopy(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	icon, err := NewIcon(f, 'A')
	assert.NoError(err)

	img := icon.Image().(*image.NRGBA)
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	assert.NotEqual(img.Pix, icon.Image().(*image.NRGBA).Pix)
}

func TestIcon_ShouldValidateTheSize(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	_, err := NewIconWith(f, 'A', red, math.NaN())
	assert.ErrorIs(err, ErrInvalidSize)

	icon, err := NewIcon(f, 'A')
	assert.NoError(err)

	derived, err := icon.DeriveSize(math.Inf(1))
	assert.ErrorIs(err, ErrInvalidSize)
	assert.Nil(derived)

	// A zero size is not an error, the icon is a blank pixel.
	derived, err = icon.DeriveSize(0)
	assert.NoError(err)
	assert.Equal(image.Rect(0, 0, 1, 1), derived.Image().Bounds())

	_, err = NewIcon(nil, 'A')
	assert.ErrorIs(err, ErrNilFont)
}

func TestIcon_DerivedIconsShouldKeepTheRasterizer(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	r := &Rasterizer{DPI: 144, Hinting: font.HintingNone}
	icon, err := r.NewIcon(f, 'H', red, 12)
	assert.NoError(err)

	derived, err := icon.DeriveColor(color.Black)
	assert.NoError(err)

	// 12pt at 144 DPI is rendered with 24 pixels per em.
	expected, err := r.Rasterize(f, "H", color.Black, 12)
	assert.NoError(err)
	assert.Equal(image.Image(expected), derived.Image())

	defaultImg, err := Rasterize(f, "H", color.Black, 12)
	assert.NoError(err)
	assert.Greater(derived.Image().Bounds().Dy(), defaultImg.Bounds().Dy())
}

func TestIcon_ShouldImplementTheIconInterface(t *testing.T) {
	assert := assert.New(t)
	f := goRegular(t)

	var icon Icon
	icon, err := NewIcon(f, 'x')
	assert.NoError(err)

	icon, err = icon.DeriveColor(red)
	assert.NoError(err)
	icon, err = icon.DeriveSize(40)
	assert.NoError(err)

	assert.Equal(red, icon.Color())
	assert.Equal(40.0, icon.Size())
}

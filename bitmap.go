package ttficon

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/ttficon/utils"
)

// BitmapIcon is an icon backed by a static image. Changing its color replaces the
// color of every pixel while keeping the alpha channel, changing its size resamples it.
// Each derivation starts from the source image, so the loss does not accumulate.
type BitmapIcon struct {
	src   *image.NRGBA
	img   *image.NRGBA
	color color.Color
	size  float64
}

// NewBitmapIcon creates an icon from img, keeping its original colors and size.
func NewBitmapIcon(img image.Image) *BitmapIcon {
	src := imaging.Clone(img)

	return &BitmapIcon{
		src:  src,
		img:  src,
		size: float64(src.Bounds().Dy()),
	}
}

// Color returns the tint of the icon, or nil when the icon shows the original colors.
func (b *BitmapIcon) Color() color.Color { return b.color }

// Size returns the icon height in pixels.
func (b *BitmapIcon) Size() float64 { return b.size }

// Image returns a copy of the icon bitmap.
func (b *BitmapIcon) Image() image.Image {
	return imaging.Clone(b.img)
}

// DeriveColor returns a new icon tinted with col. A nil color restores the original colors.
func (b *BitmapIcon) DeriveColor(col color.Color) (Icon, error) {
	icon, err := b.derive(col, b.size)
	if err != nil {
		return nil, err
	}
	return icon, nil
}

// DeriveSize returns a new icon resized to the given height, preserving the aspect ratio.
// The height is rounded to whole pixels and never goes below one pixel.
func (b *BitmapIcon) DeriveSize(size float64) (Icon, error) {
	icon, err := b.derive(b.color, size)
	if err != nil {
		return nil, err
	}
	return icon, nil
}

func (b *BitmapIcon) derive(col color.Color, size float64) (*BitmapIcon, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	img := b.src
	height := utils.Max(int(math.Round(size)), 1)
	if height != img.Bounds().Dy() {
		img = imaging.Resize(img, 0, height, imaging.Lanczos)
	}
	if col != nil {
		img = tint(img, col)
	}

	return &BitmapIcon{
		src:   b.src,
		img:   img,
		color: col,
		size:  size,
	}, nil
}

// tint replaces the color of every pixel with col, scaling the pixel alpha with the alpha of col.
func tint(img *image.NRGBA, col color.Color) *image.NRGBA {
	t := color.NRGBAModel.Convert(col).(color.NRGBA)

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: t.R,
			G: t.G,
			B: t.B,
			A: uint8(uint16(c.A) * uint16(t.A) / 0xff),
		}
	})
}

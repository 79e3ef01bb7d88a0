package ttficon

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Icon is the capability set shared by every icon source.
// Deriving an icon never modifies the receiver, it always returns a new instance.
type Icon interface {
	Image() image.Image
	Color() color.Color
	Size() float64
	DeriveColor(color.Color) (Icon, error)
	DeriveSize(float64) (Icon, error)
}

var (
	_ Icon = (*FontIcon)(nil)
	_ Icon = (*BitmapIcon)(nil)
)

// FontIcon is an icon rendered from a single character of a font.
// The bitmap always corresponds to the font, character, color and size stored alongside it.
type FontIcon struct {
	font  *Font
	ch    rune
	color color.Color
	size  float64
	img   *image.NRGBA
	rast  *Rasterizer
}

// NewIcon renders ch with the DefaultColor and the DefaultSize.
func NewIcon(f *Font, ch rune) (*FontIcon, error) {
	return DefaultRasterizer.NewIcon(f, ch, DefaultColor, DefaultSize)
}

// NewIconWith renders ch with the provided color and size.
func NewIconWith(f *Font, ch rune, col color.Color, size float64) (*FontIcon, error) {
	return DefaultRasterizer.NewIcon(f, ch, col, size)
}

// NewIcon renders ch with the rasterizer options of r. Icons derived
// from the returned one are rendered with the same rasterizer.
func (r *Rasterizer) NewIcon(f *Font, ch rune, col color.Color, size float64) (*FontIcon, error) {
	if col == nil {
		col = DefaultColor
	}
	img, err := r.Rasterize(f, string(ch), col, size)
	if err != nil {
		return nil, err
	}

	return &FontIcon{
		font:  f,
		ch:    ch,
		color: col,
		size:  size,
		img:   img,
		rast:  r,
	}, nil
}

// WithColor returns a new icon with the same font, character and size, rendered in col.
func (i *FontIcon) WithColor(col color.Color) (*FontIcon, error) {
	return i.rast.NewIcon(i.font, i.ch, col, i.size)
}

// WithSize returns a new icon with the same font, character and color, rendered at size.
func (i *FontIcon) WithSize(size float64) (*FontIcon, error) {
	return i.rast.NewIcon(i.font, i.ch, i.color, size)
}

// DeriveColor implements the Icon interface.
func (i *FontIcon) DeriveColor(col color.Color) (Icon, error) {
	icon, err := i.WithColor(col)
	if err != nil {
		return nil, err
	}
	return icon, nil
}

// DeriveSize implements the Icon interface.
func (i *FontIcon) DeriveSize(size float64) (Icon, error) {
	icon, err := i.WithSize(size)
	if err != nil {
		return nil, err
	}
	return icon, nil
}

// Font returns the font the icon is rendered with.
func (i *FontIcon) Font() *Font { return i.font }

// Char returns the rendered character.
func (i *FontIcon) Char() rune { return i.ch }

// Color returns the glyph color.
func (i *FontIcon) Color() color.Color { return i.color }

// Size returns the font size in points.
func (i *FontIcon) Size() float64 { return i.size }

// Bounds returns the bitmap bounds.
func (i *FontIcon) Bounds() image.Rectangle { return i.img.Bounds() }

// Image returns a copy of the icon bitmap. Modifying it does not affect the icon.
func (i *FontIcon) Image() image.Image {
	return imaging.Clone(i.img)
}

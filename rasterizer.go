package ttficon

import (
	"image"
	"image/color"
	"math"

	"github.com/esimov/ttficon/utils"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Engine selects the library used for turning glyph outlines into coverage masks.
type Engine int

const (
	// SFNT rasterizes with golang.org/x/image/font/opentype. It supports TTF and OTF fonts.
	SFNT Engine = iota
	// FreeType rasterizes with github.com/golang/freetype. It supports TTF fonts only.
	FreeType
)

// String returns the engine name as accepted by ParseEngine.
func (e Engine) String() string {
	switch e {
	case SFNT:
		return "sfnt"
	case FreeType:
		return "freetype"
	}
	return "unknown"
}

// ParseEngine converts an engine name to Engine.
func ParseEngine(name string) (Engine, error) {
	switch name {
	case "", "sfnt", "opentype":
		return SFNT, nil
	case "freetype", "truetype":
		return FreeType, nil
	}
	return SFNT, errors.Errorf("unsupported rasterizer engine: %q", name)
}

const (
	// DefaultDPI makes one point equal to one pixel.
	DefaultDPI = 72
	// DefaultSize is the point size used by NewIcon.
	DefaultSize = 24
	// MaxPixelSize is the largest em size, in pixels, for which the glyph coordinates
	// of any font still fit the 26.6 fixed point arithmetic of the engines.
	MaxPixelSize = 1024
)

var (
	// DefaultColor is the glyph color used by NewIcon.
	DefaultColor color.Color = color.Black

	// ErrInvalidSize is returned for NaN, infinite or too large icon sizes.
	ErrInvalidSize = errors.New("icon size should be a finite number")
	// ErrNoOutlines is returned by the FreeType engine for fonts without TrueType outlines.
	ErrNoOutlines = errors.New("font has no TrueType outlines")

	// DefaultRasterizer is used by the package level functions.
	DefaultRasterizer = &Rasterizer{
		DPI:     DefaultDPI,
		Hinting: font.HintingFull,
		Engine:  SFNT,
	}
)

// Rasterizer options
type Rasterizer struct {
	DPI     float64
	Hinting font.Hinting
	Engine  Engine
}

// Metrics holds the measurement of a text rendered with a font at a given size.
// All the values are in pixels, expressed as 26.6 fixed point numbers.
type Metrics struct {
	Advance fixed.Int26_6       // horizontal advance of the whole text
	Ascent  fixed.Int26_6       // distance from the top of the line to the baseline
	Descent fixed.Int26_6       // distance from the baseline to the bottom of the line
	Height  fixed.Int26_6       // line height, never less than ascent plus descent
	Ink     fixed.Rectangle26_6 // bounds of the painted pixels relative to the dot
}

// Bounds returns the bitmap rectangle needed to hold the text. It is at least 1x1 pixel.
func (m Metrics) Bounds() image.Rectangle {
	w := utils.Max(m.Advance, m.Ink.Max.X).Ceil()
	h := m.Height.Ceil()

	return image.Rect(0, 0, utils.Max(w, 1), utils.Max(h, 1))
}

// Baseline returns the dot where the text is drawn: x=0 and y=ascent.
func (m Metrics) Baseline() fixed.Point26_6 {
	return fixed.Point26_6{X: 0, Y: fixed.I(m.Ascent.Ceil())}
}

// Rasterize renders text with the DefaultRasterizer.
func Rasterize(f *Font, text string, col color.Color, size float64) (*image.NRGBA, error) {
	return DefaultRasterizer.Rasterize(f, text, col, size)
}

// Measure measures text with the DefaultRasterizer.
func Measure(f *Font, text string, size float64) (Metrics, error) {
	return DefaultRasterizer.Measure(f, text, size)
}

// Rasterize renders text into a new, transparent bitmap which tightly bounds it.
// The text is drawn in the requested color with its left edge at x=0 and its baseline at the font ascent.
// A nil color stands for DefaultColor. Empty text and non-positive sizes yield a blank 1x1 bitmap.
func (r *Rasterizer) Rasterize(f *Font, text string, col color.Color, size float64) (*image.NRGBA, error) {
	if col == nil {
		col = DefaultColor
	}

	face, err := r.newFace(f, size)
	if err != nil {
		return nil, err
	}
	if face == nil {
		return image.NewNRGBA(Metrics{}.Bounds()), nil
	}
	defer face.Close()

	m := measure(face, text)
	dst := image.NewNRGBA(m.Bounds())

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  m.Baseline(),
	}
	d.DrawString(text)

	return dst, nil
}

// Measure returns the metrics of text rendered at the given size, without drawing it.
func (r *Rasterizer) Measure(f *Font, text string, size float64) (Metrics, error) {
	face, err := r.newFace(f, size)
	if err != nil || face == nil {
		return Metrics{}, err
	}
	defer face.Close()

	return measure(face, text), nil
}

// newFace derives a face of the requested size from the font.
// The hinting is applied on each call, the caller has to close the returned face.
// Nothing can be drawn at a non-positive size, so in that case the face is nil.
func (r *Rasterizer) newFace(f *Font, size float64) (font.Face, error) {
	if f == nil {
		return nil, ErrNilFont
	}
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, nil
	}

	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if px := size * dpi / 72; px > MaxPixelSize {
		return nil, errors.Wrapf(ErrInvalidSize, "%vpt at %v DPI is %.0f pixels, the limit is %d", size, dpi, px, MaxPixelSize)
	}

	switch r.Engine {
	case FreeType:
		if f.ttf == nil {
			return nil, errors.Wrapf(ErrNoOutlines, "%s", f.Name())
		}
		return truetype.NewFace(f.ttf, &truetype.Options{
			Size:    size,
			DPI:     dpi,
			Hinting: r.Hinting,
		}), nil
	default:
		face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
			Size:    size,
			DPI:     dpi,
			Hinting: r.Hinting,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not create a %vpt face of %s", size, f.Name())
		}
		return face, nil
	}
}

// measure computes the string bounds the same way for every engine.
func measure(face font.Face, text string) Metrics {
	fm := face.Metrics()
	ink, advance := font.BoundString(face, text)

	m := Metrics{
		Advance: advance,
		Ascent:  fm.Ascent,
		Descent: fm.Descent,
		Height:  fm.Height,
		Ink:     ink,
	}
	// Some engines report the em size as height, which would clip the descenders.
	if h := fixed.I(fm.Ascent.Ceil()) + fm.Descent; h > m.Height {
		m.Height = h
	}
	return m
}

func checkSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return errors.Wrapf(ErrInvalidSize, "got %v", size)
	}
	return nil
}

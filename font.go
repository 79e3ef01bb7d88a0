package ttficon

import (
	"os"
	"strings"

	"github.com/esimov/ttficon/utils"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// defaultStyle is used when a font carries no subfamily name.
const defaultStyle = "Regular"

var (
	// ErrNilFont is returned when a nil font is passed to the rasterizer.
	ErrNilFont = errors.New("font should not be nil")
	// ErrNotAFont is returned when the loaded file is not a TrueType or OpenType font.
	ErrNotAFont = errors.New("the provided file is not a font file")
)

// Font is a size independent reference to a parsed TrueType or OpenType font.
// It is never modified after creation, so it can be shared between goroutines and icons.
type Font struct {
	family string
	style  string

	otf *opentype.Font
	ttf *truetype.Font
}

// ParseFont parses a TTF or OTF font from its raw bytes.
// In case of a font collection (TTC, OTC) the first font is used.
func ParseFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrNotAFont, "empty font data")
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse the font")
	}
	otf, err := coll.Font(0)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the first font of the collection")
	}

	f := &Font{otf: otf}
	if f.family, err = fontName(otf, sfnt.NameIDFamily); err != nil {
		return nil, err
	}
	if f.style, err = fontName(otf, sfnt.NameIDSubfamily); err != nil {
		return nil, err
	}
	if f.style == "" {
		f.style = defaultStyle
	}

	// FreeType understands only glyf based outlines, CFF fonts are served by the SFNT engine alone.
	if ttf, err := truetype.Parse(data); err == nil {
		f.ttf = ttf
	}
	return f, nil
}

// LoadFont reads and parses the font file found at path.
func LoadFont(path string) (*Font, error) {
	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open the font file %q", path)
	}
	if !isFontType(ctype) {
		return nil, errors.Wrapf(ErrNotAFont, "%s has content type %s", path, ctype)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read the font file %q", path)
	}
	return ParseFont(data)
}

// Family returns the font family name, e.g. "Go Mono".
func (f *Font) Family() string { return f.family }

// Style returns the font subfamily name, e.g. "Bold Italic".
func (f *Font) Style() string { return f.style }

// Name returns the family and the style joined by a space.
func (f *Font) Name() string {
	return strings.TrimSpace(f.family + " " + f.style)
}

// HasGlyph reports whether the font maps r to a glyph other than the missing glyph.
func (f *Font) HasGlyph(r rune) bool {
	if f == nil {
		return false
	}
	idx, err := f.otf.GlyphIndex(nil, r)
	return err == nil && idx != 0
}

// fontName reads an entry of the font's name table. Missing entries are not an error.
func fontName(f *opentype.Font, id sfnt.NameID) (string, error) {
	name, err := f.Name(nil, id)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return "", nil
		}
		return "", errors.Wrap(err, "could not read the font name table")
	}
	return name, nil
}

// isFontType checks the sniffed MIME type against the font types we are able to parse.
func isFontType(ctype string) bool {
	switch ctype {
	case "font/ttf", "font/otf", "font/collection", "application/vnd.ms-opentype":
		return true
	}
	return false
}
